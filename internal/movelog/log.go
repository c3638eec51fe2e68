package movelog

import (
	"errors"
	"fmt"

	"github.com/park285/chess-rules/internal/board"
)

var ErrOutOfTurn = errors.New("record is out of turn")

// Log is the append-only move history of one game. White always moves
// first, so the side to move follows from the record counts.
type Log struct {
	white []*Record
	black []*Record

	pliesWithoutPawn int
}

func New() *Log { return &Log{} }

// Append adds an applied move. Pawn moves and captures reset the
// fifty-ply counter.
func (l *Log) Append(r *Record) error {
	if r == nil {
		return errors.New("nil record")
	}
	if turn := l.Turn(); r.Color != turn {
		return fmt.Errorf("%w: %s record while %s to move", ErrOutOfTurn, r.Color, turn)
	}
	if r.Color == board.White {
		l.white = append(l.white, r)
	} else {
		l.black = append(l.black, r)
	}
	if r.PawnMove || r.Capture {
		l.pliesWithoutPawn = 0
	} else {
		l.pliesWithoutPawn++
	}
	return nil
}

func (l *Log) Turn() board.Color {
	if len(l.white) > len(l.black) {
		return board.Black
	}
	return board.White
}

func (l *Log) Len() int { return len(l.white) + len(l.black) }

func (l *Log) PliesWithoutPawnMove() int { return l.pliesWithoutPawn }

func (l *Log) side(c board.Color) []*Record {
	if c == board.White {
		return l.white
	}
	return l.black
}

// Last returns the most recent record of color c, or nil.
func (l *Log) Last(c board.Color) *Record {
	s := l.side(c)
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// All returns a copy of the records of color c in order.
func (l *Log) All(c board.Color) []*Record {
	s := l.side(c)
	out := make([]*Record, len(s))
	copy(out, s)
	return out
}

// HasMoved reports whether p appears in any earlier record of its color.
func (l *Log) HasMoved(p *board.Piece) bool {
	for _, r := range l.side(p.Color()) {
		if r.Moved(p) {
			return true
		}
	}
	return false
}

// Notations interleaves both sides in play order.
func (l *Log) Notations() []string {
	out := make([]string, 0, l.Len())
	for i := range l.white {
		out = append(out, l.white[i].Notation)
		if i < len(l.black) {
			out = append(out, l.black[i].Notation)
		}
	}
	return out
}

// UCIMoves interleaves both sides as coordinate moves.
func (l *Log) UCIMoves() []string {
	out := make([]string, 0, l.Len())
	for i := range l.white {
		out = append(out, l.white[i].UCI())
		if i < len(l.black) {
			out = append(out, l.black[i].UCI())
		}
	}
	return out
}

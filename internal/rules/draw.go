package rules

import (
	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/movelog"
)

// DrawReason names why a game ended drawn.
type DrawReason int

const (
	NoDraw DrawReason = iota
	FiftyMovesWithoutPawn
	TriplePositionRepeat
	StaleMate
	LackOfPieces
	PlayersDecision
)

var drawReasonNames = [...]string{
	NoDraw:                "NONE",
	FiftyMovesWithoutPawn: "FIFTY_MOVES_WITHOUT_PAWN",
	TriplePositionRepeat:  "TRIPLE_POSITION_REPEAT",
	StaleMate:             "STALE_MATE",
	LackOfPieces:          "LACK_OF_PIECES",
	PlayersDecision:       "PLAYERS_DECISION",
}

func (r DrawReason) String() string {
	if r < NoDraw || int(r) >= len(drawReasonNames) {
		return "UNKNOWN"
	}
	return drawReasonNames[r]
}

const (
	fiftyPlyLimit    = 50
	repetitionWindow = 3
	// repetition is not looked at before white has this many moves
	repetitionMinMoves = 4
)

// DrawAnalyser runs after every non-mating move; the first matching rule
// wins.
type DrawAnalyser struct {
	board *board.Board
	log   *movelog.Log
	probe prober
}

func NewDrawAnalyser(b *board.Board, l *movelog.Log, v *Validator, s *SpecialRuleValidator) *DrawAnalyser {
	return &DrawAnalyser{board: b, log: l, probe: prober{validator: v, special: s}}
}

func (d *DrawAnalyser) Analyse() DrawReason {
	switch {
	case d.log.PliesWithoutPawnMove() >= fiftyPlyLimit:
		return FiftyMovesWithoutPawn
	case d.repeated():
		return TriplePositionRepeat
	case d.stalemate(d.log.Turn()):
		return StaleMate
	case d.dead():
		return LackOfPieces
	}
	return NoDraw
}

// repeated compares notation text only. It is an approximation of
// threefold repetition, not a position comparison.
func (d *DrawAnalyser) repeated() bool {
	whites, blacks := d.log.All(board.White), d.log.All(board.Black)
	if len(whites) < repetitionMinMoves || len(blacks) < repetitionWindow {
		return false
	}
	return sameTail(whites) && sameTail(blacks)
}

func sameTail(recs []*movelog.Record) bool {
	tail := recs[len(recs)-repetitionWindow:]
	for _, r := range tail[1:] {
		if r.Notation != tail[0].Notation {
			return false
		}
	}
	return true
}

func (d *DrawAnalyser) stalemate(side board.Color) bool {
	if d.board.InCheck(side) {
		return false
	}
	for _, pc := range d.board.Pieces(side) {
		if d.probe.anyMove(d.board, pc) {
			return false
		}
	}
	return true
}

// dead: no heavy pieces, every pawn stuck, and at most the minor pieces
// that cannot force mate.
func (d *DrawAnalyser) dead() bool {
	var minors []*board.Piece
	for _, side := range []board.Color{board.White, board.Black} {
		for _, pc := range d.board.Pieces(side) {
			switch pc.Kind() {
			case board.Rook, board.Queen:
				return false
			case board.Pawn:
				if d.probe.anyMove(d.board, pc) {
					return false
				}
			case board.Knight, board.Bishop:
				minors = append(minors, pc)
			}
		}
	}
	if len(minors) <= 1 {
		return true
	}
	return sameShadeBishops(minors)
}

func sameShadeBishops(pieces []*board.Piece) bool {
	shade := pieces[0].Square().Color()
	for _, pc := range pieces {
		if pc.Kind() != board.Bishop || pc.Square().Color() != shade {
			return false
		}
	}
	return true
}

package rules

import (
	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/movelog"
)

// SpecialRuleValidator settles castling and en passant, the two rules
// that depend on history rather than placement.
type SpecialRuleValidator struct {
	board *board.Board
	log   *movelog.Log
}

func NewSpecialRuleValidator(b *board.Board, l *movelog.Log) *SpecialRuleValidator {
	return &SpecialRuleValidator{board: b, log: l}
}

// Validate runs once for a record flagged Deep and reports whether it is
// still legal. Illegal records are cleared.
func (s *SpecialRuleValidator) Validate(rec *movelog.Record) bool {
	if !rec.Deep {
		return len(rec.Variations) > 0
	}
	ok := true
	switch {
	case rec.Castling:
		ok = s.castling(rec)
	case rec.EnPassant:
		ok = s.enPassant(rec)
	}
	if !ok {
		rec.Clear()
	}
	return ok
}

// castling: neither the king nor the rook may have moved before, even if
// it has since returned home.
func (s *SpecialRuleValidator) castling(rec *movelog.Record) bool {
	for _, v := range rec.Variations {
		if s.log.HasMoved(v.Piece) {
			return false
		}
	}
	return true
}

// enPassant: the opponent's last move must be the opening double step of
// the pawn standing directly behind the destination.
func (s *SpecialRuleValidator) enPassant(rec *movelog.Record) bool {
	if len(rec.Variations) != 1 {
		return false
	}
	to := rec.Variations[0].To
	last := s.log.Last(rec.Color.Opposite())
	if last == nil || len(last.Variations) != 1 {
		return false
	}
	lp := last.Variations[0].Piece
	if lp.Kind() != board.Pawn || lp.Moves() != 1 || lp.Captured() {
		return false
	}
	// a pawn set up off its home rank may have stepped only once
	if doubleStepSquare(s.board, last, lp) != to {
		return false
	}
	return lp.Square() == s.board.Offset(to, board.Delta{Rank: -rec.Color.Forward()})
}

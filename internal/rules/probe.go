package rules

import (
	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/movelog"
)

// prober answers "could this piece go there" by running a synthetic
// single-variation record through both validators.
type prober struct {
	validator *Validator
	special   *SpecialRuleValidator
}

func (p prober) legal(pc *board.Piece, to *board.Square) bool {
	rec := &movelog.Record{
		Color:      pc.Color(),
		PawnMove:   pc.Kind() == board.Pawn,
		Variations: []movelog.Variation{{Piece: pc, From: pc.Square(), To: to}},
	}
	if !p.validator.Validate(rec) {
		return false
	}
	return p.special.Validate(rec)
}

// legalEnPassant runs only the static validator; the caller has already
// established that the opponent's last move was the double step.
func (p prober) legalEnPassant(pc *board.Piece, to *board.Square) bool {
	rec := &movelog.Record{
		Color:      pc.Color(),
		PawnMove:   true,
		Variations: []movelog.Variation{{Piece: pc, From: pc.Square(), To: to}},
	}
	return p.validator.Validate(rec) && rec.EnPassant
}

// anyMove reports whether pc has at least one legal destination.
func (p prober) anyMove(b *board.Board, pc *board.Piece) bool {
	for _, d := range pc.Deltas() {
		if to := b.Offset(pc.Square(), d); to != nil && p.legal(pc, to) {
			return true
		}
	}
	return false
}

// anyReach reports whether some piece of color c other than its king can
// legally move to sq.
func (p prober) anyReach(b *board.Board, sq *board.Square, c board.Color) bool {
	for _, pc := range b.PiecesMovingTo(sq, c) {
		if pc.Kind() == board.King {
			continue
		}
		if p.legal(pc, sq) {
			return true
		}
	}
	return false
}

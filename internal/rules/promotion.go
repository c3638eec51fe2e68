package rules

import (
	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/movelog"
)

// PromotionMarker tags a promoting move; the chosen letter follows it.
const PromotionMarker = "="

type PromotionAnalyser struct {
	board *board.Board
}

func NewPromotionAnalyser(b *board.Board) *PromotionAnalyser {
	return &PromotionAnalyser{board: b}
}

// Analyse tags rec when a single pawn reached the opponent's back rank.
func (a *PromotionAnalyser) Analyse(rec *movelog.Record) bool {
	if len(rec.Variations) != 1 {
		return false
	}
	v := rec.Variations[0]
	if v.Piece.Kind() != board.Pawn || v.To.Rank() != rec.Color.Opposite().HomeRank() {
		return false
	}
	rec.Notation += PromotionMarker
	return true
}

// Exchange swaps the pawn for kind. Kings and pawns are not allowed and
// fall back to a queen.
func (a *PromotionAnalyser) Exchange(rec *movelog.Record, kind board.Kind) (*board.Piece, error) {
	if !kind.Promotable() {
		kind = board.Queen
	}
	pc, err := a.board.Promote(rec.Variations[0].Piece, kind)
	if err != nil {
		return nil, err
	}
	rec.Promotion = kind
	rec.Notation += string(kind.Letter())
	return pc, nil
}

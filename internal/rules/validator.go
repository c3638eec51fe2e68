package rules

import (
	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/movelog"
)

type verdict int

const (
	reject verdict = iota
	accept
	deepCheck // legal only if the move history allows it
)

// Validator narrows a candidate record to its legal variations using
// static board queries. Pins and checks are read off the current
// placement; moves are never played out and taken back.
type Validator struct {
	board *board.Board
}

func NewValidator(b *board.Board) *Validator { return &Validator{board: b} }

// Validate filters rec in place and reports whether anything survived.
func (v *Validator) Validate(rec *movelog.Record) bool {
	if rec.Castling {
		v.castling(rec)
		return len(rec.Variations) > 0
	}

	kept := rec.Variations[:0]
	for _, vr := range rec.Variations {
		switch v.score(vr, rec.Color) {
		case accept:
			kept = append(kept, vr)
		case deepCheck:
			kept = append(kept, vr)
			rec.Deep = true
			rec.EnPassant = true
		}
	}
	rec.Variations = kept
	if duplicateDestinations(kept) {
		rec.Clear()
	}
	return len(rec.Variations) > 0
}

func (v *Validator) score(vr movelog.Variation, side board.Color) verdict {
	p, to := vr.Piece, vr.To
	if p == nil || p.Captured() || p.Color() != side {
		return reject
	}
	from := p.Square()
	if v.board.OccupiedBy(to, side) {
		return reject
	}
	if p.Kind() != board.Knight && !v.board.Clear(from, to) {
		return reject
	}
	if p.Kind() != board.King {
		if v.board.IsPinned(p) {
			return reject
		}
		if checkers := v.board.Checkers(side); len(checkers) > 0 && !v.resolves(checkers, p, to) {
			return reject
		}
	}

	result := accept
	switch p.Kind() {
	case board.Pawn:
		result = v.pawn(p, to)
	case board.King:
		if v.board.IsAttackedIgnoring(to, side, from) {
			return reject
		}
	}
	return result
}

// resolves reports whether moving p to to answers the check: it captures
// the only checker, takes a checking pawn en passant, or blocks the line
// between the checker and the king.
func (v *Validator) resolves(checkers []*board.Piece, p *board.Piece, to *board.Square) bool {
	if len(checkers) != 1 {
		return false
	}
	c := checkers[0]
	if to == c.Square() {
		return true
	}
	if v.passesBehind(p, to, c) {
		// history is settled by the special rule validator
		return true
	}
	if !c.Kind().Slider() {
		return false
	}
	for _, sq := range v.board.Between(c.Square(), v.board.King(p.Color()).Square(), false) {
		if sq == to {
			return true
		}
	}
	return false
}

// passesBehind reports whether pawn p moving diagonally onto the empty
// square to would take target en passant.
func (v *Validator) passesBehind(p *board.Piece, to *board.Square, target *board.Piece) bool {
	if p.Kind() != board.Pawn || target.Kind() != board.Pawn || target.Color() == p.Color() {
		return false
	}
	if !to.Empty() || to.File() == p.Square().File() {
		return false
	}
	return v.board.Offset(to, board.Delta{Rank: -p.Color().Forward()}) == target.Square()
}

func (v *Validator) pawn(p *board.Piece, to *board.Square) verdict {
	from := p.Square()
	if to.File() == from.File() {
		// straight moves never capture; the two-square path was checked above
		if !to.Empty() {
			return reject
		}
		return accept
	}
	if occ := to.Piece(); occ != nil {
		if occ.Kind() == board.King {
			return reject
		}
		return accept
	}
	behind := v.board.Offset(to, board.Delta{Rank: -p.Color().Forward()})
	if behind == nil {
		return reject
	}
	bp := behind.Piece()
	if bp != nil && bp.Kind() == board.Pawn && bp.Color() != p.Color() && to.Rank() == enPassantRank(p.Color()) {
		return deepCheck
	}
	return reject
}

// enPassantRank is the rank a capturing pawn of color c lands on.
func enPassantRank(c board.Color) int {
	if c == board.White {
		return 6
	}
	return 3
}

// castling requires an empty path between king and rook and no attacked
// square on the king's way, both ends included.
func (v *Validator) castling(rec *movelog.Record) {
	if len(rec.Variations) != 2 {
		rec.Clear()
		return
	}
	king, rook := rec.Variations[0], rec.Variations[1]
	if !v.board.Clear(king.Piece.Square(), rook.Piece.Square()) {
		rec.Clear()
		return
	}
	for _, sq := range v.board.Between(king.Piece.Square(), king.To, true) {
		if v.board.IsAttacked(sq, rec.Color) {
			rec.Clear()
			return
		}
	}
	rec.Deep = true
}

func duplicateDestinations(vs []movelog.Variation) bool {
	seen := make(map[*board.Square]struct{}, len(vs))
	for _, v := range vs {
		if _, ok := seen[v.To]; ok {
			return true
		}
		seen[v.To] = struct{}{}
	}
	return false
}

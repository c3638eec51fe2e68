package movelog

import "github.com/park285/chess-rules/internal/board"

// Variation is one piece relocation inside a move. Castling has two.
type Variation struct {
	Piece *board.Piece
	From  *board.Square
	To    *board.Square
}

// Record is a candidate move while it travels through validation and,
// once applied, the entry kept in the log. Analysers append to Notation
// before the record is logged; nothing else changes afterwards.
type Record struct {
	Notation   string
	Variations []Variation
	Color      board.Color

	Deep      bool // history check pending
	Castling  bool
	EnPassant bool
	Capture   bool
	PawnMove  bool
	Promotion board.Kind // zero when no promotion happened
}

// Moved reports whether p is one of the relocated pieces.
func (r *Record) Moved(p *board.Piece) bool {
	for _, v := range r.Variations {
		if v.Piece == p {
			return true
		}
	}
	return false
}

// Clear drops every candidate; the move is illegal.
func (r *Record) Clear() {
	r.Variations = nil
	r.Deep = false
	r.EnPassant = false
}

// UCI renders the first variation as from/to coordinates, with the
// promotion letter when present. Castling renders the king move.
func (r *Record) UCI() string {
	if len(r.Variations) == 0 {
		return ""
	}
	v := r.Variations[0]
	s := v.From.String() + v.To.String()
	if r.Promotion != 0 {
		s += string(r.Promotion.Letter() + ('a' - 'A'))
	}
	return s
}

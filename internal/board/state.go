package board

// Read-only queries derived from the current placement. They look at the
// board as it stands and never simulate a move.

// OccupiedBy reports whether sq holds a piece of color c.
func (b *Board) OccupiedBy(sq *Square, c Color) bool {
	return sq.piece != nil && sq.piece.color == c
}

// CountBetween counts pieces strictly between a and z on their line.
func (b *Board) CountBetween(a, z *Square) int {
	n := 0
	for _, sq := range b.Between(a, z, false) {
		if sq.piece != nil {
			n++
		}
	}
	return n
}

// Clear reports whether no piece stands strictly between a and z.
func (b *Board) Clear(a, z *Square) bool {
	return b.clearIgnoring(a, z, nil)
}

func (b *Board) clearIgnoring(a, z, transparent *Square) bool {
	for _, sq := range b.Between(a, z, false) {
		if sq.piece != nil && sq != transparent {
			return false
		}
	}
	return true
}

// Attackers lists pieces of color by that attack sq. Pawns attack only
// diagonally; sliders need an open line.
func (b *Board) Attackers(sq *Square, by Color) []*Piece {
	return b.attackers(sq, by, nil)
}

func (b *Board) attackers(sq *Square, by Color, transparent *Square) []*Piece {
	var out []*Piece
	for _, p := range b.Pieces(by) {
		if p.square == sq || !p.attacksRaw(sq) {
			continue
		}
		if p.kind == Knight || b.clearIgnoring(p.square, sq, transparent) {
			out = append(out, p)
		}
	}
	return out
}

// IsAttacked reports whether the opponent of defender attacks sq.
func (b *Board) IsAttacked(sq *Square, defender Color) bool {
	return len(b.attackers(sq, defender.Opposite(), nil)) > 0
}

// IsAttackedIgnoring is IsAttacked with one square treated as empty. King
// moves use it so the king does not shield the squares behind itself.
func (b *Board) IsAttackedIgnoring(sq *Square, defender Color, transparent *Square) bool {
	return len(b.attackers(sq, defender.Opposite(), transparent)) > 0
}

// Checkers lists the pieces giving check to the king of color c.
func (b *Board) Checkers(c Color) []*Piece {
	k := b.kings[c]
	if k == nil || k.square == nil {
		return nil
	}
	return b.attackers(k.square, c.Opposite(), nil)
}

func (b *Board) InCheck(c Color) bool { return len(b.Checkers(c)) > 0 }

// IsPinned reports whether p is the only piece between its own king and
// an enemy slider whose pattern reaches that king.
func (b *Board) IsPinned(p *Piece) bool {
	if p.kind == King || p.square == nil {
		return false
	}
	king := b.kings[p.color]
	if king == nil || king.square == nil {
		return false
	}
	for _, s := range b.Pieces(p.color.Opposite()) {
		if !s.kind.Slider() || !s.Reaches(king.square) {
			continue
		}
		var blockers []*Piece
		for _, sq := range b.Between(s.square, king.square, false) {
			if sq.piece != nil {
				blockers = append(blockers, sq.piece)
			}
		}
		if len(blockers) == 1 && blockers[0] == p {
			return true
		}
	}
	return false
}

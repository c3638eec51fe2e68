package board

import (
	"fmt"
	"strings"
)

// StartPosition is the standard initial placement.
const StartPosition = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// Board owns the grid and every live piece on it. It is not safe for
// concurrent use; a session goroutine is its only writer.
type Board struct {
	grid   [8][8]*Square // [file][rank]
	kings  [2]*Piece
	nextID int
}

func newEmpty() *Board {
	b := &Board{}
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			b.grid[f][r] = &Square{file: f, rank: r}
		}
	}
	return b
}

// New returns a board in the standard starting position.
func New() *Board {
	b, err := FromPosition(StartPosition)
	if err != nil {
		panic(fmt.Sprintf("board: start position: %v", err))
	}
	return b
}

// FromPosition builds a board from piece placement text: eight
// '/'-separated ranks from 8 down to 1, digits for runs of empty squares,
// upper case letters for white. Anything after the first space is ignored.
func FromPosition(setup string) (*Board, error) {
	placement := strings.TrimSpace(setup)
	if i := strings.IndexByte(placement, ' '); i >= 0 {
		placement = placement[:i]
	}
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidSetup, len(ranks))
	}

	b := newEmpty()
	var kings [2]int
	for i, row := range ranks {
		r := 7 - i
		f := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				f += int(ch - '0')
				continue
			}
			color := White
			upper := ch
			if ch >= 'a' && ch <= 'z' {
				color = Black
				upper = ch - ('a' - 'A')
			}
			kind, ok := placementKind(upper)
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q", ErrInvalidSetup, ch)
			}
			if f > 7 {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrInvalidSetup, r+1)
			}
			b.place(kind, color, b.grid[f][r])
			if kind == King {
				kings[color]++
			}
			f++
		}
		if f != 8 {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidSetup, r+1, f)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return nil, fmt.Errorf("%w: white=%d black=%d", ErrMissingKing, kings[White], kings[Black])
	}
	return b, nil
}

// placementKind accepts only the standard letters; synonyms are a move
// notation feature.
func placementKind(ch byte) (Kind, bool) {
	switch ch {
	case 'P', 'N', 'B', 'R', 'Q', 'K':
		return KindFromLetter(ch)
	}
	return 0, false
}

func (b *Board) place(k Kind, c Color, sq *Square) *Piece {
	b.nextID++
	p := &Piece{id: b.nextID, kind: k, color: c, square: sq}
	p.deltas = computeDeltas(k, c, sq.file, sq.rank)
	sq.piece = p
	if k == King {
		b.kings[c] = p
	}
	return p
}

// Square looks up a square by notation coordinates.
func (b *Board) Square(file byte, rank int) (*Square, error) {
	f, r := int(file)-'a', rank-1
	if !inBounds(f, r) {
		return nil, fmt.Errorf("%w: %c%d", ErrOutOfBounds, file, rank)
	}
	return b.grid[f][r], nil
}

// SquareAt parses a two character coordinate such as "e4".
func (b *Board) SquareAt(name string) (*Square, error) {
	if len(name) != 2 {
		return nil, fmt.Errorf("%w: %q", ErrOutOfBounds, name)
	}
	return b.Square(name[0], int(name[1])-'0')
}

// Offset returns the square d away from sq, or nil when off the board.
func (b *Board) Offset(sq *Square, d Delta) *Square {
	f, r := sq.file+d.File, sq.rank+d.Rank
	if !inBounds(f, r) {
		return nil
	}
	return b.grid[f][r]
}

func (b *Board) King(c Color) *Piece { return b.kings[c] }

// Pieces lists the live pieces of a color, rank 1 to 8, file a to h.
func (b *Board) Pieces(c Color) []*Piece {
	out := make([]*Piece, 0, 16)
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if p := b.grid[f][r].piece; p != nil && p.color == c {
				out = append(out, p)
			}
		}
	}
	return out
}

// Between walks from a towards z one step at a time. Squares that do not
// share a line yield nil. With inclusive set both endpoints are included.
func (b *Board) Between(a, z *Square, inclusive bool) []*Square {
	if a == z {
		if inclusive {
			return []*Square{a}
		}
		return nil
	}
	if !aligned(a, z) {
		return nil
	}
	step := Delta{File: signum(z.file - a.file), Rank: signum(z.rank - a.rank)}
	var out []*Square
	if inclusive {
		out = append(out, a)
	}
	for sq := b.Offset(a, step); sq != nil && sq != z; sq = b.Offset(sq, step) {
		out = append(out, sq)
	}
	if inclusive {
		out = append(out, z)
	}
	return out
}

// PiecesMovingTo lists pieces of color c whose raw pattern reaches sq.
// Without kinds every kind is considered.
func (b *Board) PiecesMovingTo(sq *Square, c Color, kinds ...Kind) []*Piece {
	var out []*Piece
	for _, p := range b.Pieces(c) {
		if len(kinds) > 0 && !containsKind(kinds, p.kind) {
			continue
		}
		if p.Reaches(sq) {
			out = append(out, p)
		}
	}
	return out
}

func containsKind(ks []Kind, k Kind) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}

// Move relocates p to an empty square and recomputes its pattern.
func (b *Board) Move(p *Piece, to *Square) error {
	if p.square == nil {
		return fmt.Errorf("move %s: %w", p, ErrInertPiece)
	}
	if to.piece != nil {
		return fmt.Errorf("move %s to %s: %w", p, to, ErrOccupied)
	}
	p.square.piece = nil
	to.piece = p
	p.square = to
	p.moves++
	p.deltas = computeDeltas(p.kind, p.color, to.file, to.rank)
	return nil
}

// Capture takes p off the board. Kings are never capturable.
func (b *Board) Capture(p *Piece) error {
	if p.kind == King {
		return fmt.Errorf("capture %s: %w", p, ErrIllegalCapture)
	}
	if p.square == nil {
		return fmt.Errorf("capture %s: %w", p, ErrInertPiece)
	}
	p.square.piece = nil
	p.square = nil
	p.deltas = nil
	return nil
}

// Promote replaces a pawn with a new piece of kind k on the same square.
func (b *Board) Promote(pawn *Piece, k Kind) (*Piece, error) {
	if pawn.kind != Pawn {
		return nil, fmt.Errorf("promote %s: not a pawn", pawn)
	}
	if !k.Promotable() {
		return nil, fmt.Errorf("promote %s to %s: kind not allowed", pawn, k)
	}
	sq := pawn.square
	if err := b.Capture(pawn); err != nil {
		return nil, err
	}
	return b.place(k, pawn.color, sq), nil
}

// Position renders the placement in the same notation FromPosition reads.
func (b *Board) Position() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			p := b.grid[f][r].piece
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.FENLetter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// Grid returns placement letters indexed [rank 8..1][file a..h]; empty
// squares are "".
func (b *Board) Grid() [8][8]string {
	var out [8][8]string
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if p := b.grid[f][r].piece; p != nil {
				out[7-r][f] = string(p.FENLetter())
			}
		}
	}
	return out
}

func (b *Board) String() string {
	var sb strings.Builder
	grid := b.Grid()
	for i, row := range grid {
		fmt.Fprintf(&sb, "%d ", 8-i)
		for _, cell := range row {
			if cell == "" {
				cell = "."
			}
			sb.WriteString(cell)
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}

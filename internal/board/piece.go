package board

import "fmt"

// Color is the side a piece belongs to. Squares reuse it for their shade.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Forward is the rank direction pawns of this color advance in.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

// HomeRank is the back rank of the color (1 or 8).
func (c Color) HomeRank() int {
	if c == White {
		return 1
	}
	return 8
}

// Kind is the closed set of piece types.
type Kind uint8

const (
	Pawn Kind = iota + 1
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{
	Pawn:   "pawn",
	Knight: "knight",
	Bishop: "bishop",
	Rook:   "rook",
	Queen:  "queen",
	King:   "king",
}

var kindLetters = [...]byte{
	Pawn:   'P',
	Knight: 'N',
	Bishop: 'B',
	Rook:   'R',
	Queen:  'Q',
	King:   'K',
}

func (k Kind) Valid() bool { return k >= Pawn && k <= King }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Letter returns the canonical upper-case notation letter.
func (k Kind) Letter() byte {
	if !k.Valid() {
		return '?'
	}
	return kindLetters[k]
}

// Promotable reports whether a pawn may be exchanged for this kind.
func (k Kind) Promotable() bool {
	return k == Knight || k == Bishop || k == Rook || k == Queen
}

// Slider reports whether the kind moves along open lines.
func (k Kind) Slider() bool {
	return k == Bishop || k == Rook || k == Queen
}

// KindFromLetter maps a notation letter to a kind. Besides the usual
// letters it accepts S (knight), G (bishop), W (rook) and H (queen).
func KindFromLetter(b byte) (Kind, bool) {
	switch b {
	case 'P':
		return Pawn, true
	case 'N', 'S':
		return Knight, true
	case 'B', 'G':
		return Bishop, true
	case 'R', 'W':
		return Rook, true
	case 'Q', 'H':
		return Queen, true
	case 'K':
		return King, true
	}
	return 0, false
}

// Piece is owned by the square it stands on. Once captured it keeps its
// identity for history lookups but has no square and no deltas.
type Piece struct {
	id     int
	kind   Kind
	color  Color
	square *Square
	moves  int
	deltas []Delta
}

func (p *Piece) ID() int { return p.id }
func (p *Piece) Kind() Kind { return p.kind }
func (p *Piece) Color() Color { return p.color }
func (p *Piece) Square() *Square { return p.square }

// Moves counts relocations since the piece was placed.
func (p *Piece) Moves() int { return p.moves }

func (p *Piece) Captured() bool { return p.square == nil }

// Deltas is the raw, unobstructed move pattern from the current square.
// The slice is owned by the piece.
func (p *Piece) Deltas() []Delta { return p.deltas }

// Reaches reports whether sq is in the raw move pattern.
func (p *Piece) Reaches(sq *Square) bool {
	if p.square == nil || sq == nil {
		return false
	}
	d := Delta{File: sq.file - p.square.file, Rank: sq.rank - p.square.rank}
	for _, x := range p.deltas {
		if x == d {
			return true
		}
	}
	return false
}

// attacksRaw is Reaches except that pawns only attack diagonally.
func (p *Piece) attacksRaw(sq *Square) bool {
	if p.kind != Pawn {
		return p.Reaches(sq)
	}
	if p.square == nil || sq == nil {
		return false
	}
	df := sq.file - p.square.file
	return sq.rank-p.square.rank == p.color.Forward() && (df == 1 || df == -1)
}

// FENLetter is the placement letter: upper case for white.
func (p *Piece) FENLetter() byte {
	l := p.kind.Letter()
	if p.color == Black {
		l += 'a' - 'A'
	}
	return l
}

func (p *Piece) String() string {
	if p.square == nil {
		return fmt.Sprintf("%s %s (captured)", p.color, p.kind)
	}
	return fmt.Sprintf("%s %s@%s", p.color, p.kind, p.square)
}

package board

// Square is a fixed cell of the grid. Coordinates are zero based
// internally; File and Rank expose the notation values.
type Square struct {
	file  int
	rank  int
	piece *Piece
}

func (s *Square) File() byte { return 'a' + byte(s.file) }
func (s *Square) Rank() int { return s.rank + 1 }

// Color is the shade of the square; a1 is dark.
func (s *Square) Color() Color {
	if (s.file+s.rank)%2 == 0 {
		return Black
	}
	return White
}

func (s *Square) Piece() *Piece { return s.piece }
func (s *Square) Empty() bool { return s.piece == nil }

func (s *Square) String() string {
	return string([]byte{s.File(), byte('0' + s.Rank())})
}

func signum(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

// aligned reports whether two squares share a file, rank or diagonal.
func aligned(a, b *Square) bool {
	df, dr := b.file-a.file, b.rank-a.rank
	return df == 0 || dr == 0 || df == dr || df == -dr
}

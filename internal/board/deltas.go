package board

// Delta is a (file, rank) offset.
type Delta struct {
	File int
	Rank int
}

var (
	knightJumps = [...]Delta{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [...]Delta{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	diagonals   = [...]Delta{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	orthogonals = [...]Delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

func inBounds(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// pawnStartRank is zero based.
func pawnStartRank(c Color) int {
	if c == White {
		return 1
	}
	return 6
}

// computeDeltas builds the in-bounds move pattern of a piece standing on
// (file, rank), both zero based.
func computeDeltas(k Kind, c Color, file, rank int) []Delta {
	var out []Delta
	add := func(d Delta) {
		if inBounds(file+d.File, rank+d.Rank) {
			out = append(out, d)
		}
	}
	rays := func(dirs []Delta) {
		for _, dir := range dirs {
			for n := 1; ; n++ {
				d := Delta{File: dir.File * n, Rank: dir.Rank * n}
				if !inBounds(file+d.File, rank+d.Rank) {
					break
				}
				out = append(out, d)
			}
		}
	}

	switch k {
	case Pawn:
		fwd := c.Forward()
		add(Delta{0, fwd})
		add(Delta{-1, fwd})
		add(Delta{1, fwd})
		if rank == pawnStartRank(c) {
			add(Delta{0, 2 * fwd})
		}
	case Knight:
		for _, d := range knightJumps {
			add(d)
		}
	case King:
		for _, d := range kingSteps {
			add(d)
		}
	case Bishop:
		rays(diagonals[:])
	case Rook:
		rays(orthogonals[:])
	case Queen:
		rays(diagonals[:])
		rays(orthogonals[:])
	}
	return out
}

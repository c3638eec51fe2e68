package rules

import (
	"testing"

	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/movelog"
)

func newPipeline(t *testing.T, setup string) *Pipeline {
	t.Helper()
	b := board.New()
	if setup != "" {
		var err error
		b, err = board.FromPosition(setup)
		if err != nil {
			t.Fatalf("FromPosition(%q): %v", setup, err)
		}
	}
	return NewPipeline(b, movelog.New())
}

// play applies moves that must all be legal and returns the last result.
func play(t *testing.T, p *Pipeline, moves ...string) Result {
	t.Helper()
	var res Result
	for _, m := range moves {
		r, err := p.Play(m, nil)
		if err != nil {
			t.Fatalf("Play(%q): %v", m, err)
		}
		if !r.Legal {
			t.Fatalf("Play(%q): unexpectedly illegal\n%s", m, p.Board())
		}
		res = r
	}
	return res
}

func pieceAt(t *testing.T, b *board.Board, name string) *board.Piece {
	t.Helper()
	sq, err := b.SquareAt(name)
	if err != nil {
		t.Fatalf("SquareAt(%s): %v", name, err)
	}
	return sq.Piece()
}

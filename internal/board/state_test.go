package board

import "testing"

func mustBoard(t *testing.T, setup string) *Board {
	t.Helper()
	b, err := FromPosition(setup)
	if err != nil {
		t.Fatalf("FromPosition(%q): %v", setup, err)
	}
	return b
}

func mustSquare(t *testing.T, b *Board, name string) *Square {
	t.Helper()
	sq, err := b.SquareAt(name)
	if err != nil {
		t.Fatalf("SquareAt(%s): %v", name, err)
	}
	return sq
}

func TestPawnAttacksDiagonallyOnly(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/4P3/4K3")
	if b.IsAttacked(mustSquare(t, b, "e3"), Black) {
		t.Fatalf("pawn push square must not count as attacked")
	}
	if !b.IsAttacked(mustSquare(t, b, "d3"), Black) || !b.IsAttacked(mustSquare(t, b, "f3"), Black) {
		t.Fatalf("pawn diagonals should be attacked")
	}
}

func TestSliderAttackBlocked(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/8/R2NK3")
	if !b.IsAttacked(mustSquare(t, b, "a8"), Black) {
		t.Fatalf("rook should attack a8 along open file")
	}
	if b.IsAttacked(mustSquare(t, b, "e1"), White) {
		t.Fatalf("own pieces never attack")
	}
	if b.IsAttacked(mustSquare(t, b, "f8"), Black) {
		t.Fatalf("nothing attacks f8")
	}
	// d1 knight blocks the rook from e1.
	if got := b.CountBetween(mustSquare(t, b, "a1"), mustSquare(t, b, "e1")); got != 1 {
		t.Fatalf("CountBetween a1-e1 = %d", got)
	}
}

func TestCheckersAndPin(t *testing.T) {
	b := mustBoard(t, "4r1k1/8/8/8/8/8/4N3/4K3")
	knight := mustSquare(t, b, "e2").Piece()
	if !b.IsPinned(knight) {
		t.Fatalf("knight on e2 should be pinned by rook e8")
	}
	if b.InCheck(White) {
		t.Fatalf("white is shielded by the knight")
	}

	b = mustBoard(t, "4r1k1/8/8/8/8/8/8/4K3")
	checkers := b.Checkers(White)
	if len(checkers) != 1 || checkers[0].Kind() != Rook {
		t.Fatalf("expected single rook checker, got %v", checkers)
	}
}

func TestKingDoesNotShieldItself(t *testing.T) {
	b := mustBoard(t, "4r1k1/8/8/8/8/8/4K3/8")
	e1 := mustSquare(t, b, "e1")
	if b.IsAttacked(e1, White) {
		t.Fatalf("with the king on e2, e1 is shielded for a plain query")
	}
	if !b.IsAttackedIgnoring(e1, White, b.King(White).Square()) {
		t.Fatalf("e1 should be attacked once the king is ignored")
	}
}

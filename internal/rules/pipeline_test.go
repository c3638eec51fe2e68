package rules

import (
	"testing"

	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/movelog"
)

func TestOpeningMove(t *testing.T) {
	p := newPipeline(t, "")
	res := play(t, p, "e4")
	if res.Record.Notation != "e4" {
		t.Fatalf("notation = %q", res.Record.Notation)
	}
	pc := pieceAt(t, p.Board(), "e4")
	if pc == nil || pc.Kind() != board.Pawn || pc.Color() != board.White {
		t.Fatalf("e4 holds %v", pc)
	}
	if pieceAt(t, p.Board(), "e2") != nil {
		t.Fatalf("e2 should be empty")
	}
	if n := len(p.Log().All(board.White)); n != 1 {
		t.Fatalf("white records = %d", n)
	}
	if p.Log().Turn() != board.Black {
		t.Fatalf("black should be to move")
	}
}

func TestIllegalMoveChangesNothing(t *testing.T) {
	p := newPipeline(t, "")
	before := p.Board().Position()
	for _, n := range []string{"e5", "Nd2", "Ke2", "O-O", "Bb5", "Nc6"} {
		res, err := p.Play(n, nil)
		if err != nil {
			t.Fatalf("Play(%q): %v", n, err)
		}
		if res.Legal {
			t.Fatalf("Play(%q) should be illegal", n)
		}
	}
	if p.Log().Len() != 0 {
		t.Fatalf("log grew to %d", p.Log().Len())
	}
	if got := p.Board().Position(); got != before {
		t.Fatalf("position changed: %q", got)
	}
}

func TestCaptureAnnotation(t *testing.T) {
	p := newPipeline(t, "")
	res := play(t, p, "e4", "d5", "d5")
	if res.Record.Notation != "exd5" || !res.Record.Capture {
		t.Fatalf("notation = %q capture=%v", res.Record.Notation, res.Record.Capture)
	}
	res = play(t, p, "Qd5")
	if res.Record.Notation != "Qxd5" {
		t.Fatalf("notation = %q", res.Record.Notation)
	}
}

func TestEnPassantWindow(t *testing.T) {
	p := newPipeline(t, "")
	res := play(t, p, "e4", "a6", "e5", "d5", "exd6")
	if res.Record.Notation != "exd6" || !res.Record.EnPassant {
		t.Fatalf("notation = %q ep=%v", res.Record.Notation, res.Record.EnPassant)
	}
	if pieceAt(t, p.Board(), "d5") != nil {
		t.Fatalf("passed pawn should be removed from d5")
	}
	if pc := pieceAt(t, p.Board(), "d6"); pc == nil || pc.Color() != board.White {
		t.Fatalf("d6 holds %v", pc)
	}

	late := newPipeline(t, "")
	play(t, late, "e4", "a6", "e5", "d5", "h3", "h6")
	res, err := late.Play("exd6", nil)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Legal {
		t.Fatalf("en passant one move late must be illegal")
	}
}

func TestEnPassantAnswersPawnCheck(t *testing.T) {
	// d7-d5 checks the king on e4; every other reply is covered, exd6 is the
	// only move
	p := newPipeline(t, "3q3k/b2p4/8/4PP2/4KP2/3PPP2/8/R7")
	res := play(t, p, "Ra2", "d5")
	if !res.Check || res.Mate {
		t.Fatalf("d5: check=%v mate=%v", res.Check, res.Mate)
	}
	if res.Record.Notation != "d5+" {
		t.Fatalf("notation = %q", res.Record.Notation)
	}

	res = play(t, p, "exd6")
	if res.Record.Notation != "exd6" || !res.Record.EnPassant {
		t.Fatalf("notation = %q ep=%v", res.Record.Notation, res.Record.EnPassant)
	}
	if pieceAt(t, p.Board(), "d5") != nil {
		t.Fatalf("checking pawn should be gone from d5")
	}
	if p.Board().InCheck(board.White) {
		t.Fatalf("white still in check after exd6")
	}
}

func TestPawnCheckWithoutEnPassantIsMate(t *testing.T) {
	// same cage, but the pawn arrives with a single step from d6, so the
	// e5 pawn has nothing to take en passant
	p := newPipeline(t, "3q3k/b7/3p4/4PP2/4KP2/3PPP2/8/R7")
	res := play(t, p, "Ra2", "d5")
	if !res.Mate || res.Record.Notation != "d5#" {
		t.Fatalf("d5: mate=%v notation=%q", res.Mate, res.Record.Notation)
	}
	res, err := p.Play("exd6", nil)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Legal {
		t.Fatalf("a single step cannot be taken en passant")
	}
}

func TestCastling(t *testing.T) {
	p := newPipeline(t, "r3k2r/8/8/8/8/8/8/R3K2R")
	res := play(t, p, "O-O", "O-O-O")
	if res.Record.Notation != "O-O-O" {
		t.Fatalf("notation = %q", res.Record.Notation)
	}
	b := p.Board()
	want := map[string]board.Kind{"g1": board.King, "f1": board.Rook, "c8": board.King, "d8": board.Rook}
	for sq, k := range want {
		if pc := pieceAt(t, b, sq); pc == nil || pc.Kind() != k {
			t.Fatalf("%s holds %v, want %s", sq, pc, k)
		}
	}
}

func TestCastlingThroughAttack(t *testing.T) {
	p := newPipeline(t, "r3k2r/8/8/8/8/8/6r1/R3K2R")
	res, err := p.Play("O-O", nil)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Legal {
		t.Fatalf("castling onto an attacked square must be illegal")
	}
	play(t, p, "O-O-O")
}

func TestCastlingAfterRookReturned(t *testing.T) {
	p := newPipeline(t, "r3k2r/8/8/8/8/8/8/R3K2R")
	play(t, p, "Rh2", "Rb8", "Rh1", "Ra8")
	res, err := p.Play("O-O", nil)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Legal {
		t.Fatalf("rook has moved; castling must be illegal")
	}
	play(t, p, "O-O-O")
}

func TestFoolsMate(t *testing.T) {
	p := newPipeline(t, "")
	res := play(t, p, "f3", "e5", "g4", "Qh4")
	if !res.Check || !res.Mate {
		t.Fatalf("expected mate, got check=%v mate=%v", res.Check, res.Mate)
	}
	if res.Record.Notation != "Qh4#" {
		t.Fatalf("notation = %q", res.Record.Notation)
	}
	if res.Draw != NoDraw {
		t.Fatalf("mate must skip draw analysis, got %s", res.Draw)
	}
}

func TestBackRankMate(t *testing.T) {
	p := newPipeline(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1")
	res := play(t, p, "Ra8")
	if !res.Mate || res.Record.Notation != "Ra8#" {
		t.Fatalf("expected Ra8#, got %q mate=%v", res.Record.Notation, res.Mate)
	}
}

func TestCheckAnsweredByCapture(t *testing.T) {
	p := newPipeline(t, "6k1/5ppp/1n6/8/8/8/5PPP/R5K1")
	res := play(t, p, "Ra8")
	if !res.Check || res.Mate {
		t.Fatalf("knight can take the rook: check=%v mate=%v", res.Check, res.Mate)
	}
	if res.Record.Notation != "Ra8+" {
		t.Fatalf("notation = %q", res.Record.Notation)
	}
	res = play(t, p, "Nxa8")
	if res.Record.Notation != "Nxa8" {
		t.Fatalf("notation = %q", res.Record.Notation)
	}
}

func TestPromotion(t *testing.T) {
	p := newPipeline(t, "4k3/P7/8/8/8/8/8/4K3")
	res, err := p.Play("a8", func() board.Kind { return board.Rook })
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !res.Legal || !res.Promotion {
		t.Fatalf("expected legal promotion, got %+v", res)
	}
	if res.Record.Notation != "a8=R+" {
		t.Fatalf("notation = %q", res.Record.Notation)
	}
	if pc := pieceAt(t, p.Board(), "a8"); pc == nil || pc.Kind() != board.Rook || pc.Color() != board.White {
		t.Fatalf("a8 holds %v", pc)
	}
}

func TestPromotionRefusesKing(t *testing.T) {
	p := newPipeline(t, "4k3/P7/8/8/8/8/8/4K3")
	res, err := p.Play("a8", func() board.Kind { return board.King })
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Record.Promotion != board.Queen {
		t.Fatalf("king request should fall back to queen, got %s", res.Record.Promotion)
	}
}

func TestFiftyPlyRule(t *testing.T) {
	p := newPipeline(t, "")
	whites := [2]string{"Nf3", "Ng1"}
	blacks := [2]string{"Nf6", "Ng8"}
	for i := 0; i < 25; i++ {
		res := play(t, p, whites[i%2])
		if res.Draw != NoDraw {
			t.Fatalf("ply %d: early draw %s", 2*i+1, res.Draw)
		}
		res = play(t, p, blacks[i%2])
		want := NoDraw
		if i == 24 {
			want = FiftyMovesWithoutPawn
		}
		if res.Draw != want {
			t.Fatalf("ply %d: draw = %s want %s", 2*i+2, res.Draw, want)
		}
	}
}

func TestRepetitionHeuristic(t *testing.T) {
	b := board.New()
	l := movelog.New()
	for i := 0; i < 4; i++ {
		if err := l.Append(&movelog.Record{Notation: "Nf3", Color: board.White}); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if i == 3 {
			break
		}
		if err := l.Append(&movelog.Record{Notation: "Nf6", Color: board.Black}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	v := NewValidator(b)
	d := NewDrawAnalyser(b, l, v, NewSpecialRuleValidator(b, l))
	if got := d.Analyse(); got != TriplePositionRepeat {
		t.Fatalf("Analyse() = %s", got)
	}

	// one differing black notation breaks it
	l2 := movelog.New()
	for i, n := range []string{"Nf3", "Nf6", "Nf3", "Nc6", "Nf3", "Nf6", "Nf3"} {
		c := board.White
		if i%2 == 1 {
			c = board.Black
		}
		if err := l2.Append(&movelog.Record{Notation: n, Color: c}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	d2 := NewDrawAnalyser(b, l2, v, NewSpecialRuleValidator(b, l2))
	if got := d2.Analyse(); got == TriplePositionRepeat {
		t.Fatalf("tails differ, got %s", got)
	}
}

func TestStalemate(t *testing.T) {
	p := newPipeline(t, "7k/4Q3/6K1/8/8/8/8/8")
	res := play(t, p, "Qf7")
	if res.Check || res.Draw != StaleMate {
		t.Fatalf("expected stalemate, got check=%v draw=%s", res.Check, res.Draw)
	}
}

func TestDeadPosition(t *testing.T) {
	cases := []struct {
		name  string
		setup string
		move  string
		want  DrawReason
	}{
		{"bare kings", "4k3/8/8/8/8/8/8/4K3", "Kd2", LackOfPieces},
		{"king and bishop", "4k3/8/8/8/8/8/8/2B1K3", "Kd2", LackOfPieces},
		{"king and knight", "4k3/8/8/8/8/8/8/1N2K3", "Kd2", LackOfPieces},
		{"same shade bishops", "2b1k3/8/8/8/8/8/8/3BK3", "Kd2", LackOfPieces},
		{"opposite shade bishops", "3bk3/8/8/8/8/8/8/3BK3", "Kd2", NoDraw},
		{"rook left", "4k3/8/8/8/8/8/8/R3K3", "Kd2", NoDraw},
		{"blocked pawns", "4k3/8/8/4p3/4P3/8/8/4K3", "Kd2", LackOfPieces},
		{"free pawn", "4k3/8/8/8/4P3/8/8/4K3", "Kd2", NoDraw},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := newPipeline(t, c.setup)
			res := play(t, p, c.move)
			if res.Draw != c.want {
				t.Fatalf("draw = %s want %s", res.Draw, c.want)
			}
		})
	}
}

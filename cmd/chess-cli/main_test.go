package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/msgcat"
	"github.com/park285/chess-rules/internal/registry"
	"go.uber.org/zap"
)

func TestPromotionKind(t *testing.T) {
	cases := map[string]board.Kind{"q": board.Queen, "R": board.Rook, " n ": board.Knight, "S": board.Knight}
	for in, want := range cases {
		got, err := promotionKind(in)
		if err != nil || got != want {
			t.Fatalf("promotionKind(%q) = %v, %v", in, got, err)
		}
	}
	for _, in := range []string{"", "K", "P", "QQ", "x"} {
		if _, err := promotionKind(in); err == nil {
			t.Fatalf("promotionKind(%q) should fail", in)
		}
	}
}

func TestLoopPlaysFoolsMate(t *testing.T) {
	cat := msgcat.MustDefault()
	var out bytes.Buffer
	reg := registry.New(registry.Config{Logger: zap.NewNop()})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = reg.Shutdown(ctx)
	})

	var lout bytes.Buffer
	l := &consoleListener{out: &lout, cat: cat, promote: board.Queen}
	if _, err := reg.NewGame(gameKey, l); err != nil {
		t.Fatalf("new game: %v", err)
	}
	done, err := reg.Done(gameKey)
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	in := strings.NewReader("f3\nbanana\ne5\n\ng4\nQh4\n")
	if err := loop(context.Background(), reg, cat, in, &out, done); err != nil {
		t.Fatalf("loop: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("game did not end")
	}
	if !strings.Contains(out.String(), "Not a move: banana") {
		t.Fatalf("missing invalid input message:\n%s", out.String())
	}
	if !strings.Contains(lout.String(), "Checkmate. black wins.") {
		t.Fatalf("listener output:\n%s", lout.String())
	}
}

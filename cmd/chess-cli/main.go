package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/chessbuilder"
	appcfg "github.com/park285/chess-rules/internal/config"
	"github.com/park285/chess-rules/internal/msgcat"
	"github.com/park285/chess-rules/internal/obslog"
	"github.com/park285/chess-rules/internal/registry"
	"github.com/park285/chess-rules/internal/rules"
	"github.com/park285/chess-rules/internal/session"
	"go.uber.org/zap"
)

const gameKey = "console"

func main() {
	setup := flag.String("setup", "", "starting placement (FEN piece field); standard position when empty")
	promote := flag.String("promote", "Q", "piece a promoting pawn becomes (Q, R, B, N)")
	acceptDraws := flag.Bool("accept-draws", false, "accept every draw offer")
	messages := flag.String("messages", "", "directory with message overrides (*.yaml)")
	flag.Parse()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.Init(obslog.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Console: cfg.Log.Console,
		File:    cfg.Log.File,
		Caller:  cfg.Log.Caller,
	}); err != nil {
		log.Fatalf("log init error: %v", err)
	}
	defer func() { _ = obslog.Sync() }()

	kind, err := promotionKind(*promote)
	if err != nil {
		log.Fatalf("%v", err)
	}
	cat, err := msgcat.New(*messages)
	if err != nil {
		log.Fatalf("messages error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := chessbuilder.New(ctx, cfg, obslog.L())
	if err != nil {
		log.Fatalf("init error: %v", err)
	}
	defer func() { _ = deps.Close() }()

	out := os.Stdout
	listener := &consoleListener{out: out, cat: cat, promote: kind, acceptDraws: *acceptDraws}
	var opts []registry.GameOption
	if strings.TrimSpace(*setup) != "" {
		opts = append(opts, registry.WithSetup(*setup))
	}
	info, err := deps.Registry.NewGame(gameKey, listener, opts...)
	if err != nil {
		log.Fatalf("new game error: %v", err)
	}
	done, err := deps.Registry.Done(gameKey)
	if err != nil {
		log.Fatalf("game error: %v", err)
	}
	fmt.Fprintln(out, cat.RenderOr("cli.usage", nil, "Enter moves, 'draw white|black' or 'close'."))
	fmt.Fprintln(out, cat.RenderOr("game.started", map[string]any{"ID": info.ID, "Turn": "white"}, "Game started."))

	if err := loop(ctx, deps.Registry, cat, os.Stdin, out, done); err != nil {
		obslog.L().Warn("input_loop_error", zap.Error(err))
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := deps.Registry.Shutdown(sctx); err != nil {
		obslog.L().Error("shutdown_error", zap.Error(err))
	}
	if deps.Reader != nil {
		if res, err := deps.Reader.Get(context.Background(), info.ID); err == nil {
			fmt.Fprintln(out, cat.RenderOr("cli.saved", res, "Result saved."))
		}
	}
}

// loop feeds stdin lines to the game until EOF, a signal, or the game
// ending on its own.
func loop(ctx context.Context, reg *registry.Registry, cat *msgcat.Catalog, in io.Reader, out io.Writer, done <-chan struct{}) error {
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		errCh <- sc.Err()
		close(lines)
	}()

	printBoard(ctx, reg, cat, out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return nil
		case err := <-errCh:
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			err := reg.Move(ctx, gameKey, line)
			switch {
			case errors.Is(err, rules.ErrInvalidNotation):
				fmt.Fprintln(out, cat.RenderOr("game.invalid", map[string]any{"Input": line}, "Not a move."))
				continue
			case errors.Is(err, session.ErrSessionClosed), errors.Is(err, registry.ErrGameNotFound):
				return nil
			case err != nil:
				return err
			}
			printBoard(ctx, reg, cat, out)
		}
	}
}

func printBoard(ctx context.Context, reg *registry.Registry, cat *msgcat.Catalog, out io.Writer) {
	snap, err := reg.Read(ctx, gameKey)
	if err != nil {
		return
	}
	b, err := board.FromPosition(snap.Position)
	if err != nil {
		return
	}
	fmt.Fprint(out, b.String())
	if !snap.Terminal {
		fmt.Fprint(out, cat.RenderOr("game.prompt", map[string]any{"Turn": snap.Turn}, "> "))
	}
}

func promotionKind(s string) (board.Kind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid -promote %q", s)
	}
	kind, ok := board.KindFromLetter(s[0])
	if !ok || !kind.Promotable() {
		return 0, fmt.Errorf("invalid -promote %q", s)
	}
	return kind, nil
}

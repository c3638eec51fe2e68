package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/msgcat"
	"github.com/park285/chess-rules/internal/rules"
)

// consoleListener prints game callbacks.
type consoleListener struct {
	mu          sync.Mutex
	out         io.Writer
	cat         *msgcat.Catalog
	promote     board.Kind
	acceptDraws bool
}

func (l *consoleListener) say(key string, data any, fallback string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, l.cat.RenderOr(key, data, fallback))
}

func (l *consoleListener) OnMate(winner board.Color) {
	l.say("game.mate", map[string]any{"Winner": winner.String()}, "Checkmate.")
}

func (l *consoleListener) OnDraw(reason rules.DrawReason) {
	text := l.cat.RenderOr("draw_reason."+reason.String(), nil, reason.String())
	l.say("game.draw", map[string]any{"Reason": text}, "Draw.")
}

func (l *consoleListener) OnMoveHandled() {}

func (l *consoleListener) OnCheck(checked board.Color) {
	l.say("game.check", map[string]any{"Color": checked.String()}, "Check.")
}

func (l *consoleListener) OnIllegalMove() {
	l.say("game.illegal", nil, "Illegal move.")
}

func (l *consoleListener) OnDrawRequest(requester board.Color) bool {
	l.say("game.draw_offer", map[string]any{"Requester": requester.String(), "Accepted": l.acceptDraws}, "Draw offered.")
	return l.acceptDraws
}

func (l *consoleListener) OnPawnExchange() board.Kind {
	l.say("game.promote", map[string]any{"Kind": l.promote.String()}, "Pawn promoted.")
	return l.promote
}

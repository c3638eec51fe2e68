package session

import (
	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/rules"
)

// Listener receives game callbacks. All methods run on the session
// goroutine, one at a time, and must not block for long.
type Listener interface {
	OnMate(winner board.Color)
	OnDraw(reason rules.DrawReason)
	OnMoveHandled()
	OnCheck(checked board.Color)
	OnIllegalMove()
	// OnDrawRequest asks the opponent; true ends the game drawn.
	OnDrawRequest(requester board.Color) bool
	// OnPawnExchange picks the piece for a promoting pawn.
	OnPawnExchange() board.Kind
}

// BaseListener ignores every callback, declines draws and promotes to a
// queen. Embed it to implement only what you need.
type BaseListener struct{}

func (BaseListener) OnMate(board.Color) {}
func (BaseListener) OnDraw(rules.DrawReason) {}
func (BaseListener) OnMoveHandled() {}
func (BaseListener) OnCheck(board.Color) {}
func (BaseListener) OnIllegalMove() {}
func (BaseListener) OnDrawRequest(board.Color) bool { return false }
func (BaseListener) OnPawnExchange() board.Kind { return board.Queen }

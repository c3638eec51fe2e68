package registry

import (
	"time"

	"github.com/park285/chess-rules/internal/session"
)

// GameInfo describes a registered game. It is copied out of the registry,
// never shared.
type GameInfo struct {
	ID        string
	Key       string
	White     string
	Black     string
	Setup     string
	StartedAt time.Time
	Meta      map[string]string
}

func (g GameInfo) clone() GameInfo {
	if g.Meta != nil {
		meta := make(map[string]string, len(g.Meta))
		for k, v := range g.Meta {
			meta[k] = v
		}
		g.Meta = meta
	}
	return g
}

type GameOption func(*gameOptions)

type gameOptions struct {
	setup string
	white string
	black string
}

// WithSetup starts the game from a placement string instead of the standard
// position.
func WithSetup(position string) GameOption {
	return func(o *gameOptions) { o.setup = position }
}

func WithPlayers(white, black string) GameOption {
	return func(o *gameOptions) {
		o.white = white
		o.black = black
	}
}

type entry struct {
	info    GameInfo
	session *session.Session
}

package results

import (
	"context"
	"errors"

	"github.com/park285/chess-rules/pkg/chessdto"
)

var ErrNotFound = errors.New("game result not found")

// Sink records finished games.
type Sink interface {
	Save(ctx context.Context, r *chessdto.GameResult) error
}

// Reader looks results back up. Not every sink can.
type Reader interface {
	Get(ctx context.Context, gameID string) (*chessdto.GameResult, error)
	Recent(ctx context.Context, limit int) ([]*chessdto.GameResult, error)
}

// Finalize fills derived fields before a result is handed to sinks.
func Finalize(r *chessdto.GameResult) {
	if r == nil {
		return
	}
	if r.PGN == "" {
		r.PGN = BuildPGN(r)
	}
}

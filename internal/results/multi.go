package results

import (
	"context"
	"errors"

	"github.com/park285/chess-rules/pkg/chessdto"
)

// Multi saves to every sink and joins the failures.
type Multi []Sink

func (m Multi) Save(ctx context.Context, r *chessdto.GameResult) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Save(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package rules

import (
	"fmt"

	"github.com/park285/chess-rules/internal/board"
	"github.com/park285/chess-rules/internal/movelog"
)

// CaptureMarker is inserted at index 1 of the notation of a capture.
const CaptureMarker = "x"

// apply performs the surviving variations on the board. A capture of a
// king is an upstream legality bug and is returned as ErrIllegalCapture.
func apply(b *board.Board, rec *movelog.Record) error {
	for _, v := range rec.Variations {
		if occ := v.To.Piece(); occ != nil {
			if err := b.Capture(occ); err != nil {
				return fmt.Errorf("apply %s: %w", rec.Notation, err)
			}
			rec.Capture = true
		}
		if rec.EnPassant {
			behind := b.Offset(v.To, board.Delta{Rank: -rec.Color.Forward()})
			if behind != nil && behind.Piece() != nil {
				if err := b.Capture(behind.Piece()); err != nil {
					return fmt.Errorf("apply %s: %w", rec.Notation, err)
				}
				rec.Capture = true
			}
		}
		if err := b.Move(v.Piece, v.To); err != nil {
			return fmt.Errorf("apply %s: %w", rec.Notation, err)
		}
	}
	if rec.Capture {
		annotateCapture(rec)
	}
	return nil
}

func annotateCapture(rec *movelog.Record) {
	// a bare pawn capture gets its source file so the marker reads exd5
	if rec.PawnMove && len(rec.Variations) == 1 && len(rec.Notation) == 2 {
		rec.Notation = string(rec.Variations[0].From.File()) + rec.Notation
	}
	if len(rec.Notation) < 1 {
		return
	}
	rec.Notation = rec.Notation[:1] + CaptureMarker + rec.Notation[1:]
}

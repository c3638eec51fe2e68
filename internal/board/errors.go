package board

import "errors"

var (
	ErrOutOfBounds    = errors.New("coordinate out of bounds")
	ErrIllegalCapture = errors.New("piece cannot be captured")
	ErrMissingKing    = errors.New("position needs exactly one king per side")
	ErrInvalidSetup   = errors.New("invalid position setup")
	ErrOccupied       = errors.New("square is occupied")
	ErrInertPiece     = errors.New("piece is no longer on the board")
)

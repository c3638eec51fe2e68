package chessdto

// BoardSnapshot is a read-only copy of a session's board and history.
type BoardSnapshot struct {
	SessionID string
	// Squares is indexed [rank 8..1][file a..h]; placement letters, upper
	// case for white, "" for empty.
	Squares  [8][8]string
	Position string
	Turn     string
	MovesSAN []string
	MovesUCI []string
	Terminal bool
	Outcome  string
}

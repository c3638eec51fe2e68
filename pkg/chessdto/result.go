package chessdto

import "time"

// GameResult is the record kept for a finished game.
type GameResult struct {
	GameID        string    `json:"game_id"`
	Key           string    `json:"key"`
	White         string    `json:"white,omitempty"`
	Black         string    `json:"black,omitempty"`
	Result        string    `json:"result"`
	Method        string    `json:"method"`
	Setup         string    `json:"setup"`
	FinalPosition string    `json:"final_position"`
	MovesSAN      []string  `json:"moves_san"`
	MovesUCI      []string  `json:"moves_uci"`
	PGN           string    `json:"pgn,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at"`
}

// Duration is the wall time between start and end, never negative.
func (r *GameResult) Duration() time.Duration {
	d := r.EndedAt.Sub(r.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

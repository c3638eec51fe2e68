package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/park285/chess-rules/pkg/chessdto"

	_ "github.com/lib/pq"
)

// Schema creates the chess_games table used by Repository.
const Schema = `CREATE TABLE IF NOT EXISTS chess_games (
    game_id        TEXT PRIMARY KEY,
    session_key    TEXT NOT NULL,
    white_name     TEXT NOT NULL DEFAULT '',
    black_name     TEXT NOT NULL DEFAULT '',
    result         TEXT NOT NULL DEFAULT '',
    result_method  TEXT NOT NULL DEFAULT '',
    setup          TEXT NOT NULL DEFAULT '',
    final_position TEXT NOT NULL DEFAULT '',
    moves_uci      JSONB NOT NULL DEFAULT '[]',
    moves_san      JSONB NOT NULL DEFAULT '[]',
    pgn            TEXT NOT NULL DEFAULT '',
    started_at     TIMESTAMPTZ NOT NULL,
    ended_at       TIMESTAMPTZ NOT NULL,
    duration_ms    BIGINT NOT NULL DEFAULT 0
)`

const upsertGame = `INSERT INTO chess_games (
    game_id, session_key, white_name, black_name,
    result, result_method, setup, final_position,
    moves_uci, moves_san, pgn,
    started_at, ended_at, duration_ms
  ) VALUES (
    $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
  ) ON CONFLICT (game_id) DO UPDATE SET
    session_key=EXCLUDED.session_key,
    white_name=EXCLUDED.white_name,
    black_name=EXCLUDED.black_name,
    result=EXCLUDED.result,
    result_method=EXCLUDED.result_method,
    setup=EXCLUDED.setup,
    final_position=EXCLUDED.final_position,
    moves_uci=EXCLUDED.moves_uci,
    moves_san=EXCLUDED.moves_san,
    pgn=EXCLUDED.pgn,
    started_at=EXCLUDED.started_at,
    ended_at=EXCLUDED.ended_at,
    duration_ms=EXCLUDED.duration_ms`

// Repository writes finished games to Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(ctx context.Context, databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Migrate creates the table when it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Save upserts a final game result.
func (r *Repository) Save(ctx context.Context, g *chessdto.GameResult) error {
	if r == nil || r.db == nil || g == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, upsertGame, gameArgs(g)...)
	return err
}

func gameArgs(g *chessdto.GameResult) []any {
	pgn := g.PGN
	if pgn == "" {
		pgn = BuildPGN(g)
	}
	movesUCIRaw, _ := json.Marshal(nonNil(g.MovesUCI))
	movesSANRaw, _ := json.Marshal(nonNil(g.MovesSAN))
	return []any{
		g.GameID, g.Key,
		strings.TrimSpace(g.White), strings.TrimSpace(g.Black),
		strings.TrimSpace(g.Result), strings.TrimSpace(g.Method),
		g.Setup, g.FinalPosition,
		string(movesUCIRaw), string(movesSANRaw), pgn,
		g.StartedAt, g.EndedAt, g.Duration().Milliseconds(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scythe504/sketchparty/internal"
)

var ErrUnexpectedDatabase = errors.New("unexpected database error")

const (
	DefaultResultsLimit = 20
	MaxResultsLimit     = 100
)

var migrations = []string{`
CREATE TABLE IF NOT EXISTS game_results (
	id            BIGSERIAL PRIMARY KEY,
	room_id       TEXT        NOT NULL,
	room_name     TEXT        NOT NULL,
	rounds_played INT         NOT NULL,
	total_players INT         NOT NULL,
	mvp_id        TEXT,
	leaderboard   JSONB       NOT NULL,
	finished_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS game_results_finished_at_idx ON game_results (finished_at DESC)`,
}

// GameRecord is one archived finished game.
type GameRecord struct {
	ID           int64                     `json:"id"`
	RoomID       string                    `json:"roomId"`
	RoomName     string                    `json:"roomName"`
	RoundsPlayed int                       `json:"roundsPlayed"`
	TotalPlayers int                       `json:"totalPlayers"`
	MVPID        string                    `json:"mvpId,omitempty"`
	Leaderboard  []internal.GameResultData `json:"leaderboard"`
	FinishedAt   time.Time                 `json:"finishedAt"`
}

// PostgresRepo archives final leaderboards. Live room state never goes
// through it.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
	}
	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

func (r *PostgresRepo) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return wrap(err)
		}
	}
	return nil
}

// RecordGame stores one finished game and returns its archive id.
func (r *PostgresRepo) RecordGame(ctx context.Context, res internal.FinalResults) (int64, error) {
	leaderboard, err := json.Marshal(res.Leaderboard)
	if err != nil {
		return 0, err
	}

	var mvp *string
	if res.MVP != nil {
		mvp = &res.MVP.PlayerID
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO game_results (room_id, room_name, rounds_played, total_players, mvp_id, leaderboard)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		res.RoomID, res.RoomName, res.RoundsPlayed, res.TotalPlayers, mvp, leaderboard)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, wrap(err)
	}
	return id, nil
}

// RecentResults returns the newest archived games first.
func (r *PostgresRepo) RecentResults(ctx context.Context, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = DefaultResultsLimit
	}
	limit = min(limit, MaxResultsLimit)

	rows, err := r.pool.Query(ctx,
		`SELECT id, room_id, room_name, rounds_played, total_players, COALESCE(mvp_id, ''), leaderboard, finished_at
		 FROM game_results ORDER BY finished_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, wrap(err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (GameRecord, error) {
		var rec GameRecord
		var leaderboard []byte
		if err := row.Scan(&rec.ID, &rec.RoomID, &rec.RoomName, &rec.RoundsPlayed, &rec.TotalPlayers,
			&rec.MVPID, &leaderboard, &rec.FinishedAt); err != nil {
			return rec, err
		}
		return rec, json.Unmarshal(leaderboard, &rec.Leaderboard)
	})
	if err != nil {
		return nil, wrap(err)
	}
	return records, nil
}

func wrap(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
}

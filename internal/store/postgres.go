package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS rebalance_runs (
    run_id TEXT PRIMARY KEY,
    game_id TEXT NOT NULL,
    status TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    participants INTEGER NOT NULL,
    humans INTEGER NOT NULL,
    min_distance INTEGER NOT NULL,
    sum_distance INTEGER NOT NULL,
    enumerated INTEGER NOT NULL,
    rejected INTEGER NOT NULL,
    dry_run BOOLEAN NOT NULL DEFAULT false,
    duration_ns BIGINT NOT NULL,
    moves_json TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_rebalance_runs_game ON rebalance_runs(game_id, created_at);
`

// PostgresStore implements Recorder using PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// SaveRun inserts one run
func (s *PostgresStore) SaveRun(ctx context.Context, rec RunRecord) error {
	moves, err := encodeMoves(rec.Moves)
	if err != nil {
		return err
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO rebalance_runs
		 (run_id, game_id, status, reason, participants, humans, min_distance, sum_distance,
		  enumerated, rejected, dry_run, duration_ns, moves_json, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		rec.RunID, rec.GameID, rec.Status, rec.Reason, rec.Participants, rec.Humans,
		rec.MinDistance, rec.SumDistance, rec.Enumerated, rec.Rejected, rec.DryRun,
		int64(rec.Duration), moves, created)
	if err != nil {
		return fmt.Errorf("save run %s: %w", rec.RunID, err)
	}
	return nil
}

// ListRuns returns the runs recorded for a game, oldest first
func (s *PostgresStore) ListRuns(ctx context.Context, gameID string) ([]RunRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT run_id, game_id, status, reason, participants, humans, min_distance, sum_distance,
		        enumerated, rejected, dry_run, duration_ns, moves_json, created_at
		 FROM rebalance_runs WHERE game_id = $1 ORDER BY created_at, run_id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list runs for %s: %w", gameID, err)
	}

	out, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, fmt.Errorf("list runs for %s: %w", gameID, err)
	}
	return out, nil
}

// Close releases database resources
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanRun(row pgx.CollectableRow) (RunRecord, error) {
	var (
		rec        RunRecord
		durationNS int64
		moves      string
	)
	err := row.Scan(&rec.RunID, &rec.GameID, &rec.Status, &rec.Reason, &rec.Participants, &rec.Humans,
		&rec.MinDistance, &rec.SumDistance, &rec.Enumerated, &rec.Rejected, &rec.DryRun,
		&durationNS, &moves, &rec.CreatedAt)
	if err != nil {
		return RunRecord{}, err
	}
	rec.Duration = time.Duration(durationNS)
	if rec.Moves, err = decodeMoves(moves); err != nil {
		return RunRecord{}, err
	}
	return rec, nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS rebalance_runs (
	run_id TEXT PRIMARY KEY,
	game_id TEXT NOT NULL,
	status TEXT NOT NULL,
	reason TEXT NOT NULL,
	participants INTEGER NOT NULL,
	humans INTEGER NOT NULL,
	min_distance INTEGER NOT NULL,
	sum_distance INTEGER NOT NULL,
	enumerated INTEGER NOT NULL,
	rejected INTEGER NOT NULL,
	dry_run INTEGER NOT NULL,
	duration_ns INTEGER NOT NULL,
	moves_json TEXT NOT NULL,
	created_at_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rebalance_runs_game ON rebalance_runs(game_id, created_at_ms);
`

// SQLiteStore implements Recorder on an embedded SQLite database
type SQLiteStore struct {
	conn *sqlx.DB
}

type sqliteRow struct {
	RunID        string `db:"run_id"`
	GameID       string `db:"game_id"`
	Status       string `db:"status"`
	Reason       string `db:"reason"`
	Participants int    `db:"participants"`
	Humans       int    `db:"humans"`
	MinDistance  int    `db:"min_distance"`
	SumDistance  int    `db:"sum_distance"`
	Enumerated   int    `db:"enumerated"`
	Rejected     int    `db:"rejected"`
	DryRun       bool   `db:"dry_run"`
	DurationNS   int64  `db:"duration_ns"`
	MovesJSON    string `db:"moves_json"`
	CreatedAtMS  int64  `db:"created_at_ms"`
}

// OpenSQLite opens or creates a SQLite database. dsn may be a file path or ":memory:".
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// SaveRun inserts one run
func (s *SQLiteStore) SaveRun(ctx context.Context, rec RunRecord) error {
	moves, err := encodeMoves(rec.Moves)
	if err != nil {
		return err
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = s.conn.NamedExecContext(ctx, `INSERT INTO rebalance_runs
		(run_id, game_id, status, reason, participants, humans, min_distance, sum_distance,
		 enumerated, rejected, dry_run, duration_ns, moves_json, created_at_ms)
		VALUES (:run_id, :game_id, :status, :reason, :participants, :humans, :min_distance, :sum_distance,
		 :enumerated, :rejected, :dry_run, :duration_ns, :moves_json, :created_at_ms)`,
		sqliteRow{
			RunID:        rec.RunID,
			GameID:       rec.GameID,
			Status:       rec.Status,
			Reason:       rec.Reason,
			Participants: rec.Participants,
			Humans:       rec.Humans,
			MinDistance:  rec.MinDistance,
			SumDistance:  rec.SumDistance,
			Enumerated:   rec.Enumerated,
			Rejected:     rec.Rejected,
			DryRun:       rec.DryRun,
			DurationNS:   int64(rec.Duration),
			MovesJSON:    moves,
			CreatedAtMS:  created.UnixMilli(),
		})
	if err != nil {
		return fmt.Errorf("save run %s: %w", rec.RunID, err)
	}
	return nil
}

// ListRuns returns the runs recorded for a game, oldest first
func (s *SQLiteStore) ListRuns(ctx context.Context, gameID string) ([]RunRecord, error) {
	var rows []sqliteRow
	err := s.conn.SelectContext(ctx, &rows,
		`SELECT * FROM rebalance_runs WHERE game_id = ? ORDER BY created_at_ms, rowid`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list runs for %s: %w", gameID, err)
	}

	out := make([]RunRecord, 0, len(rows))
	for _, r := range rows {
		moves, err := decodeMoves(r.MovesJSON)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", r.RunID, err)
		}
		out = append(out, RunRecord{
			RunID:        r.RunID,
			GameID:       r.GameID,
			Status:       r.Status,
			Reason:       r.Reason,
			Participants: r.Participants,
			Humans:       r.Humans,
			MinDistance:  r.MinDistance,
			SumDistance:  r.SumDistance,
			Enumerated:   r.Enumerated,
			Rejected:     r.Rejected,
			DryRun:       r.DryRun,
			Duration:     time.Duration(r.DurationNS),
			Moves:        moves,
			CreatedAt:    time.UnixMilli(r.CreatedAtMS),
		})
	}
	return out, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

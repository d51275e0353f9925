package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"tcubridge/internal/observability"
	"tcubridge/pkg/platform/sentinel"
	"tcubridge/pkg/platform/tx"
)

// Store persists call records in the api_calls table.
type Store struct {
	db *sql.DB
}

// New creates a call-log store over an open database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS api_calls (
		id                 UUID PRIMARY KEY,
		operation          TEXT NOT NULL,
		resource           TEXT NOT NULL,
		path               TEXT NOT NULL DEFAULT '',
		principal          TEXT NOT NULL DEFAULT '',
		outcome            TEXT NOT NULL,
		status_code        INTEGER,
		status_description TEXT NOT NULL DEFAULT '',
		attempts           INTEGER NOT NULL DEFAULT 0,
		request_bytes      INTEGER NOT NULL DEFAULT 0,
		response_bytes     INTEGER NOT NULL DEFAULT 0,
		duration_us        BIGINT NOT NULL DEFAULT 0,
		started_at         TIMESTAMPTZ NOT NULL,
		error              TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS api_calls_started_at_idx ON api_calls (started_at DESC)`,
	`CREATE INDEX IF NOT EXISTS api_calls_operation_idx ON api_calls (operation, started_at DESC)`,
}

// Migrate creates the call-log schema in one transaction. It is safe to run
// repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	err := tx.Run(ctx, db, func(ctx context.Context, t *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := t.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classify("migrate call log", err)
	}
	return nil
}

// Record appends rec. Re-recording the same ID is a no-op.
func (s *Store) Record(ctx context.Context, rec observability.CallRecord) error {
	query := `
		INSERT INTO api_calls (
			id, operation, resource, path, principal, outcome, status_code, status_description,
			attempts, request_bytes, response_bytes, duration_us, started_at, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
	`
	var statusCode sql.NullInt64
	if rec.StatusCode != 0 {
		statusCode = sql.NullInt64{Int64: int64(rec.StatusCode), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Operation,
		rec.Resource,
		rec.Path,
		rec.Principal,
		string(rec.Outcome),
		statusCode,
		rec.StatusDescription,
		rec.Attempts,
		rec.RequestBytes,
		rec.ResponseBytes,
		rec.Duration.Microseconds(),
		rec.StartedAt,
		rec.Error,
	)
	if err != nil {
		return classify("insert call record", err)
	}
	return nil
}

// Recent returns the newest records first.
func (s *Store) Recent(ctx context.Context, limit int) ([]observability.CallRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, operation, resource, path, principal, outcome, status_code, status_description,
			attempts, request_bytes, response_bytes, duration_us, started_at, error
		FROM api_calls
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, classify("list recent calls", err)
	}
	defer rows.Close()

	var out []observability.CallRecord
	for rows.Next() {
		var (
			rec        observability.CallRecord
			outcome    string
			statusCode sql.NullInt64
			durationUS int64
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Operation,
			&rec.Resource,
			&rec.Path,
			&rec.Principal,
			&outcome,
			&statusCode,
			&rec.StatusDescription,
			&rec.Attempts,
			&rec.RequestBytes,
			&rec.ResponseBytes,
			&durationUS,
			&rec.StartedAt,
			&rec.Error,
		); err != nil {
			return nil, fmt.Errorf("scan call record: %w", err)
		}
		rec.Outcome = observability.Outcome(outcome)
		rec.StatusCode = int(statusCode.Int64)
		rec.Duration = time.Duration(durationUS) * time.Microsecond
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list recent calls", err)
	}
	return out, nil
}

// Summary aggregates calls started at or after since.
func (s *Store) Summary(ctx context.Context, since time.Time) (observability.Summary, error) {
	query := `
		SELECT outcome, COUNT(*), COALESCE(SUM(duration_us), 0), COALESCE(MAX(duration_us), 0)
		FROM api_calls
		WHERE started_at >= $1
		GROUP BY outcome
	`
	sum := observability.Summary{Since: since, ByOutcome: map[observability.Outcome]int{}}

	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return sum, classify("summarize calls", err)
	}
	defer rows.Close()

	var totalUS int64
	for rows.Next() {
		var (
			outcome string
			count   int
			sumUS   int64
			maxUS   int64
		)
		if err := rows.Scan(&outcome, &count, &sumUS, &maxUS); err != nil {
			return sum, fmt.Errorf("scan call summary: %w", err)
		}
		sum.ByOutcome[observability.Outcome(outcome)] = count
		sum.Total += count
		totalUS += sumUS
		if d := time.Duration(maxUS) * time.Microsecond; d > sum.MaxDuration {
			sum.MaxDuration = d
		}
	}
	if err := rows.Err(); err != nil {
		return sum, classify("summarize calls", err)
	}
	if sum.Total > 0 {
		sum.AvgDuration = time.Duration(totalUS/int64(sum.Total)) * time.Microsecond
	}
	return sum, nil
}

// classify marks connection-level failures as unavailable so the tracker and
// callers can tell an outage from a bad statement.
func classify(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		return fmt.Errorf("%s: %w: %v", op, sentinel.ErrUnavailable, err)
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %w: %v", op, sentinel.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

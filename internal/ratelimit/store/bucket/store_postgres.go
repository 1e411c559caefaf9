package bucket

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sunhex/internal/ratelimit/models"
)

// PostgresBucketStore keeps one row per admitted request in
// rate_limit_events, so every instance sharing the database sees the same
// window for a key.
type PostgresBucketStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgres(db *sql.DB) *PostgresBucketStore {
	return &PostgresBucketStore{db: db, now: time.Now}
}

// The CTE's delete is invisible to the outer select, hence the explicit
// occurred_at filter.
const pruneAndCount = `
WITH pruned AS (
	DELETE FROM rate_limit_events WHERE key = $1 AND occurred_at <= $2
)
SELECT COUNT(*), MIN(occurred_at) FROM rate_limit_events
WHERE key = $1 AND occurred_at > $2`

func (s *PostgresBucketStore) Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error) {
	if err := checkArgs(key, limit); err != nil {
		return nil, err
	}
	now := s.now().UTC()

	var (
		held     int
		oldest   sql.NullTime
		admitted bool
	)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		// Concurrent checks on one key queue behind this lock until commit.
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1)::bigint)`, key); err != nil {
			return fmt.Errorf("lock key: %w", err)
		}
		if err := tx.QueryRowContext(ctx, pruneAndCount, key, now.Add(-limit.Window)).Scan(&held, &oldest); err != nil {
			return fmt.Errorf("count window: %w", err)
		}
		if held >= limit.Requests {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO rate_limit_events (key, occurred_at) VALUES ($1, $2)`, key, now); err != nil {
			return fmt.Errorf("record request: %w", err)
		}
		admitted = true
		held++
		if !oldest.Valid {
			oldest = sql.NullTime{Time: now, Valid: true}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return limit.Outcome(admitted, held, oldest.Time, now), nil
}

func (s *PostgresBucketStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *PostgresBucketStore) Reset(ctx context.Context, key string) error {
	if key == "" {
		return errKeyRequired
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM rate_limit_events WHERE key = $1`, key); err != nil {
		return fmt.Errorf("reset rate limit: %w", err)
	}
	return nil
}

// DeleteOlderThan drops events older than cutoff for every key.
func (s *PostgresBucketStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rate_limit_events WHERE occurred_at <= $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale rate limit events: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

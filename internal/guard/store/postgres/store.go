package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sunhex/internal/guard/models"
)

// Store persists attempts in the decode_attempts table. It is pure I/O;
// window and lock rules live in the guard service.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, fingerprint string) (*models.Attempt, error) {
	query := `
		SELECT fingerprint, failure_count, first_failure, last_failure, locked_until
		FROM decode_attempts
		WHERE fingerprint = $1
	`
	var (
		a           models.Attempt
		lockedUntil sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, fingerprint).Scan(
		&a.Fingerprint, &a.FailureCount, &a.FirstFailureAt, &a.LastFailureAt, &lockedUntil,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get decode attempt: %w", err)
	}
	if lockedUntil.Valid {
		until := lockedUntil.Time
		a.LockedUntil = &until
	}
	return &a, nil
}

// Save upserts attempt. Rows expire through DeleteStale, so ttl is unused.
func (s *Store) Save(ctx context.Context, attempt *models.Attempt, _ time.Duration) error {
	if attempt == nil {
		return fmt.Errorf("decode attempt is required")
	}
	query := `
		INSERT INTO decode_attempts (fingerprint, failure_count, first_failure, last_failure, locked_until)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (fingerprint) DO UPDATE SET
			failure_count = EXCLUDED.failure_count,
			first_failure = EXCLUDED.first_failure,
			last_failure = EXCLUDED.last_failure,
			locked_until = EXCLUDED.locked_until
	`
	var lockedUntil sql.NullTime
	if attempt.LockedUntil != nil {
		lockedUntil = sql.NullTime{Time: *attempt.LockedUntil, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		attempt.Fingerprint,
		attempt.FailureCount,
		attempt.FirstFailureAt,
		attempt.LastFailureAt,
		lockedUntil,
	)
	if err != nil {
		return fmt.Errorf("save decode attempt: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM decode_attempts WHERE fingerprint = $1`, fingerprint); err != nil {
		return fmt.Errorf("delete decode attempt: %w", err)
	}
	return nil
}

// DeleteStale removes rows whose last failure is before cutoff.
func (s *Store) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM decode_attempts WHERE last_failure < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale decode attempts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count stale decode attempts: %w", err)
	}
	return int(n), nil
}

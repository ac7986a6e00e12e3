package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
)

const loginAttemptColumns = `id, identifier, attempts, ip_address, lock_until, created_at, updated_at`

type LoginAttemptRepository struct {
	db DBTX
}

func NewLoginAttemptRepository(db DBTX) *LoginAttemptRepository {
	return &LoginAttemptRepository{db: db}
}

func (r *LoginAttemptRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.LoginAttempt, error) {
	attempt, err := scanLoginAttempt(r.db.QueryRow(ctx, `
		SELECT `+loginAttemptColumns+`
		FROM login_attempts
		WHERE identifier = $1`, identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get login attempts: %w", err)
	}
	return attempt, nil
}

// RecordFailure creates or increments the counter in a single statement. A
// lock that has already expired starts a fresh count.
func (r *LoginAttemptRepository) RecordFailure(ctx context.Context, identifier, ip string) (*domain.LoginAttempt, error) {
	attempt, err := scanLoginAttempt(r.db.QueryRow(ctx, `
		INSERT INTO login_attempts (identifier, attempts, ip_address)
		VALUES ($1, 1, $2)
		ON CONFLICT (identifier) DO UPDATE SET
			attempts = CASE
				WHEN login_attempts.lock_until IS NOT NULL AND login_attempts.lock_until <= now() THEN 1
				ELSE login_attempts.attempts + 1
			END,
			lock_until = CASE
				WHEN login_attempts.lock_until IS NOT NULL AND login_attempts.lock_until <= now() THEN NULL
				ELSE login_attempts.lock_until
			END,
			ip_address = EXCLUDED.ip_address,
			updated_at = now()
		RETURNING `+loginAttemptColumns, identifier, ip))
	if err != nil {
		return nil, fmt.Errorf("failed to record login failure: %w", err)
	}
	return attempt, nil
}

func (r *LoginAttemptRepository) Lock(ctx context.Context, identifier string, until time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE login_attempts SET lock_until = $2, updated_at = now()
		WHERE identifier = $1`, identifier, until)
	if err != nil {
		return fmt.Errorf("failed to lock account: %w", err)
	}
	return nil
}

func (r *LoginAttemptRepository) Reset(ctx context.Context, identifier string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM login_attempts WHERE identifier = $1`, identifier)
	if err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	return nil
}

func scanLoginAttempt(row pgx.Row) (*domain.LoginAttempt, error) {
	var a domain.LoginAttempt
	if err := row.Scan(&a.ID, &a.Identifier, &a.Attempts, &a.IPAddress, &a.LockUntil, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

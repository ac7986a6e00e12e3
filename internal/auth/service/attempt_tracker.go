package service

import (
	"context"
	"fmt"
	"time"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
)

// AttemptTracker applies the lockout policy on top of the login attempt store.
type AttemptTracker struct {
	repo        domain.LoginAttemptRepository
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
}

func NewAttemptTracker(repo domain.LoginAttemptRepository, maxAttempts, lockoutMinutes int) *AttemptTracker {
	return &AttemptTracker{
		repo:        repo,
		maxAttempts: maxAttempts,
		lockout:     time.Duration(lockoutMinutes) * time.Minute,
		now:         time.Now,
	}
}

func (t *AttemptTracker) CheckNotLocked(ctx context.Context, identifier string) error {
	attempt, err := t.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return fmt.Errorf("failed to read login attempts: %w", err)
	}
	if attempt.IsLocked(t.now()) {
		return autherror.New(autherror.ErrAccountLocked, "account locked")
	}
	return nil
}

// Fail charges one failed attempt to identifier. It never returns nil: the
// result is AccountLocked once the threshold is reached and failure
// otherwise.
func (t *AttemptTracker) Fail(ctx context.Context, identifier, ip string, failure *autherror.Error) error {
	attempt, err := t.repo.RecordFailure(ctx, identifier, ip)
	if err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}

	if attempt.Attempts >= t.maxAttempts {
		if err := t.repo.Lock(ctx, identifier, t.now().Add(t.lockout)); err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}
		return autherror.New(autherror.ErrAccountLocked,
			fmt.Sprintf("account locked due to too many failed attempts, try again in %d minutes", int(t.lockout.Minutes())))
	}

	return failure
}

func (t *AttemptTracker) Reset(ctx context.Context, identifier string) error {
	if err := t.repo.Reset(ctx, identifier); err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
)

// Janitor periodically removes expired refresh tokens and the login codes
// that expired without being used.
type Janitor struct {
	refreshTokens domain.RefreshTokenRepository
	otps          domain.OtpRepository
	interval      time.Duration
	now           func() time.Time
}

func NewJanitor(refreshTokens domain.RefreshTokenRepository, otps domain.OtpRepository, interval time.Duration) *Janitor {
	return &Janitor{refreshTokens: refreshTokens, otps: otps, interval: interval, now: time.Now}
}

// Run blocks until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	if j.interval <= 0 {
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep returns the number of rows removed. A failing table is logged and
// does not stop the other one.
func (j *Janitor) Sweep(ctx context.Context) int64 {
	now := j.now()
	var total int64

	tokens, err := j.refreshTokens.DeleteExpired(ctx, now)
	if err != nil {
		log.Errorf("failed to delete expired refresh tokens: %v", err)
	} else if tokens > 0 {
		log.Infof("deleted %d expired refresh tokens", tokens)
		total += tokens
	}

	codes, err := j.otps.DeleteExpiredUnused(ctx, now)
	if err != nil {
		log.Errorf("failed to delete expired otps: %v", err)
	} else if codes > 0 {
		log.Infof("deleted %d expired otps", codes)
		total += codes
	}

	return total
}

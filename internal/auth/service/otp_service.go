package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
	"github.com/AnthoniusHendriyanto/academy-service/pkg/constant"
)

type OtpService struct {
	repo     domain.OtpRepository
	ttl      time.Duration
	generate func() (string, error)
	now      func() time.Time
}

type OtpOption func(*OtpService)

func WithCodeGenerator(generate func() (string, error)) OtpOption {
	return func(s *OtpService) {
		s.generate = generate
	}
}

func NewOtpService(repo domain.OtpRepository, ttlMinutes int, opts ...OtpOption) *OtpService {
	s := &OtpService{
		repo:     repo,
		ttl:      time.Duration(ttlMinutes) * time.Minute,
		generate: GenerateOtpCode,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateOtpCode returns a uniformly random numeric code of
// constant.OtpDigits digits, zero padded.
func GenerateOtpCode() (string, error) {
	var b strings.Builder
	b.Grow(constant.OtpDigits)
	for i := 0; i < constant.OtpDigits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// Issue stores a fresh code for userID and returns it. A candidate that
// collides with a live code of the same type is discarded and a new one is
// drawn until the insert succeeds or ctx is done.
func (s *OtpService) Issue(ctx context.Context, userID int64, otpType domain.OtpType) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := s.generate()
		if err != nil {
			return "", err
		}

		otp := &domain.Otp{
			Code:      code,
			Type:      otpType,
			UserID:    userID,
			ExpiresAt: s.now().Add(s.ttl),
		}
		err = s.repo.Create(ctx, otp)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, autherror.ErrConflict) {
			return "", fmt.Errorf("failed to store otp: %w", err)
		}
	}
}

// Consume looks up code for userID and checks it can still be used. It does
// not mark the code as used; see MarkUsed.
func (s *OtpService) Consume(ctx context.Context, userID int64, otpType domain.OtpType, code string) (*domain.Otp, error) {
	otp, err := s.repo.FindByCode(ctx, userID, otpType, code)
	if err != nil {
		return nil, fmt.Errorf("failed to read otp: %w", err)
	}

	switch {
	case otp == nil:
		return nil, autherror.WithReason(autherror.ErrInvalidCredentials, autherror.ErrOtpNotFound, "invalid otp")
	case otp.Used():
		return nil, autherror.WithReason(autherror.ErrInvalidCredentials, autherror.ErrOtpAlreadyUsed, "otp already used")
	case otp.Expired(s.now()):
		return nil, autherror.WithReason(autherror.ErrInvalidCredentials, autherror.ErrOtpExpired, "otp expired")
	}
	return otp, nil
}

// MarkUsed claims the code returned by Consume. Losing the claim to a
// concurrent request fails the same way as presenting a used code.
func (s *OtpService) MarkUsed(ctx context.Context, id int64) error {
	claimed, err := s.repo.MarkUsed(ctx, id, s.now())
	if err != nil {
		return fmt.Errorf("failed to mark otp as used: %w", err)
	}
	if !claimed {
		return autherror.WithReason(autherror.ErrInvalidCredentials, autherror.ErrOtpAlreadyUsed, "otp already used")
	}
	return nil
}

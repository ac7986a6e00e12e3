package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/dto"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
	"github.com/AnthoniusHendriyanto/academy-service/internal/events"
	"github.com/AnthoniusHendriyanto/academy-service/pkg/constant"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgInvalidOtpToken    = "invalid or expired token"
)

// AuthService runs the two-phase login, access token rotation and logout.
// It holds no per-request state; everything lives in the repositories.
type AuthService struct {
	users         domain.UserRepository
	tracker       *AttemptTracker
	otps          *OtpService
	refreshTokens domain.RefreshTokenRepository
	tokens        TokenGenerator
	hasher        PasswordHasher
	publisher     events.Publisher
	now           func() time.Time

	// dummyHash is compared against when the email is unknown so that phase 1
	// costs the same whether or not the account exists.
	dummyHash string
}

func NewAuthService(
	users domain.UserRepository,
	tracker *AttemptTracker,
	otps *OtpService,
	refreshTokens domain.RefreshTokenRepository,
	tokens TokenGenerator,
	hasher PasswordHasher,
	publisher events.Publisher,
) *AuthService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	dummyHash, err := hasher.Hash("academy-service-dummy-password")
	if err != nil {
		log.Warnf("failed to prepare dummy password hash: %v", err)
	}

	return &AuthService{
		users:         users,
		tracker:       tracker,
		otps:          otps,
		refreshTokens: refreshTokens,
		tokens:        tokens,
		hasher:        hasher,
		publisher:     publisher,
		now:           time.Now,
		dummyHash:     dummyHash,
	}
}

// PreLogin checks the password and issues a login OTP. Unknown email,
// inactive account and wrong password fail with the same message.
func (s *AuthService) PreLogin(ctx context.Context, input dto.LoginInput) (string, error) {
	email := normalizeEmail(input.Email)

	if err := s.tracker.CheckNotLocked(ctx, email); err != nil {
		return "", err
	}

	user, err := s.users.GetByEmailWithPassword(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	hash := s.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	passwordMatches := s.hasher.Compare(hash, input.Password)

	if user == nil || !user.Active || !passwordMatches {
		return "", s.fail(ctx, email, input.IPAddress, autherror.New(autherror.ErrInvalidCredentials, msgInvalidCredentials))
	}

	code, err := s.otps.Issue(ctx, user.ID, domain.OtpTypeLogin)
	if err != nil {
		return "", err
	}

	if err := s.tracker.Reset(ctx, email); err != nil {
		return "", err
	}

	s.publish(ctx, events.NewSecurityEvent(constant.SubjectOtpIssued, user.ID, email, input.IPAddress))
	return code, nil
}

// VerifyOtpLogin consumes a login OTP and issues the token pair.
func (s *AuthService) VerifyOtpLogin(ctx context.Context, input dto.VerifyOtpInput) (*dto.LoginResponse, error) {
	email := normalizeEmail(input.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, autherror.New(autherror.ErrInvalidCredentials, msgInvalidOtpToken)
	}

	if err := s.tracker.CheckNotLocked(ctx, email); err != nil {
		return nil, err
	}

	otp, err := s.otps.Consume(ctx, user.ID, domain.OtpTypeLogin, input.Otp)
	if err == nil {
		err = s.otps.MarkUsed(ctx, otp.ID)
	}
	if err != nil {
		var failure *autherror.Error
		if errors.Is(err, autherror.ErrInvalidCredentials) && errors.As(err, &failure) {
			return nil, s.fail(ctx, email, input.IPAddress, failure)
		}
		return nil, err
	}
	if err := s.tracker.Reset(ctx, email); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	accessToken, refreshToken, err := s.issueTokens(ctx, user, input.IPAddress)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewSecurityEvent(constant.SubjectLoginSuccess, user.ID, email, input.IPAddress))

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserOutput(user),
	}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User, ip string) (string, string, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, expiresAt, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	err = s.refreshTokens.Create(ctx, &domain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		IPAddress: ip,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// RotateAccess mints a new access token from a stored refresh token. The
// refresh token itself stays valid.
func (s *AuthService) RotateAccess(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", autherror.New(autherror.ErrUnauthorized, "refresh token missing")
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", autherror.WithReason(autherror.ErrUnauthorized, autherror.ErrTokenInvalid, "invalid token")
	}

	stored, err := s.refreshTokens.Find(ctx, refreshToken, userID)
	if err != nil {
		return "", fmt.Errorf("failed to find refresh token: %w", err)
	}
	if stored == nil {
		return "", autherror.WithReason(autherror.ErrUnauthorized, autherror.ErrRefreshTokenRevoked, "refresh token invalid or revoked")
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !user.Active {
		return "", autherror.New(autherror.ErrUnauthorized, "user not found or inactive")
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout deletes the stored refresh token. Expired tokens are accepted;
// tokens that do not decode are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.tokens.DecodeRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil
	}

	deleted, err := s.refreshTokens.Delete(ctx, refreshToken, userID)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	if deleted > 0 {
		s.publish(ctx, events.NewSecurityEvent(constant.SubjectLogout, userID, "", ""))
	}
	return nil
}

func (s *AuthService) fail(ctx context.Context, email, ip string, failure *autherror.Error) error {
	err := s.tracker.Fail(ctx, email, ip, failure)
	if errors.Is(err, autherror.ErrAccountLocked) {
		s.publish(ctx, events.NewSecurityEvent(constant.SubjectAccountLocked, 0, email, ip))
	}
	return err
}

func (s *AuthService) publish(ctx context.Context, event events.SecurityEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warnf("failed to publish %s event: %v", event.Type, err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

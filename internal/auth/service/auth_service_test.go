package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
	"github.com/AnthoniusHendriyanto/academy-service/internal/mocks"
	"github.com/AnthoniusHendriyanto/academy-service/pkg/constant"
)

type authMocks struct {
	users     *mocks.MockUserRepository
	attempts  *mocks.MockLoginAttemptRepository
	otps      *mocks.MockOtpRepository
	refresh   *mocks.MockRefreshTokenRepository
	tokens    *mocks.MockTokenGenerator
	publisher *mocks.MockPublisher
	hasher    *service.BcryptHasher
}

func newMockedAuthService(ctrl *gomock.Controller) (*service.AuthService, authMocks) {
	m := authMocks{
		users:     mocks.NewMockUserRepository(ctrl),
		attempts:  mocks.NewMockLoginAttemptRepository(ctrl),
		otps:      mocks.NewMockOtpRepository(ctrl),
		refresh:   mocks.NewMockRefreshTokenRepository(ctrl),
		tokens:    mocks.NewMockTokenGenerator(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		hasher:    service.NewBcryptHasher(bcrypt.MinCost),
	}

	s := service.NewAuthService(
		m.users,
		service.NewAttemptTracker(m.attempts, 5, 15),
		service.NewOtpService(m.otps, 15),
		m.refresh,
		m.tokens,
		m.hasher,
		m.publisher,
	)
	return s, m
}

func activeUser(t *testing.T, hasher *service.BcryptHasher) *domain.User {
	t.Helper()
	hash, err := hasher.Hash("Secret1!")
	require.NoError(t, err)
	return &domain.User{
		ID:           7,
		Name:         "Ada Lovelace",
		Email:        "a@x.com",
		PasswordHash: hash,
		Role:         domain.RoleCoordinator,
		Active:       true,
	}
}

func TestAuthService_PreLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newMockedAuthService(ctrl)
	user := activeUser(t, m.hasher)

	gomock.InOrder(
		m.attempts.EXPECT().GetByIdentifier(gomock.Any(), "a@x.com").Return(nil, nil),
		m.users.EXPECT().GetByEmailWithPassword(gomock.Any(), "a@x.com").Return(user, nil),
		m.otps.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, otp *domain.Otp) error {
			assert.Equal(t, domain.OtpTypeLogin, otp.Type)
			assert.Equal(t, user.ID, otp.UserID)
			assert.WithinDuration(t, time.Now().Add(15*time.Minute), otp.ExpiresAt, 5*time.Second)
			return nil
		}),
		m.attempts.EXPECT().Reset(gomock.Any(), "a@x.com").Return(nil),
		m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil),
	)

	code, err := s.PreLogin(context.Background(), dto.LoginInput{Email: "A@x.com", Password: "Secret1!", IPAddress: "10.0.0.1"})

	assert.NoError(t, err)
	assert.Len(t, code, constant.OtpDigits)
}

func TestAuthService_PreLogin_Locked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newMockedAuthService(ctrl)
	until := time.Now().Add(time.Minute)

	m.attempts.EXPECT().GetByIdentifier(gomock.Any(), "a@x.com").Return(&domain.LoginAttempt{Attempts: 5, LockUntil: &until}, nil)

	_, err := s.PreLogin(context.Background(), dto.LoginInput{Email: "a@x.com", Password: "Secret1!"})

	assert.ErrorIs(t, err, autherror.ErrAccountLocked)
}

func TestAuthService_PreLogin_UserLookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newMockedAuthService(ctrl)
	dbErr := errors.New("database error")

	m.attempts.EXPECT().GetByIdentifier(gomock.Any(), "a@x.com").Return(nil, nil)
	m.users.EXPECT().GetByEmailWithPassword(gomock.Any(), "a@x.com").Return(nil, dbErr)

	_, err := s.PreLogin(context.Background(), dto.LoginInput{Email: "a@x.com", Password: "Secret1!"})

	assert.ErrorIs(t, err, dbErr)
	assert.Equal(t, "internal server error", autherror.Message(err))
}

func TestAuthService_PreLogin_LockPublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newMockedAuthService(ctrl)

	m.attempts.EXPECT().GetByIdentifier(gomock.Any(), "a@x.com").Return(nil, nil)
	m.users.EXPECT().GetByEmailWithPassword(gomock.Any(), "a@x.com").Return(nil, nil)
	m.attempts.EXPECT().RecordFailure(gomock.Any(), "a@x.com", "10.0.0.1").Return(&domain.LoginAttempt{Attempts: 5}, nil)
	m.attempts.EXPECT().Lock(gomock.Any(), "a@x.com", gomock.Any()).Return(nil)
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("nats unavailable"))

	_, err := s.PreLogin(context.Background(), dto.LoginInput{Email: "a@x.com", Password: "Secret1!", IPAddress: "10.0.0.1"})

	// A failing publisher does not change the outcome.
	assert.ErrorIs(t, err, autherror.ErrAccountLocked)
}

func TestAuthService_VerifyOtpLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newMockedAuthService(ctrl)
	user := activeUser(t, m.hasher)
	user.PasswordHash = ""
	otp := &domain.Otp{ID: 3, Code: "123456", Type: domain.OtpTypeLogin, UserID: user.ID, ExpiresAt: time.Now().Add(time.Minute)}
	refreshExpiry := time.Now().Add(7 * 24 * time.Hour)

	gomock.InOrder(
		m.users.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(user, nil),
		m.attempts.EXPECT().GetByIdentifier(gomock.Any(), "a@x.com").Return(nil, nil),
		m.otps.EXPECT().FindByCode(gomock.Any(), user.ID, domain.OtpTypeLogin, "123456").Return(otp, nil),
		m.otps.EXPECT().MarkUsed(gomock.Any(), int64(3), gomock.Any()).Return(true, nil),
		m.attempts.EXPECT().Reset(gomock.Any(), "a@x.com").Return(nil),
		m.users.EXPECT().UpdateLastLogin(gomock.Any(), user.ID, gomock.Any()).Return(nil),
		m.tokens.EXPECT().GenerateAccessToken(user.ID, user.Email, user.Role).Return("access-token", nil),
		m.tokens.EXPECT().GenerateRefreshToken(user.ID).Return("refresh-token", refreshExpiry, nil),
		m.refresh.EXPECT().Create(gomock.Any(), &domain.RefreshToken{
			Token:     "refresh-token",
			UserID:    user.ID,
			IPAddress: "10.0.0.1",
			ExpiresAt: refreshExpiry,
		}).Return(nil),
		m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil),
	)

	resp, err := s.VerifyOtpLogin(context.Background(), dto.VerifyOtpInput{Email: "a@x.com", Otp: "123456", IPAddress: "10.0.0.1"})

	require.NoError(t, err)
	assert.Equal(t, "access-token", resp.AccessToken)
	assert.Equal(t, "refresh-token", resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotNil(t, resp.User.LastLogin)
}

func TestAuthService_VerifyOtpLogin_InactiveUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newMockedAuthService(ctrl)
	user := &domain.User{ID: 7, Email: "a@x.com", Active: false}

	m.users.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(user, nil)

	_, err := s.VerifyOtpLogin(context.Background(), dto.VerifyOtpInput{Email: "a@x.com", Otp: "123456"})

	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
	assert.Equal(t, "invalid or expired token", err.Error())
}

func TestAuthService_VerifyOtpLogin_OtpLookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newMockedAuthService(ctrl)
	user := &domain.User{ID: 7, Email: "a@x.com", Active: true}
	dbErr := errors.New("database error")

	m.users.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(user, nil)
	m.attempts.EXPECT().GetByIdentifier(gomock.Any(), "a@x.com").Return(nil, nil)
	m.otps.EXPECT().FindByCode(gomock.Any(), user.ID, domain.OtpTypeLogin, "123456").Return(nil, dbErr)

	_, err := s.VerifyOtpLogin(context.Background(), dto.VerifyOtpInput{Email: "a@x.com", Otp: "123456"})

	// Infrastructure failures are not charged to the attempt counter.
	assert.ErrorIs(t, err, dbErr)
}

func TestAuthService_VerifyOtpLogin_LosesClaimOnOtp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newMockedAuthService(ctrl)
	user := &domain.User{ID: 7, Email: "a@x.com", Active: true}
	otp := &domain.Otp{ID: 3, UserID: 7, ExpiresAt: time.Now().Add(time.Minute)}

	gomock.InOrder(
		m.users.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(user, nil),
		m.attempts.EXPECT().GetByIdentifier(gomock.Any(), "a@x.com").Return(nil, nil),
		m.otps.EXPECT().FindByCode(gomock.Any(), user.ID, domain.OtpTypeLogin, "123456").Return(otp, nil),
		// Another request stamped the row between the read and the claim.
		m.otps.EXPECT().MarkUsed(gomock.Any(), int64(3), gomock.Any()).Return(false, nil),
		m.attempts.EXPECT().RecordFailure(gomock.Any(), "a@x.com", "10.0.0.1").Return(&domain.LoginAttempt{Attempts: 1}, nil),
	)

	resp, err := s.VerifyOtpLogin(context.Background(), dto.VerifyOtpInput{Email: "a@x.com", Otp: "123456", IPAddress: "10.0.0.1"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
	assert.ErrorIs(t, err, autherror.ErrOtpAlreadyUsed)
	assert.Equal(t, "otp already used", err.Error())
}

func TestAuthService_VerifyOtpLogin_StoreRefreshTokenError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newMockedAuthService(ctrl)
	user := &domain.User{ID: 7, Email: "a@x.com", Role: domain.RoleAdministrator, Active: true}
	otp := &domain.Otp{ID: 3, UserID: 7, ExpiresAt: time.Now().Add(time.Minute)}
	dbErr := errors.New("database error")

	m.users.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(user, nil)
	m.attempts.EXPECT().GetByIdentifier(gomock.Any(), "a@x.com").Return(nil, nil)
	m.otps.EXPECT().FindByCode(gomock.Any(), user.ID, domain.OtpTypeLogin, "123456").Return(otp, nil)
	m.otps.EXPECT().MarkUsed(gomock.Any(), int64(3), gomock.Any()).Return(true, nil)
	m.attempts.EXPECT().Reset(gomock.Any(), "a@x.com").Return(nil)
	m.users.EXPECT().UpdateLastLogin(gomock.Any(), user.ID, gomock.Any()).Return(nil)
	m.tokens.EXPECT().GenerateAccessToken(user.ID, user.Email, user.Role).Return("access-token", nil)
	m.tokens.EXPECT().GenerateRefreshToken(user.ID).Return("refresh-token", time.Now(), nil)
	m.refresh.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dbErr)

	resp, err := s.VerifyOtpLogin(context.Background(), dto.VerifyOtpInput{Email: "a@x.com", Otp: "123456"})

	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, resp)
}

func TestAuthService_RotateAccess(t *testing.T) {
	claims := &service.JWTCustomClaims{Type: constant.TokenTypeRefresh}
	claims.Subject = "7"

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		s, m := newMockedAuthService(ctrl)
		user := &domain.User{ID: 7, Email: "a@x.com", Role: domain.RoleProfessional, Active: true}

		m.tokens.EXPECT().VerifyRefreshToken("refresh-token").Return(claims, nil)
		m.refresh.EXPECT().Find(gomock.Any(), "refresh-token", int64(7)).Return(&domain.RefreshToken{UserID: 7}, nil)
		m.users.EXPECT().GetByID(gomock.Any(), int64(7)).Return(user, nil)
		m.tokens.EXPECT().GenerateAccessToken(int64(7), "a@x.com", domain.RoleProfessional).Return("new-access", nil)

		token, err := s.RotateAccess(context.Background(), "refresh-token")
		assert.NoError(t, err)
		assert.Equal(t, "new-access", token)
	})

	t.Run("missing token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		s, _ := newMockedAuthService(ctrl)

		_, err := s.RotateAccess(context.Background(), "")
		assert.ErrorIs(t, err, autherror.ErrUnauthorized)
	})

	t.Run("invalid token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		s, m := newMockedAuthService(ctrl)
		invalid := autherror.WithReason(autherror.ErrUnauthorized, autherror.ErrTokenInvalid, "invalid token")

		m.tokens.EXPECT().VerifyRefreshToken("bad").Return(nil, invalid)

		_, err := s.RotateAccess(context.Background(), "bad")
		assert.ErrorIs(t, err, autherror.ErrTokenInvalid)
	})

	t.Run("revoked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		s, m := newMockedAuthService(ctrl)

		m.tokens.EXPECT().VerifyRefreshToken("refresh-token").Return(claims, nil)
		m.refresh.EXPECT().Find(gomock.Any(), "refresh-token", int64(7)).Return(nil, nil)

		_, err := s.RotateAccess(context.Background(), "refresh-token")
		assert.ErrorIs(t, err, autherror.ErrRefreshTokenRevoked)
		assert.Equal(t, 401, autherror.StatusCode(err))
	})

	t.Run("inactive user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		s, m := newMockedAuthService(ctrl)

		m.tokens.EXPECT().VerifyRefreshToken("refresh-token").Return(claims, nil)
		m.refresh.EXPECT().Find(gomock.Any(), "refresh-token", int64(7)).Return(&domain.RefreshToken{UserID: 7}, nil)
		m.users.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&domain.User{ID: 7, Active: false}, nil)

		_, err := s.RotateAccess(context.Background(), "refresh-token")
		assert.ErrorIs(t, err, autherror.ErrUnauthorized)
	})
}

func TestAuthService_Logout(t *testing.T) {
	claims := &service.JWTCustomClaims{Type: constant.TokenTypeRefresh}
	claims.Subject = "7"

	t.Run("deletes the stored token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		s, m := newMockedAuthService(ctrl)

		m.tokens.EXPECT().DecodeRefreshToken("refresh-token").Return(claims, nil)
		m.refresh.EXPECT().Delete(gomock.Any(), "refresh-token", int64(7)).Return(int64(1), nil)
		m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, s.Logout(context.Background(), "refresh-token"))
	})

	t.Run("unknown token is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		s, m := newMockedAuthService(ctrl)

		m.tokens.EXPECT().DecodeRefreshToken("refresh-token").Return(claims, nil)
		m.refresh.EXPECT().Delete(gomock.Any(), "refresh-token", int64(7)).Return(int64(0), nil)

		assert.NoError(t, s.Logout(context.Background(), "refresh-token"))
	})

	t.Run("unparseable token is ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		s, m := newMockedAuthService(ctrl)

		m.tokens.EXPECT().DecodeRefreshToken("garbage").Return(nil, autherror.New(autherror.ErrUnauthorized, "invalid token"))

		assert.NoError(t, s.Logout(context.Background(), "garbage"))
		assert.NoError(t, s.Logout(context.Background(), ""))
	})

	t.Run("delete error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		s, m := newMockedAuthService(ctrl)
		dbErr := errors.New("database error")

		m.tokens.EXPECT().DecodeRefreshToken("refresh-token").Return(claims, nil)
		m.refresh.EXPECT().Delete(gomock.Any(), "refresh-token", int64(7)).Return(int64(0), dbErr)

		assert.ErrorIs(t, s.Logout(context.Background(), "refresh-token"), dbErr)
	})
}

package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/AnthoniusHendriyanto/academy-service/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
	"github.com/AnthoniusHendriyanto/academy-service/pkg/constant"
)

type TokenGenerator interface {
	GenerateAccessToken(userID int64, email string, role domain.Role) (string, error)
	GenerateRefreshToken(userID int64) (string, time.Time, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error)
	DecodeRefreshToken(tokenString string) (*JWTCustomClaims, error)
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// JWTCustomClaims carries the user id in the registered "sub" claim.
type JWTCustomClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	Type  string `json:"type"`
}

func (c *JWTCustomClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject %q: %w", c.Subject, err)
	}
	return id, nil
}

func NewTokenService(accessSecret, refreshSecret string, accessMinutes, refreshDays int) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshDays) * 24 * time.Hour,
	}
}

func (ts *TokenService) GenerateAccessToken(userID int64, email string, role domain.Role) (string, error) {
	now := time.Now()

	claims := JWTCustomClaims{
		Email: email,
		Role:  string(role),
		Type:  constant.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.AccessTokenSecret))
}

// GenerateRefreshToken returns the signed token and its expiry. The jti keeps
// tokens issued in the same second distinct, since the token string is the
// storage key.
func (ts *TokenService) GenerateRefreshToken(userID int64) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ts.RefreshTokenExpiry)

	claims := JWTCustomClaims{
		Type: constant.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.RefreshTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.RefreshTokenExpiry
}

// VerifyAccessToken parses and validates the given access token string.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, ts.AccessTokenSecret, constant.TokenTypeAccess, jwt.WithExpirationRequired())
}

func (ts *TokenService) VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, ts.RefreshTokenSecret, constant.TokenTypeRefresh, jwt.WithExpirationRequired())
}

// DecodeRefreshToken checks the signature and type of a refresh token but
// accepts it after expiry.
func (ts *TokenService) DecodeRefreshToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, ts.RefreshTokenSecret, constant.TokenTypeRefresh, jwt.WithoutClaimsValidation())
}

func (ts *TokenService) verify(tokenString, secret, tokenType string, opts ...jwt.ParserOption) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherror.WithReason(autherror.ErrUnauthorized, autherror.ErrTokenExpired, "token expired")
		}
		return nil, autherror.WithReason(autherror.ErrUnauthorized, autherror.ErrTokenInvalid, "invalid token")
	}
	if !token.Valid {
		return nil, autherror.WithReason(autherror.ErrUnauthorized, autherror.ErrTokenInvalid, "invalid token")
	}

	if claims.Type != tokenType {
		return nil, autherror.WithReason(autherror.ErrUnauthorized, autherror.ErrTokenWrongType, "invalid token type")
	}
	if _, err := claims.UserID(); err != nil {
		return nil, autherror.WithReason(autherror.ErrUnauthorized, autherror.ErrTokenInvalid, "invalid token")
	}

	return claims, nil
}

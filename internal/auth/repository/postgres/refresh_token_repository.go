package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
)

type RefreshTokenRepository struct {
	db DBTX
}

func NewRefreshTokenRepository(db DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, rt *domain.RefreshToken) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO refresh_tokens (token, user_id, ip_address, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		rt.Token, rt.UserID, rt.IPAddress, rt.ExpiresAt,
	).Scan(&rt.ID, &rt.CreatedAt)
	if err != nil {
		return autherror.FromDB(fmt.Errorf("failed to store refresh token: %w", err), "refresh token")
	}
	return nil
}

// Find matches on both the token and its owner. Expired rows are treated as
// absent.
func (r *RefreshTokenRepository) Find(ctx context.Context, token string, userID int64) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	err := r.db.QueryRow(ctx, `
		SELECT id, token, user_id, ip_address, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1 AND user_id = $2 AND expires_at > now()`, token, userID,
	).Scan(&rt.ID, &rt.Token, &rt.UserID, &rt.IPAddress, &rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return &rt, nil
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, token string, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1 AND user_id = $2`, token, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

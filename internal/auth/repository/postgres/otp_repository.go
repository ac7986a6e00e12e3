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

type OtpRepository struct {
	db DBTX
}

func NewOtpRepository(db DBTX) *OtpRepository {
	return &OtpRepository{db: db}
}

// Create inserts the code. A code already held by another unused row of the
// same type fails with a Conflict error.
func (r *OtpRepository) Create(ctx context.Context, otp *domain.Otp) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO otps (code, type, user_id, expires_at)
		VALUES ($1, $2::otp_type, $3, $4)
		RETURNING id, created_at`,
		otp.Code, string(otp.Type), otp.UserID, otp.ExpiresAt,
	).Scan(&otp.ID, &otp.CreatedAt)
	if err != nil {
		return autherror.FromDB(fmt.Errorf("failed to create otp: %w", err), "otp")
	}
	return nil
}

// FindByCode prefers the unused row when the same code was issued before.
func (r *OtpRepository) FindByCode(ctx context.Context, userID int64, otpType domain.OtpType, code string) (*domain.Otp, error) {
	var (
		otp domain.Otp
		typ string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, code, type::text, user_id, expires_at, used_at, created_at
		FROM otps
		WHERE user_id = $1 AND type = $2::otp_type AND code = $3
		ORDER BY (used_at IS NULL) DESC, created_at DESC
		LIMIT 1`, userID, string(otpType), code,
	).Scan(&otp.ID, &otp.Code, &typ, &otp.UserID, &otp.ExpiresAt, &otp.UsedAt, &otp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find otp: %w", err)
	}
	otp.Type = domain.OtpType(typ)
	return &otp, nil
}

// DeleteExpiredUnused frees the codes held by abandoned logins. Used rows stay
// as the record of completed logins.
func (r *OtpRepository) DeleteExpiredUnused(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM otps WHERE used_at IS NULL AND expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired otps: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkUsed claims the code. It reports false when the row was already used,
// so of two concurrent claims only one wins.
func (r *OtpRepository) MarkUsed(ctx context.Context, id int64, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE otps SET used_at = $2 WHERE id = $1 AND used_at IS NULL`, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark otp as used: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

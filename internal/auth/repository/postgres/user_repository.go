package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
	"github.com/AnthoniusHendriyanto/academy-service/pkg/constant"
)

const userColumns = `id, name, email, role::text, document_number, phone_number, active, last_login, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1) AND deleted_at IS NULL
		LIMIT 1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmailWithPassword(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `, password
		FROM users
		WHERE lower(email) = lower($1) AND deleted_at IS NULL
		LIMIT 1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user credentials: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRow(ctx, query, id), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password, role, document_number, phone_number, active)
		VALUES ($1, $2, $3, $4::user_role, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		user.Name, user.Email, user.PasswordHash, string(user.Role), user.DocumentNumber, user.PhoneNumber, user.Active,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return autherror.FromDB(fmt.Errorf("failed to create user: %w", err), "user")
	}
	return nil
}

// Update writes every mutable column. The password is only replaced when
// PasswordHash is non-empty.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET name = $2, email = $3, role = $4::user_role, document_number = $5, phone_number = $6, active = $7,
		    password = COALESCE(NULLIF($8, ''), password), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`,
		user.ID, user.Name, user.Email, string(user.Role), user.DocumentNumber, user.PhoneNumber, user.Active, user.PasswordHash,
	).Scan(&user.UpdatedAt)
	if err != nil {
		return autherror.FromDB(err, "user")
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET last_login = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// SoftDelete stamps deleted_at and suffixes the unique columns so the email
// and document number can be registered again.
func (r *UserRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	suffix := fmt.Sprintf(constant.DeletedSuffixFormat, at.UnixMilli())

	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = email || $2, document_number = document_number || $2, deleted_at = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id, suffix, at)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.NotFound("user")
	}
	return nil
}

func scanUser(row pgx.Row, withPassword bool) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	dest := []any{&u.ID, &u.Name, &u.Email, &role, &u.DocumentNumber, &u.PhoneNumber, &u.Active, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt}
	if withPassword {
		dest = append(dest, &u.PasswordHash)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

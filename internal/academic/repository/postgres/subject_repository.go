package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/domain"
	authrepo "github.com/AnthoniusHendriyanto/academy-service/internal/auth/repository/postgres"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
	"github.com/AnthoniusHendriyanto/academy-service/pkg/constant"
)

const subjectColumns = `id, name, professional_id, created_at, updated_at`

type SubjectRepository struct {
	db authrepo.DBTX
}

func NewSubjectRepository(db authrepo.DBTX) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*domain.Subject, error) {
	subject, err := scanSubject(r.db.QueryRow(ctx, `
		SELECT `+subjectColumns+`
		FROM subjects
		WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return subject, nil
}

func (r *SubjectRepository) List(ctx context.Context) ([]domain.Subject, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+subjectColumns+`
		FROM subjects
		WHERE deleted_at IS NULL
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return collectSubjects(rows)
}

func (r *SubjectRepository) ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Subject, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+subjectColumns+`
		FROM subjects
		WHERE professional_id = $1 AND deleted_at IS NULL
		ORDER BY id`, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list professional subjects: %w", err)
	}
	return collectSubjects(rows)
}

func (r *SubjectRepository) Create(ctx context.Context, subject *domain.Subject) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO subjects (name, professional_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`,
		subject.Name, subject.ProfessionalID,
	).Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)
	if err != nil {
		return autherror.FromDB(fmt.Errorf("failed to create subject: %w", err), "subject")
	}
	return nil
}

func (r *SubjectRepository) Update(ctx context.Context, subject *domain.Subject) error {
	err := r.db.QueryRow(ctx, `
		UPDATE subjects
		SET name = $2, professional_id = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`,
		subject.ID, subject.Name, subject.ProfessionalID,
	).Scan(&subject.UpdatedAt)
	if err != nil {
		return autherror.FromDB(err, "subject")
	}
	return nil
}

// SoftDelete suffixes the name so another subject can take it.
func (r *SubjectRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	suffix := fmt.Sprintf(constant.DeletedSuffixFormat, at.UnixMilli())

	tag, err := r.db.Exec(ctx, `
		UPDATE subjects
		SET name = name || $2, deleted_at = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id, suffix, at)
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.NotFound("subject")
	}
	return nil
}

func scanSubject(row pgx.Row) (*domain.Subject, error) {
	var s domain.Subject
	if err := row.Scan(&s.ID, &s.Name, &s.ProfessionalID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSubjects(rows pgx.Rows) ([]domain.Subject, error) {
	defer rows.Close()

	subjects := []domain.Subject{}
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, *subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/domain"
	authrepo "github.com/AnthoniusHendriyanto/academy-service/internal/auth/repository/postgres"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
)

// NUMERIC travels as text so decimal.Decimal keeps its exact value.
const gradeColumns = `g.id, g.student_subject_id, g.value::text, g.description, g.created_at, g.updated_at`

type GradeRepository struct {
	db authrepo.DBTX
}

func NewGradeRepository(db authrepo.DBTX) *GradeRepository {
	return &GradeRepository{db: db}
}

func (r *GradeRepository) GetByID(ctx context.Context, id int64) (*domain.Grade, error) {
	grade, err := scanGrade(r.db.QueryRow(ctx, `
		SELECT `+gradeColumns+`
		FROM grades g
		WHERE g.id = $1 AND g.deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}
	return grade, nil
}

func (r *GradeRepository) List(ctx context.Context) ([]domain.Grade, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+gradeColumns+`
		FROM grades g
		WHERE g.deleted_at IS NULL
		ORDER BY g.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return collectGrades(rows)
}

// ListByProfessional returns the grades recorded in the professional's subjects.
func (r *GradeRepository) ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Grade, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+gradeColumns+`
		FROM grades g
		JOIN student_subjects e ON e.id = g.student_subject_id
		JOIN subjects s ON s.id = e.subject_id
		WHERE s.professional_id = $1 AND g.deleted_at IS NULL AND e.deleted_at IS NULL AND s.deleted_at IS NULL
		ORDER BY g.id`, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list professional grades: %w", err)
	}
	return collectGrades(rows)
}

func (r *GradeRepository) ListByStudentSubject(ctx context.Context, studentID, subjectID int64) ([]domain.Grade, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+gradeColumns+`
		FROM grades g
		JOIN student_subjects e ON e.id = g.student_subject_id
		WHERE e.student_id = $1 AND e.subject_id = $2 AND g.deleted_at IS NULL AND e.deleted_at IS NULL
		ORDER BY g.created_at`, studentID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list student grades: %w", err)
	}
	return collectGrades(rows)
}

func (r *GradeRepository) Create(ctx context.Context, grade *domain.Grade) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO grades (student_subject_id, value, description)
		VALUES ($1, $2::numeric, $3)
		RETURNING id, created_at, updated_at`,
		grade.StudentSubjectID, grade.Value.String(), grade.Description,
	).Scan(&grade.ID, &grade.CreatedAt, &grade.UpdatedAt)
	if err != nil {
		return autherror.FromDB(fmt.Errorf("failed to create grade: %w", err), "grade")
	}
	return nil
}

func (r *GradeRepository) Update(ctx context.Context, grade *domain.Grade) error {
	err := r.db.QueryRow(ctx, `
		UPDATE grades
		SET value = $2::numeric, description = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`,
		grade.ID, grade.Value.String(), grade.Description,
	).Scan(&grade.UpdatedAt)
	if err != nil {
		return autherror.FromDB(err, "grade")
	}
	return nil
}

func (r *GradeRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE grades
		SET deleted_at = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.NotFound("grade")
	}
	return nil
}

func scanGrade(row pgx.Row) (*domain.Grade, error) {
	var (
		g     domain.Grade
		value string
	)
	if err := row.Scan(&g.ID, &g.StudentSubjectID, &value, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid grade value %q: %w", value, err)
	}
	g.Value = parsed
	return &g, nil
}

func collectGrades(rows pgx.Rows) ([]domain.Grade, error) {
	defer rows.Close()

	grades := []domain.Grade{}
	for rows.Next() {
		grade, err := scanGrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grade: %w", err)
		}
		grades = append(grades, *grade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}

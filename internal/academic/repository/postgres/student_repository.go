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

const studentColumns = `s.id, s.name, s.email, s.document_number, s.country_id, s.created_by, s.created_at, s.updated_at`

type StudentRepository struct {
	db authrepo.DBTX
}

func NewStudentRepository(db authrepo.DBTX) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*domain.Student, error) {
	student, err := scanStudent(r.db.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students s
		WHERE s.id = $1 AND s.deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (r *StudentRepository) List(ctx context.Context) ([]domain.Student, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+studentColumns+`
		FROM students s
		WHERE s.deleted_at IS NULL
		ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return collectStudents(rows)
}

// ListBySubject returns the students with a live enrollment in the subject.
func (r *StudentRepository) ListBySubject(ctx context.Context, subjectID int64) ([]domain.Student, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+studentColumns+`
		FROM students s
		JOIN student_subjects e ON e.student_id = s.id
		WHERE e.subject_id = $1 AND e.deleted_at IS NULL AND s.deleted_at IS NULL
		ORDER BY s.name`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subject students: %w", err)
	}
	return collectStudents(rows)
}

func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO students (name, email, document_number, country_id, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		student.Name, student.Email, student.DocumentNumber, student.CountryID, student.CreatedBy,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		return autherror.FromDB(fmt.Errorf("failed to create student: %w", err), "student")
	}
	return nil
}

func (r *StudentRepository) Update(ctx context.Context, student *domain.Student) error {
	err := r.db.QueryRow(ctx, `
		UPDATE students
		SET name = $2, email = $3, document_number = $4, country_id = $5, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`,
		student.ID, student.Name, student.Email, student.DocumentNumber, student.CountryID,
	).Scan(&student.UpdatedAt)
	if err != nil {
		return autherror.FromDB(err, "student")
	}
	return nil
}

// SoftDelete frees the student's email and document number for reuse.
func (r *StudentRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	suffix := fmt.Sprintf(constant.DeletedSuffixFormat, at.UnixMilli())

	tag, err := r.db.Exec(ctx, `
		UPDATE students
		SET email = email || $2, document_number = document_number || $2, deleted_at = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id, suffix, at)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.NotFound("student")
	}
	return nil
}

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var s domain.Student
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.DocumentNumber, &s.CountryID, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func collectStudents(rows pgx.Rows) ([]domain.Student, error) {
	defer rows.Close()

	students := []domain.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, *student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

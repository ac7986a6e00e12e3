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
)

type EnrollmentRepository struct {
	db authrepo.DBTX
}

func NewEnrollmentRepository(db authrepo.DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.QueryRow(ctx, `
		SELECT id, student_id, subject_id, created_at
		FROM student_subjects
		WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&e.ID, &e.StudentID, &e.SubjectID, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &e, nil
}

func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]domain.Enrollment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, student_id, subject_id, created_at
		FROM student_subjects
		WHERE student_id = $1 AND deleted_at IS NULL
		ORDER BY id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []domain.Enrollment{}
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.ID, &e.StudentID, &e.SubjectID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

// Create fails with a conflict when the student already has a live
// enrollment in the subject.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO student_subjects (student_id, subject_id)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		enrollment.StudentID, enrollment.SubjectID,
	).Scan(&enrollment.ID, &enrollment.CreatedAt)
	if err != nil {
		return autherror.FromDB(fmt.Errorf("failed to enroll student: %w", err), "enrollment")
	}
	return nil
}

func (r *EnrollmentRepository) SoftDelete(ctx context.Context, studentID, subjectID int64, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE student_subjects
		SET deleted_at = $3
		WHERE student_id = $1 AND subject_id = $2 AND deleted_at IS NULL`, studentID, subjectID, at)
	if err != nil {
		return fmt.Errorf("failed to unenroll student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.NotFound("enrollment")
	}
	return nil
}

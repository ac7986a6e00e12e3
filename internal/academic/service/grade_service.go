package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/domain"
	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/dto"
	authdomain "github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
)

// GradeService records grades against enrollments. A PROFESSIONAL caller may
// only touch grades in subjects assigned to them.
type GradeService struct {
	grades      domain.GradeRepository
	enrollments domain.EnrollmentRepository
	subjects    domain.SubjectRepository
	now         func() time.Time
}

func NewGradeService(grades domain.GradeRepository, enrollments domain.EnrollmentRepository, subjects domain.SubjectRepository) *GradeService {
	return &GradeService{
		grades:      grades,
		enrollments: enrollments,
		subjects:    subjects,
		now:         time.Now,
	}
}

// Create checks ownership before the grade itself, so a professional outside
// the subject gets Forbidden whatever the body holds.
func (s *GradeService) Create(ctx context.Context, caller domain.Caller, input dto.CreateGradeInput) (*domain.Grade, error) {
	if input.StudentSubjectID <= 0 {
		return nil, autherror.Validation("studentSubjectId is required")
	}
	if err := s.authorize(ctx, caller, input.StudentSubjectID); err != nil {
		return nil, err
	}

	if input.Value == nil {
		return nil, autherror.Validation("value is required")
	}
	value, err := gradeValue(*input.Value)
	if err != nil {
		return nil, err
	}
	description, err := gradeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	grade := &domain.Grade{
		StudentSubjectID: input.StudentSubjectID,
		Value:            value,
		Description:      description,
	}
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, err
	}
	return grade, nil
}

func (s *GradeService) Update(ctx context.Context, caller domain.Caller, id int64, input dto.UpdateGradeInput) (*domain.Grade, error) {
	grade, err := s.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if input.Value != nil {
		if grade.Value, err = gradeValue(*input.Value); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		if grade.Description, err = gradeDescription(*input.Description); err != nil {
			return nil, err
		}
	}

	if err := s.grades.Update(ctx, grade); err != nil {
		return nil, err
	}
	return grade, nil
}

func (s *GradeService) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if _, err := s.find(ctx, caller, id); err != nil {
		return err
	}
	return s.grades.SoftDelete(ctx, id, s.now())
}

// List returns every live grade, or only the caller's subjects for a
// PROFESSIONAL.
func (s *GradeService) List(ctx context.Context, caller domain.Caller) ([]domain.Grade, error) {
	if caller.Role == authdomain.RoleProfessional {
		return s.grades.ListByProfessional(ctx, caller.ID)
	}
	return s.grades.List(ctx)
}

func (s *GradeService) Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Grade, error) {
	return s.find(ctx, caller, id)
}

func (s *GradeService) find(ctx context.Context, caller domain.Caller, id int64) (*domain.Grade, error) {
	grade, err := s.grades.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find grade: %w", err)
	}
	if grade == nil {
		return nil, autherror.NotFound("grade")
	}
	if err := s.authorize(ctx, caller, grade.StudentSubjectID); err != nil {
		return nil, err
	}
	return grade, nil
}

// authorize checks that the enrollment exists and, for a PROFESSIONAL, that
// its subject belongs to the caller.
func (s *GradeService) authorize(ctx context.Context, caller domain.Caller, enrollmentID int64) error {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return fmt.Errorf("failed to find enrollment: %w", err)
	}
	if enrollment == nil {
		return autherror.NotFound("enrollment")
	}
	if caller.Role != authdomain.RoleProfessional {
		return nil
	}

	subject, err := s.subjects.GetByID(ctx, enrollment.SubjectID)
	if err != nil {
		return fmt.Errorf("failed to find subject: %w", err)
	}
	if subject == nil {
		return autherror.NotFound("subject")
	}
	if !caller.Owns(subject) {
		return autherror.New(autherror.ErrForbidden, msgNotAssigned)
	}
	return nil
}

// gradeValue enforces the [0, 5] range and the two decimal places the column
// stores.
func gradeValue(value decimal.Decimal) (decimal.Decimal, error) {
	if value.LessThan(domain.MinGradeValue) || value.GreaterThan(domain.MaxGradeValue) {
		return decimal.Decimal{}, autherror.Validation("value must be between 0 and 5")
	}
	return value.Round(2), nil
}

func gradeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if n := len([]rune(description)); n < 3 || n > 50 {
		return "", autherror.Validation("description must be between 3 and 50 characters")
	}
	return description, nil
}

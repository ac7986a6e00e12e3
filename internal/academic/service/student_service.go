package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/domain"
	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/dto"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
)

// StudentService manages students and their enrollments.
type StudentService struct {
	students    domain.StudentRepository
	subjects    domain.SubjectRepository
	enrollments domain.EnrollmentRepository
	countries   domain.CountryRepository
	now         func() time.Time
}

func NewStudentService(
	students domain.StudentRepository,
	subjects domain.SubjectRepository,
	enrollments domain.EnrollmentRepository,
	countries domain.CountryRepository,
) *StudentService {
	return &StudentService{
		students:    students,
		subjects:    subjects,
		enrollments: enrollments,
		countries:   countries,
		now:         time.Now,
	}
}

func (s *StudentService) Create(ctx context.Context, caller domain.Caller, input dto.CreateStudentInput) (*domain.Student, error) {
	if err := s.checkCountry(ctx, input.CountryID); err != nil {
		return nil, err
	}

	student := &domain.Student{
		Name:           strings.TrimSpace(input.Name),
		Email:          normalizeEmail(input.Email),
		DocumentNumber: input.DocumentNumber,
		CountryID:      input.CountryID,
		CreatedBy:      caller.ID,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *StudentService) List(ctx context.Context) ([]domain.Student, error) {
	return s.students.List(ctx)
}

func (s *StudentService) Get(ctx context.Context, id int64) (*domain.Student, error) {
	return s.find(ctx, id)
}

func (s *StudentService) Update(ctx context.Context, id int64, input dto.UpdateStudentInput) (*domain.Student, error) {
	student, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		student.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		student.Email = normalizeEmail(*input.Email)
	}
	if input.DocumentNumber != nil {
		student.DocumentNumber = *input.DocumentNumber
	}
	if input.CountryID != nil && *input.CountryID != student.CountryID {
		if err := s.checkCountry(ctx, *input.CountryID); err != nil {
			return nil, err
		}
		student.CountryID = *input.CountryID
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, id int64) error {
	return s.students.SoftDelete(ctx, id, s.now())
}

// Enroll registers the student in a subject. A second live enrollment in the
// same subject is a conflict.
func (s *StudentService) Enroll(ctx context.Context, studentID int64, input dto.EnrollInput) (*domain.Enrollment, error) {
	if _, err := s.find(ctx, studentID); err != nil {
		return nil, err
	}

	subject, err := s.subjects.GetByID(ctx, input.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find subject: %w", err)
	}
	if subject == nil {
		return nil, autherror.NotFound("subject")
	}

	enrollment := &domain.Enrollment{StudentID: studentID, SubjectID: subject.ID}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *StudentService) Enrollments(ctx context.Context, studentID int64) ([]domain.Enrollment, error) {
	if _, err := s.find(ctx, studentID); err != nil {
		return nil, err
	}
	return s.enrollments.ListByStudent(ctx, studentID)
}

func (s *StudentService) Unenroll(ctx context.Context, studentID, subjectID int64) error {
	return s.enrollments.SoftDelete(ctx, studentID, subjectID, s.now())
}

func (s *StudentService) find(ctx context.Context, id int64) (*domain.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	if student == nil {
		return nil, autherror.NotFound("student")
	}
	return student, nil
}

func (s *StudentService) checkCountry(ctx context.Context, id int64) error {
	country, err := s.countries.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find country: %w", err)
	}
	if country == nil {
		return autherror.Validation("country does not exist")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/domain"
	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/dto"
	authdomain "github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
)

const msgNotAssigned = "subject is not assigned to you"

type SubjectService struct {
	subjects domain.SubjectRepository
	students domain.StudentRepository
	grades   domain.GradeRepository
	users    authdomain.UserRepository
	now      func() time.Time
}

func NewSubjectService(
	subjects domain.SubjectRepository,
	students domain.StudentRepository,
	grades domain.GradeRepository,
	users authdomain.UserRepository,
) *SubjectService {
	return &SubjectService{
		subjects: subjects,
		students: students,
		grades:   grades,
		users:    users,
		now:      time.Now,
	}
}

func (s *SubjectService) Create(ctx context.Context, input dto.CreateSubjectInput) (*domain.Subject, error) {
	if err := s.checkProfessional(ctx, input.ProfessionalID); err != nil {
		return nil, err
	}

	subject := &domain.Subject{
		Name:           strings.TrimSpace(input.Name),
		ProfessionalID: input.ProfessionalID,
	}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) List(ctx context.Context) ([]domain.Subject, error) {
	return s.subjects.List(ctx)
}

// Mine lists the subjects assigned to the calling professional.
func (s *SubjectService) Mine(ctx context.Context, caller domain.Caller) ([]domain.Subject, error) {
	return s.subjects.ListByProfessional(ctx, caller.ID)
}

func (s *SubjectService) Get(ctx context.Context, id int64) (*domain.Subject, error) {
	return s.find(ctx, id)
}

func (s *SubjectService) Update(ctx context.Context, id int64, input dto.UpdateSubjectInput) (*domain.Subject, error) {
	subject, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		subject.Name = strings.TrimSpace(*input.Name)
	}
	if input.ProfessionalID != nil && *input.ProfessionalID != subject.ProfessionalID {
		if err := s.checkProfessional(ctx, *input.ProfessionalID); err != nil {
			return nil, err
		}
		subject.ProfessionalID = *input.ProfessionalID
	}

	if err := s.subjects.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	return s.subjects.SoftDelete(ctx, id, s.now())
}

// Students lists the subject roster. Professionals only see their own
// subjects.
func (s *SubjectService) Students(ctx context.Context, caller domain.Caller, subjectID int64) ([]domain.Student, error) {
	if _, err := s.owned(ctx, caller, subjectID); err != nil {
		return nil, err
	}
	return s.students.ListBySubject(ctx, subjectID)
}

func (s *SubjectService) StudentGrades(ctx context.Context, caller domain.Caller, subjectID, studentID int64) ([]domain.Grade, error) {
	if _, err := s.owned(ctx, caller, subjectID); err != nil {
		return nil, err
	}
	return s.grades.ListByStudentSubject(ctx, studentID, subjectID)
}

func (s *SubjectService) owned(ctx context.Context, caller domain.Caller, id int64) (*domain.Subject, error) {
	subject, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(subject) {
		return nil, autherror.New(autherror.ErrForbidden, msgNotAssigned)
	}
	return subject, nil
}

func (s *SubjectService) find(ctx context.Context, id int64) (*domain.Subject, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find subject: %w", err)
	}
	if subject == nil {
		return nil, autherror.NotFound("subject")
	}
	return subject, nil
}

// checkProfessional requires a live user with the PROFESSIONAL role.
func (s *SubjectService) checkProfessional(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find professional: %w", err)
	}
	if user == nil || user.Role != authdomain.RoleProfessional {
		return autherror.NotFound("professional")
	}
	return nil
}

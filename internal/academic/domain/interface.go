package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_academic_repository.go -package=mocks github.com/AnthoniusHendriyanto/academy-service/internal/academic/domain CountryRepository,StudentRepository,SubjectRepository,EnrollmentRepository,GradeRepository

// As in the auth store, lookups return (nil, nil) when no live row matches.

type CountryRepository interface {
	GetByID(ctx context.Context, id int64) (*Country, error)
	List(ctx context.Context) ([]Country, error)
	Upsert(ctx context.Context, country *Country) error
}

type StudentRepository interface {
	GetByID(ctx context.Context, id int64) (*Student, error)
	List(ctx context.Context) ([]Student, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]Student, error)
	Create(ctx context.Context, student *Student) error
	Update(ctx context.Context, student *Student) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
}

type SubjectRepository interface {
	GetByID(ctx context.Context, id int64) (*Subject, error)
	List(ctx context.Context) ([]Subject, error)
	ListByProfessional(ctx context.Context, professionalID int64) ([]Subject, error)
	Create(ctx context.Context, subject *Subject) error
	Update(ctx context.Context, subject *Subject) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
}

type EnrollmentRepository interface {
	GetByID(ctx context.Context, id int64) (*Enrollment, error)
	ListByStudent(ctx context.Context, studentID int64) ([]Enrollment, error)
	Create(ctx context.Context, enrollment *Enrollment) error
	SoftDelete(ctx context.Context, studentID, subjectID int64, at time.Time) error
}

type GradeRepository interface {
	GetByID(ctx context.Context, id int64) (*Grade, error)
	List(ctx context.Context) ([]Grade, error)
	ListByProfessional(ctx context.Context, professionalID int64) ([]Grade, error)
	ListByStudentSubject(ctx context.Context, studentID, subjectID int64) ([]Grade, error)
	Create(ctx context.Context, grade *Grade) error
	Update(ctx context.Context, grade *Grade) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
}

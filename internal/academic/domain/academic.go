package domain

import (
	"time"

	"github.com/shopspring/decimal"

	authdomain "github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
)

type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type Student struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	DocumentNumber string    `json:"documentNumber"`
	CountryID      int64     `json:"countryId"`
	CreatedBy      int64     `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Subject is taught by exactly one PROFESSIONAL user.
type Subject struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	ProfessionalID int64     `json:"professionalId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Enrollment links a student to a subject. Grades hang off the enrollment.
type Enrollment struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"studentId"`
	SubjectID int64     `json:"subjectId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Grade struct {
	ID               int64           `json:"id"`
	StudentSubjectID int64           `json:"studentSubjectId"`
	Value            decimal.Decimal `json:"value"`
	Description      string          `json:"description"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

var (
	MinGradeValue = decimal.Zero
	MaxGradeValue = decimal.NewFromInt(5)
)

// Caller is the authenticated user on whose behalf an operation runs.
type Caller struct {
	ID   int64
	Role authdomain.Role
}

// Owns reports whether the caller may act on the subject's grades and roster.
// Only PROFESSIONAL callers are scoped to their own subjects.
func (c Caller) Owns(subject *Subject) bool {
	if c.Role != authdomain.RoleProfessional {
		return true
	}
	return subject != nil && subject.ProfessionalID == c.ID
}

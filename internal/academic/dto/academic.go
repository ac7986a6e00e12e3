package dto

import "github.com/shopspring/decimal"

// Emails stop at 233 characters so the soft-delete suffix still fits the
// 255 character column.
type CreateStudentInput struct {
	Name           string `json:"name" validate:"required,min=3,max=50,personname"`
	Email          string `json:"email" validate:"required,max=233,email"`
	CountryID      int64  `json:"countryId" validate:"required,min=1"`
	DocumentNumber string `json:"documentNumber" validate:"required,min=5,max=12,numeric"`
}

type UpdateStudentInput struct {
	Name           *string `json:"name" validate:"omitempty,min=3,max=50,personname"`
	Email          *string `json:"email" validate:"omitempty,max=233,email"`
	CountryID      *int64  `json:"countryId" validate:"omitempty,min=1"`
	DocumentNumber *string `json:"documentNumber" validate:"omitempty,min=5,max=12,numeric"`
}

type EnrollInput struct {
	SubjectID int64 `json:"subjectId" validate:"required,min=1"`
}

type CreateSubjectInput struct {
	Name           string `json:"name" validate:"required,min=3,max=50"`
	ProfessionalID int64  `json:"professionalId" validate:"required,min=1"`
}

type UpdateSubjectInput struct {
	Name           *string `json:"name" validate:"omitempty,min=3,max=50"`
	ProfessionalID *int64  `json:"professionalId" validate:"omitempty,min=1"`
}

// Grade values accept JSON numbers or strings. Grade input is validated by
// the grade service once the caller is known to own the enrollment.
type CreateGradeInput struct {
	StudentSubjectID int64            `json:"studentSubjectId"`
	Value            *decimal.Decimal `json:"value"`
	Description      string           `json:"description"`
}

type UpdateGradeInput struct {
	Value       *decimal.Decimal `json:"value"`
	Description *string          `json:"description"`
}

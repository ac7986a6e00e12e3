package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/domain"
	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/handler"
	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/service"
	authdomain "github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	authservice "github.com/AnthoniusHendriyanto/academy-service/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
	"github.com/AnthoniusHendriyanto/academy-service/internal/middleware"
	"github.com/AnthoniusHendriyanto/academy-service/internal/mocks"
	"github.com/AnthoniusHendriyanto/academy-service/pkg/constant"
)

type testServer struct {
	app         *fiber.App
	tokens      *authservice.TokenService
	students    *mocks.MockStudentRepository
	subjects    *mocks.MockSubjectRepository
	enrollments *mocks.MockEnrollmentRepository
	grades      *mocks.MockGradeRepository
	countries   *mocks.MockCountryRepository
	users       *mocks.MockUserRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)

	s := &testServer{
		tokens:      authservice.NewTokenService("access-secret", "refresh-secret", 15, 7),
		students:    mocks.NewMockStudentRepository(ctrl),
		subjects:    mocks.NewMockSubjectRepository(ctrl),
		enrollments: mocks.NewMockEnrollmentRepository(ctrl),
		grades:      mocks.NewMockGradeRepository(ctrl),
		countries:   mocks.NewMockCountryRepository(ctrl),
		users:       mocks.NewMockUserRepository(ctrl),
	}

	s.app = fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	handler.RegisterRoutes(s.app.Group("/api"), handler.Handlers{
		Students:  handler.NewStudentHandler(service.NewStudentService(s.students, s.subjects, s.enrollments, s.countries)),
		Subjects:  handler.NewSubjectHandler(service.NewSubjectService(s.subjects, s.students, s.grades, s.users)),
		Grades:    handler.NewGradeHandler(service.NewGradeService(s.grades, s.enrollments, s.subjects)),
		Countries: handler.NewCountryHandler(service.NewCountryService(s.countries, nil)),
	}, s.tokens)
	return s
}

func (s *testServer) as(t *testing.T, id int64, role authdomain.Role) *http.Cookie {
	t.Helper()
	token, err := s.tokens.GenerateAccessToken(id, "someone@x.com", role)
	require.NoError(t, err)
	return &http.Cookie{Name: constant.AccessTokenCookie, Value: token}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestStudentRoutes(t *testing.T) {
	s := newTestServer(t)
	coordinator := s.as(t, 2, authdomain.RoleCoordinator)

	t.Run("requires authentication", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/students", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("professionals are forbidden", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/students", nil, s.as(t, 7, authdomain.RoleProfessional))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("create records the caller", func(t *testing.T) {
		s.countries.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&domain.Country{ID: 2}, nil)
		s.students.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, st *domain.Student) error {
			st.ID = 3
			return nil
		})

		resp := s.do(t, http.MethodPost, "/api/students", map[string]interface{}{
			"name": "Ana Gomez", "email": "ana@x.com", "countryId": 2, "documentNumber": "123456",
		}, coordinator)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var student domain.Student
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&student))
		assert.Equal(t, int64(3), student.ID)
		assert.Equal(t, int64(2), student.CreatedBy)
	})

	t.Run("validation", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/students", map[string]interface{}{
			"name": "Ana Gomez", "email": "ana@x.com", "countryId": 2, "documentNumber": "12ab",
		}, coordinator)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("enroll twice conflicts", func(t *testing.T) {
		s.students.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&domain.Student{ID: 3}, nil)
		s.subjects.EXPECT().GetByID(gomock.Any(), int64(8)).Return(&domain.Subject{ID: 8}, nil)
		s.enrollments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(autherror.New(autherror.ErrConflict, "enrollment already exists"))

		resp := s.do(t, http.MethodPost, "/api/students/3/subjects", map[string]interface{}{"subjectId": 8}, coordinator)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unenroll", func(t *testing.T) {
		s.enrollments.EXPECT().SoftDelete(gomock.Any(), int64(3), int64(8), gomock.Any()).Return(nil)

		resp := s.do(t, http.MethodDelete, "/api/students/3/subjects/8", nil, coordinator)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bad id", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/students/zero", nil, coordinator)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSubjectRoutes(t *testing.T) {
	s := newTestServer(t)
	professional := s.as(t, 7, authdomain.RoleProfessional)
	admin := s.as(t, 1, authdomain.RoleAdministrator)

	t.Run("my subjects is for professionals", func(t *testing.T) {
		s.subjects.EXPECT().ListByProfessional(gomock.Any(), int64(7)).Return([]domain.Subject{{ID: 8, ProfessionalID: 7}}, nil)

		resp := s.do(t, http.MethodGet, "/api/subjects/my-subjects", nil, professional)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = s.do(t, http.MethodGet, "/api/subjects/my-subjects", nil, admin)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("professionals cannot manage subjects", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/subjects", nil, professional)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("roster of a foreign subject", func(t *testing.T) {
		s.subjects.EXPECT().GetByID(gomock.Any(), int64(10)).Return(&domain.Subject{ID: 10, ProfessionalID: 99}, nil)

		resp := s.do(t, http.MethodGet, "/api/subjects/10/students", nil, professional)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("student grades of an owned subject", func(t *testing.T) {
		s.subjects.EXPECT().GetByID(gomock.Any(), int64(8)).Return(&domain.Subject{ID: 8, ProfessionalID: 7}, nil)
		s.grades.EXPECT().ListByStudentSubject(gomock.Any(), int64(3), int64(8)).Return([]domain.Grade{{ID: 5, Value: decimal.NewFromInt(4)}}, nil)

		resp := s.do(t, http.MethodGet, "/api/subjects/8/students/3/grades", nil, professional)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("create", func(t *testing.T) {
		s.users.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&authdomain.User{ID: 7, Role: authdomain.RoleProfessional}, nil)
		s.subjects.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp := s.do(t, http.MethodPost, "/api/subjects", map[string]interface{}{"name": "Algebra", "professionalId": 7}, admin)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})
}

func TestGradeRoutes(t *testing.T) {
	s := newTestServer(t)
	professional := s.as(t, 7, authdomain.RoleProfessional)

	t.Run("owner creates a grade", func(t *testing.T) {
		s.enrollments.EXPECT().GetByID(gomock.Any(), int64(21)).Return(&domain.Enrollment{ID: 21, StudentID: 3, SubjectID: 8}, nil)
		s.subjects.EXPECT().GetByID(gomock.Any(), int64(8)).Return(&domain.Subject{ID: 8, ProfessionalID: 7}, nil)
		s.grades.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp := s.do(t, http.MethodPost, "/api/grades", map[string]interface{}{
			"studentSubjectId": 21, "value": 4.5, "description": "Midterm",
		}, professional)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var grade domain.Grade
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&grade))
		assert.True(t, decimal.RequireFromString("4.5").Equal(grade.Value))
	})

	t.Run("foreign subject is forbidden", func(t *testing.T) {
		s.enrollments.EXPECT().GetByID(gomock.Any(), int64(21)).Return(&domain.Enrollment{ID: 21, StudentID: 3, SubjectID: 8}, nil)
		s.subjects.EXPECT().GetByID(gomock.Any(), int64(8)).Return(&domain.Subject{ID: 8, ProfessionalID: 99}, nil)

		resp := s.do(t, http.MethodPost, "/api/grades", map[string]interface{}{
			"studentSubjectId": 21, "value": "3.0", "description": "Quiz",
		}, professional)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("value out of range", func(t *testing.T) {
		s.enrollments.EXPECT().GetByID(gomock.Any(), int64(21)).Return(&domain.Enrollment{ID: 21, StudentID: 3, SubjectID: 8}, nil)
		s.subjects.EXPECT().GetByID(gomock.Any(), int64(8)).Return(&domain.Subject{ID: 8, ProfessionalID: 7}, nil)

		resp := s.do(t, http.MethodPost, "/api/grades", map[string]interface{}{
			"studentSubjectId": 21, "value": 7, "description": "Quiz",
		}, professional)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("foreign subject is forbidden whatever the body", func(t *testing.T) {
		s.enrollments.EXPECT().GetByID(gomock.Any(), int64(21)).Return(&domain.Enrollment{ID: 21, StudentID: 3, SubjectID: 8}, nil)
		s.subjects.EXPECT().GetByID(gomock.Any(), int64(8)).Return(&domain.Subject{ID: 8, ProfessionalID: 99}, nil)

		resp := s.do(t, http.MethodPost, "/api/grades", map[string]interface{}{
			"studentSubjectId": 21, "value": 7, "description": "x",
		}, professional)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("list is scoped for professionals", func(t *testing.T) {
		s.grades.EXPECT().ListByProfessional(gomock.Any(), int64(7)).Return([]domain.Grade{}, nil)

		resp := s.do(t, http.MethodGet, "/api/grades", nil, professional)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestCountryRoutes(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/countries", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	s.countries.EXPECT().List(gomock.Any()).Return([]domain.Country{{ID: 1, Name: "Argentina", Code: "AR"}}, nil)

	resp = s.do(t, http.MethodGet, "/api/countries", nil, s.as(t, 7, authdomain.RoleProfessional))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var countries []domain.Country
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&countries))
	assert.Equal(t, "AR", countries[0].Code)
}

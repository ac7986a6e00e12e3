package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	authservice "github.com/AnthoniusHendriyanto/academy-service/internal/auth/service"
	"github.com/AnthoniusHendriyanto/academy-service/internal/middleware"
)

// Handlers groups the academic handlers mounted by RegisterRoutes.
type Handlers struct {
	Students  *StudentHandler
	Subjects  *SubjectHandler
	Grades    *GradeHandler
	Countries *CountryHandler
}

// RegisterRoutes mounts /students, /subjects, /grades and /countries on
// router. Roles are checked per route since /subjects mixes staff and
// professional endpoints.
func RegisterRoutes(router fiber.Router, h Handlers, tokens authservice.TokenGenerator) {
	staff := middleware.Authorize(domain.RoleAdministrator, domain.RoleCoordinator)
	teaching := middleware.Authorize(domain.RoleAdministrator, domain.RoleCoordinator, domain.RoleProfessional)
	professional := middleware.Authorize(domain.RoleProfessional)

	students := router.Group("/students", middleware.Authenticate(tokens), staff)
	students.Post("/", h.Students.Create)
	students.Get("/", h.Students.List)
	students.Get("/:id", h.Students.Get)
	students.Patch("/:id", h.Students.Update)
	students.Delete("/:id", h.Students.Delete)
	students.Post("/:id/subjects", h.Students.Enroll)
	students.Get("/:id/subjects", h.Students.Enrollments)
	students.Delete("/:id/subjects/:subjectId", h.Students.Unenroll)

	subjects := router.Group("/subjects", middleware.Authenticate(tokens))
	subjects.Get("/my-subjects", professional, h.Subjects.Mine)
	subjects.Get("/:id/students", teaching, h.Subjects.Students)
	subjects.Get("/:id/students/:studentId/grades", teaching, h.Subjects.StudentGrades)
	subjects.Post("/", staff, h.Subjects.Create)
	subjects.Get("/", staff, h.Subjects.List)
	subjects.Get("/:id", staff, h.Subjects.Get)
	subjects.Patch("/:id", staff, h.Subjects.Update)
	subjects.Delete("/:id", staff, h.Subjects.Delete)

	grades := router.Group("/grades", middleware.Authenticate(tokens), teaching)
	grades.Post("/", h.Grades.Create)
	grades.Get("/", h.Grades.List)
	grades.Get("/:id", h.Grades.Get)
	grades.Patch("/:id", h.Grades.Update)
	grades.Delete("/:id", h.Grades.Delete)

	router.Get("/countries", middleware.Authenticate(tokens), h.Countries.List)
}

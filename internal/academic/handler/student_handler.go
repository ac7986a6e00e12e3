package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/dto"
	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/service"
	"github.com/AnthoniusHendriyanto/academy-service/internal/request"
)

type StudentHandler struct {
	students *service.StudentService
}

func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

func (h *StudentHandler) Create(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var input dto.CreateStudentInput
	if err := request.Bind(c, &input); err != nil {
		return err
	}

	student, err := h.students.Create(c.UserContext(), caller, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(student)
}

func (h *StudentHandler) List(c *fiber.Ctx) error {
	students, err := h.students.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(students)
}

func (h *StudentHandler) Get(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	student, err := h.students.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(student)
}

func (h *StudentHandler) Update(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	var input dto.UpdateStudentInput
	if err := request.Bind(c, &input); err != nil {
		return err
	}

	student, err := h.students.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(student)
}

func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	if err := h.students.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "student deleted"})
}

func (h *StudentHandler) Enroll(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	var input dto.EnrollInput
	if err := request.Bind(c, &input); err != nil {
		return err
	}

	enrollment, err := h.students.Enroll(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

func (h *StudentHandler) Enrollments(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	enrollments, err := h.students.Enrollments(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(enrollments)
}

func (h *StudentHandler) Unenroll(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}
	subjectID, err := request.ID(c, "subjectId")
	if err != nil {
		return err
	}

	if err := h.students.Unenroll(c.UserContext(), id, subjectID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "student unenrolled"})
}

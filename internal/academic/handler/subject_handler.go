package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/dto"
	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/service"
	"github.com/AnthoniusHendriyanto/academy-service/internal/request"
)

type SubjectHandler struct {
	subjects *service.SubjectService
}

func NewSubjectHandler(subjects *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

func (h *SubjectHandler) Create(c *fiber.Ctx) error {
	var input dto.CreateSubjectInput
	if err := request.Bind(c, &input); err != nil {
		return err
	}

	subject, err := h.subjects.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(subject)
}

func (h *SubjectHandler) List(c *fiber.Ctx) error {
	subjects, err := h.subjects.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(subjects)
}

func (h *SubjectHandler) Mine(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	subjects, err := h.subjects.Mine(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(subjects)
}

func (h *SubjectHandler) Get(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	subject, err := h.subjects.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(subject)
}

func (h *SubjectHandler) Update(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	var input dto.UpdateSubjectInput
	if err := request.Bind(c, &input); err != nil {
		return err
	}

	subject, err := h.subjects.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(subject)
}

func (h *SubjectHandler) Delete(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	if err := h.subjects.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "subject deleted"})
}

func (h *SubjectHandler) Students(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	students, err := h.subjects.Students(c.UserContext(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(students)
}

func (h *SubjectHandler) StudentGrades(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}
	studentID, err := request.ID(c, "studentId")
	if err != nil {
		return err
	}

	grades, err := h.subjects.StudentGrades(c.UserContext(), caller, id, studentID)
	if err != nil {
		return err
	}
	return c.JSON(grades)
}

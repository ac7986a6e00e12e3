package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/dto"
	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/service"
	"github.com/AnthoniusHendriyanto/academy-service/internal/request"
)

type GradeHandler struct {
	grades *service.GradeService
}

func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

func (h *GradeHandler) Create(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var input dto.CreateGradeInput
	if err := request.Parse(c, &input); err != nil {
		return err
	}

	grade, err := h.grades.Create(c.UserContext(), caller, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(grade)
}

func (h *GradeHandler) List(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	grades, err := h.grades.List(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(grades)
}

func (h *GradeHandler) Get(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	grade, err := h.grades.Get(c.UserContext(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(grade)
}

func (h *GradeHandler) Update(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	var input dto.UpdateGradeInput
	if err := request.Parse(c, &input); err != nil {
		return err
	}

	grade, err := h.grades.Update(c.UserContext(), caller, id, input)
	if err != nil {
		return err
	}
	return c.JSON(grade)
}

func (h *GradeHandler) Delete(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	if err := h.grades.Delete(c.UserContext(), caller, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "grade deleted"})
}

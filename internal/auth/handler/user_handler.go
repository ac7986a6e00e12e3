package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/service"
	"github.com/AnthoniusHendriyanto/academy-service/internal/request"
)

// UserHandler serves user administration.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input dto.CreateUserInput
	if err := request.Bind(c, &input); err != nil {
		return err
	}

	user, err := h.userService.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	var input dto.UpdateUserInput
	if err := request.Bind(c, &input); err != nil {
		return err
	}

	user, err := h.userService.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}

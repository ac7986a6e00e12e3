package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
)

// ErrorHandler is the fiber.Config ErrorHandler. Every error leaves the
// service as {"error": message}; internal details are only logged.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	status := autherror.StatusCode(err)
	if status >= fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(fiber.Map{"error": autherror.Message(err)})
}

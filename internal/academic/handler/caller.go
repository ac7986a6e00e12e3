package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/domain"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
	"github.com/AnthoniusHendriyanto/academy-service/internal/middleware"
)

func callerFrom(c *fiber.Ctx) (domain.Caller, error) {
	identity, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.Caller{}, autherror.New(autherror.ErrUnauthorized, "unauthorized")
	}
	return domain.Caller{ID: identity.UserID, Role: identity.Role}, nil
}

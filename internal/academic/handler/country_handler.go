package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/service"
)

type CountryHandler struct {
	countries *service.CountryService
}

func NewCountryHandler(countries *service.CountryService) *CountryHandler {
	return &CountryHandler{countries: countries}
}

func (h *CountryHandler) List(c *fiber.Ctx) error {
	countries, err := h.countries.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(countries)
}

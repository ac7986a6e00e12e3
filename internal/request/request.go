// Package request decodes and validates fiber request input.
package request

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
	"github.com/AnthoniusHendriyanto/academy-service/internal/validation"
)

// Bind parses the JSON body into dst and validates it.
func Bind(c *fiber.Ctx, dst any) error {
	if err := Parse(c, dst); err != nil {
		return err
	}
	return validation.Struct(dst)
}

// Parse only decodes the body. Handlers use it when the service has to
// authorize the caller before the input is judged.
func Parse(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return autherror.Validation("invalid request body")
	}
	return nil
}

// ID reads a positive integer route parameter.
func ID(c *fiber.Ctx, key string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, autherror.Validation("invalid " + key)
	}
	return id, nil
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
	"github.com/AnthoniusHendriyanto/academy-service/pkg/constant"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID int64
	Role   domain.Role
}

// Authenticate verifies the access token from the accessToken cookie or the
// Authorization header and stores the caller in c.Locals.
func Authenticate(tokens service.TokenGenerator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(constant.AccessTokenCookie)
		if token == "" {
			token, _ = bearerToken(c.Get(fiber.HeaderAuthorization))
		}
		if token == "" {
			return autherror.New(autherror.ErrUnauthorized, "access token missing")
		}

		claims, err := tokens.VerifyAccessToken(token)
		if err != nil {
			return err
		}
		userID, err := claims.UserID()
		if err != nil {
			return autherror.WithReason(autherror.ErrUnauthorized, autherror.ErrTokenInvalid, "invalid token")
		}

		c.Locals(constant.LocalsUserID, userID)
		c.Locals(constant.LocalsRole, domain.Role(claims.Role))
		return c.Next()
	}
}

// Authorize must run after Authenticate.
func Authorize(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CurrentUser(c)
		if !ok {
			return autherror.New(autherror.ErrUnauthorized, "unauthorized")
		}
		for _, role := range roles {
			if caller.Role == role {
				return c.Next()
			}
		}
		return autherror.New(autherror.ErrForbidden, "insufficient permissions")
	}
}

func CurrentUser(c *fiber.Ctx) (Identity, bool) {
	userID, ok := c.Locals(constant.LocalsUserID).(int64)
	if !ok {
		return Identity{}, false
	}
	role, ok := c.Locals(constant.LocalsRole).(domain.Role)
	if !ok || role == "" {
		return Identity{}, false
	}
	return Identity{UserID: userID, Role: role}, true
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}

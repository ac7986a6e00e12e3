package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/service"
	"github.com/AnthoniusHendriyanto/academy-service/internal/middleware"
)

// RegisterRoutes mounts /auth and /users on router, normally the /api group.
func RegisterRoutes(router fiber.Router, h *AuthHandler, u *UserHandler, tokens service.TokenGenerator, limiter *middleware.RateLimiter) {
	limit := limiter.Handler()
	authenticate := middleware.Authenticate(tokens)

	auth := router.Group("/auth")
	auth.Post("/login", limit, h.Login)
	auth.Post("/verify-otp-login", limit, h.VerifyOtpLogin)
	auth.Post("/register", limit, h.Register)
	auth.Post("/refresh", limit, h.Refresh)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", authenticate, h.Me)

	// Admin-only endpoints
	users := router.Group("/users", authenticate, middleware.Authorize(domain.RoleAdministrator))
	users.Post("/", u.Create)
	users.Get("/", u.List)
	users.Get("/:id", u.Get)
	users.Patch("/:id", u.Update)
	users.Delete("/:id", u.Delete)
}

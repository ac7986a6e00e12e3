package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
	"github.com/AnthoniusHendriyanto/academy-service/internal/middleware"
	"github.com/AnthoniusHendriyanto/academy-service/internal/request"
	"github.com/AnthoniusHendriyanto/academy-service/pkg/constant"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	cookies     *CookieWriter
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, cookies *CookieWriter) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, cookies: cookies}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := request.Bind(c, &input); err != nil {
		return err
	}

	user, err := h.userService.Register(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login is phase one: the password is checked and an OTP issued. The OTP is
// returned in the body until a delivery channel exists.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := request.Bind(c, &input); err != nil {
		return err
	}
	input.IPAddress = c.IP()

	otp, err := h.authService.PreLogin(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.JSON(dto.PreLoginResponse{
		Message: "otp generated, verify it to complete login",
		Otp:     otp,
	})
}

func (h *AuthHandler) VerifyOtpLogin(c *fiber.Ctx) error {
	var input dto.VerifyOtpInput
	if err := request.Bind(c, &input); err != nil {
		return err
	}
	input.IPAddress = c.IP()

	resp, err := h.authService.VerifyOtpLogin(c.UserContext(), input)
	if err != nil {
		return err
	}

	h.cookies.SetTokens(c, resp.AccessToken, resp.RefreshToken)
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := refreshTokenFrom(c)
	if token == "" {
		return autherror.New(autherror.ErrUnauthorized, "refresh token missing")
	}

	accessToken, err := h.authService.RotateAccess(c.UserContext(), token)
	if err != nil {
		return err
	}

	h.cookies.SetAccess(c, accessToken)
	return c.JSON(dto.RefreshResponse{AccessToken: accessToken})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), refreshTokenFrom(c)); err != nil {
		return err
	}

	h.cookies.Clear(c)
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return autherror.New(autherror.ErrUnauthorized, "unauthorized")
	}

	user, err := h.userService.Me(c.UserContext(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// refreshTokenFrom prefers the cookie and falls back to a JSON body for
// clients that cannot hold cookies.
func refreshTokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies(constant.RefreshTokenCookie); token != "" {
		return token
	}
	if len(c.Body()) == 0 {
		return ""
	}

	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return ""
	}
	return input.RefreshToken
}

package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/academy-service/pkg/constant"
)

// CookieWriter sets and clears the auth cookies. Production cookies are
// Secure and SameSite=None so a separately hosted frontend can send them.
type CookieWriter struct {
	production bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCookieWriter(production bool, accessTTL, refreshTTL time.Duration) *CookieWriter {
	return &CookieWriter{production: production, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (w *CookieWriter) SetTokens(c *fiber.Ctx, accessToken, refreshToken string) {
	w.SetAccess(c, accessToken)
	c.Cookie(w.cookie(constant.RefreshTokenCookie, refreshToken, constant.RefreshTokenCookiePath, w.refreshTTL))
}

func (w *CookieWriter) SetAccess(c *fiber.Ctx, accessToken string) {
	c.Cookie(w.cookie(constant.AccessTokenCookie, accessToken, constant.AccessTokenCookiePath, w.accessTTL))
}

func (w *CookieWriter) Clear(c *fiber.Ctx) {
	for _, cookie := range []*fiber.Cookie{
		w.cookie(constant.AccessTokenCookie, "", constant.AccessTokenCookiePath, 0),
		w.cookie(constant.RefreshTokenCookie, "", constant.RefreshTokenCookiePath, 0),
	} {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		c.Cookie(cookie)
	}
}

func (w *CookieWriter) cookie(name, value, path string, ttl time.Duration) *fiber.Cookie {
	sameSite := fiber.CookieSameSiteLaxMode
	if w.production {
		sameSite = fiber.CookieSameSiteNoneMode
	}

	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		Secure:   w.production,
		HTTPOnly: true,
		SameSite: sameSite,
	}
}

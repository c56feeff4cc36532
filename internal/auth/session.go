package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	AccessCookieName  = "token"
	RefreshCookieName = "refreshToken"
)

// ExtractToken reads a bearer credential, preferring the named cookie and
// falling back to an "Authorization: Bearer" header. It returns "" when neither is present.
func ExtractToken(c *fiber.Ctx, cookieName string) string {
	if token := strings.TrimSpace(c.Cookies(cookieName)); token != "" {
		return token
	}
	return bearerToken(c.Get(fiber.HeaderAuthorization))
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CookieWriter sets and clears the session cookies.
type CookieWriter struct {
	Secure bool
}

// SetSessionCookies stores both tokens as HttpOnly, SameSite=Strict cookies.
func (w CookieWriter) SetSessionCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(w.cookie(AccessCookieName, accessToken, int(AccessTokenTTL/time.Second)))
	c.Cookie(w.cookie(RefreshCookieName, refreshToken, int(RefreshTokenTTL/time.Second)))
}

// ClearSessionCookies expires both session cookies.
func (w CookieWriter) ClearSessionCookies(c *fiber.Ctx) {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		cookie := w.cookie(name, "", 0)
		cookie.Expires = time.Unix(0, 0)
		c.Cookie(cookie)
	}
}

func (w CookieWriter) cookie(name, value string, maxAge int) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   w.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

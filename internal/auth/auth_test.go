package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/policy"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret")
	ids := []domain.Identity{
		{UserID: "5f0c7a9e-0000-4000-8000-000000000001", Role: domain.RoleTenant},
		{UserID: "admin", Role: domain.RoleAdmin},
	}
	for _, id := range ids {
		access, exp, err := tm.IssueAccessToken(id)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(AccessTokenTTL), exp, 5*time.Second)

		claims, ok := tm.Verify(access, domain.TokenKindAccess)
		require.True(t, ok)
		assert.Equal(t, id, claims.Identity())

		refresh, exp, err := tm.IssueRefreshToken(id)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(RefreshTokenTTL), exp, 5*time.Second)

		claims, ok = tm.Verify(refresh, domain.TokenKindRefresh)
		require.True(t, ok)
		assert.Equal(t, id, claims.Identity())
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret")
	token, _, err := tm.IssueAccessToken(domain.Identity{UserID: "u1", Role: domain.RoleTenant})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, ok := tm.Verify(tampered, domain.TokenKindAccess)
	assert.False(t, ok)

	_, ok = tm.Verify("not-a-jwt", domain.TokenKindAccess)
	assert.False(t, ok)

	_, ok = tm.Verify("", domain.TokenKindAccess)
	assert.False(t, ok)

	other := NewTokenManager("different", "")
	_, ok = other.Verify(token, domain.TokenKindAccess)
	assert.False(t, ok)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret")
	tm.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := tm.IssueAccessToken(domain.Identity{UserID: "u1", Role: domain.RoleTenant})
	require.NoError(t, err)

	tm.now = time.Now
	_, ok := tm.Verify(token, domain.TokenKindAccess)
	assert.False(t, ok)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	distinct := NewTokenManager("access-secret", "refresh-secret")
	refresh, _, err := distinct.IssueRefreshToken(domain.Identity{UserID: "u1", Role: domain.RoleTenant})
	require.NoError(t, err)
	_, ok := distinct.Verify(refresh, domain.TokenKindAccess)
	assert.False(t, ok)

	shared := NewTokenManager("same-secret", "")
	refresh, _, err = shared.IssueRefreshToken(domain.Identity{UserID: "u1", Role: domain.RoleTenant})
	require.NoError(t, err)
	_, ok = shared.Verify(refresh, domain.TokenKindAccess)
	assert.False(t, ok, "refresh token must not pass as an access token even with a shared key")
	_, ok = shared.Verify(refresh, domain.TokenKindRefresh)
	assert.True(t, ok)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("pw123456", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "pw123456"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func TestExtractToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(ExtractToken(c, AccessCookieName))
	})

	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"cookie only", "cookie-token", "", "cookie-token"},
		{"cookie wins", "cookie-token", "Bearer header-token", "cookie-token"},
		{"header fallback", "", "Bearer header-token", "header-token"},
		{"case insensitive scheme", "", "bEaReR header-token", "header-token"},
		{"other scheme", "", "Basic abc", ""},
		{"nothing", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestCookieWriter(t *testing.T) {
	app := fiber.New()
	w := CookieWriter{Secure: true}
	app.Get("/set", func(c *fiber.Ctx) error {
		w.SetSessionCookies(c, "a", "r")
		return nil
	})
	app.Get("/clear", func(c *fiber.Ctx) error {
		w.ClearSessionCookies(c)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil), -1)
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.Len(t, cookies, 2)
	byName := map[string]*http.Cookie{}
	for _, ck := range cookies {
		byName[ck.Name] = ck
	}
	assert.Equal(t, "a", byName[AccessCookieName].Value)
	assert.Equal(t, 900, byName[AccessCookieName].MaxAge)
	assert.True(t, byName[AccessCookieName].HttpOnly)
	assert.True(t, byName[AccessCookieName].Secure)
	assert.Equal(t, http.SameSiteStrictMode, byName[AccessCookieName].SameSite)
	assert.Equal(t, 2592000, byName[RefreshCookieName].MaxAge)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/clear", nil), -1)
	require.NoError(t, err)
	for _, ck := range resp.Cookies() {
		assert.Empty(t, ck.Value)
	}
	assert.Len(t, resp.Cookies(), 2)
}

func errorStatusHandler(c *fiber.Ctx, err error) error {
	domainErr := apperrors.ToDomainError(err)
	return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
}

func TestAuthMiddlewareAndRequireAction(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret")
	engine, err := policy.NewEngine(context.Background())
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: errorStatusHandler})
	mw := NewAuthMiddleware(tm)
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		id, _ := IdentityFromContext(c)
		return c.SendString(id.UserID)
	})
	app.Get("/users", mw.Handle, RequireAction(engine, policy.ActionUserList), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	tenantToken, _, _ := tm.IssueAccessToken(domain.Identity{UserID: "t1", Role: domain.RoleTenant})
	adminToken, _, _ := tm.IssueAccessToken(domain.Identity{UserID: "a1", Role: domain.RoleAdmin})
	refreshToken, _, _ := tm.IssueRefreshToken(domain.Identity{UserID: "t1", Role: domain.RoleTenant})

	call := func(path, bearer string) (int, string) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	status, body := call("/me", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeUnauthenticated, body)

	status, _ = call("/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call("/me", refreshToken)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call("/me", tenantToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "t1", body)

	status, body = call("/users", tenantToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeForbidden, body)

	status, _ = call("/users", adminToken)
	assert.Equal(t, http.StatusOK, status)
}

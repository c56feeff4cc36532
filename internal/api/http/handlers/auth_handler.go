package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/carnage999-max/ultimate-app-manager/internal/api/dto"
	"github.com/carnage999-max/ultimate-app-manager/internal/auth"
	"github.com/carnage999-max/ultimate-app-manager/internal/service"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

// AuthHandler exposes registration, login and session endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	cookies auth.CookieWriter
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies auth.CookieWriter) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	res, err := h.auth.Register(c.UserContext(), service.RegisterInput{Email: req.Email, Password: req.Password, Name: req.Name})
	if err != nil {
		return err
	}
	h.cookies.SetSessionCookies(c, res.AccessToken, res.RefreshToken)
	return c.Status(http.StatusCreated).JSON(authResponse(res))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.cookies.SetSessionCookies(c, res.AccessToken, res.RefreshToken)
	return c.JSON(authResponse(res))
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only clears cookies.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookies.ClearSessionCookies(c)
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Refresh handles POST /auth/refresh. The token comes from the refreshToken
// cookie, a bearer header or the JSON body, in that order.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := auth.ExtractToken(c, auth.RefreshCookieName)
	if token == "" && len(c.Body()) > 0 {
		var req dto.RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			token = req.RefreshToken
		}
	}

	pair, err := h.auth.Refresh(c.UserContext(), token)
	if err != nil {
		return err
	}
	h.cookies.SetSessionCookies(c, pair.AccessToken, pair.RefreshToken)
	return c.JSON(dto.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Me(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserEnvelope{User: dto.NewUserResponse(user)})
}

// Update handles PATCH /auth/update.
func (h *AuthHandler) Update(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	user, err := h.auth.UpdateProfile(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserEnvelope{User: dto.NewUserResponse(user)})
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	if err := h.auth.ChangePassword(c.UserContext(), id, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

func authResponse(res *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User:         dto.NewUserResponse(res.User),
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}
}

func invalidPayload() error {
	return apperrors.NewValidationError("invalid payload", nil)
}

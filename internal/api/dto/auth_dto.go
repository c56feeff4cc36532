package dto

// RegisterRequest payload for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest lets non-browser clients send the refresh token in the body.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileRequest payload for PATCH /auth/update.
type UpdateProfileRequest struct {
	Name *string `json:"name"`
}

// ChangePasswordRequest payload for POST /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// TokenResponse is returned by refresh.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserEnvelope wraps a single user as {"user": ...}.
type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// SuccessResponse is {"success": true}.
type SuccessResponse struct {
	Success bool `json:"success"`
}

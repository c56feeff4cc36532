package dto

import (
	"time"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
)

// UserResponse is the public view of an account. The password hash never leaves the service.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// TenantSummary is embedded in lease and ticket payloads.
type TenantSummary struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
}

func NewUserList(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

func newTenantSummary(s *domain.UserSummary) *TenantSummary {
	if s == nil {
		return nil
	}
	return &TenantSummary{ID: s.ID, Name: s.Name, Email: s.Email}
}

package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/auth"
	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/events"
	"github.com/carnage999-max/ultimate-app-manager/internal/repository"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

// AuthService coordinates registration, login and session renewal.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	BcryptCost int
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterInput is the self-service signup payload.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// TokenPair is a freshly issued access/refresh pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User *domain.User
	TokenPair
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		bcryptCost: deps.BcryptCost,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Register creates a TENANT account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("Missing Required Fields", nil)
	}
	if !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("invalid email", map[string]any{"field": "email"})
	}
	if len(input.Password) > maxPasswordBytes {
		return nil, apperrors.NewValidationError("password too long", map[string]any{"field": "password", "max_bytes": maxPasswordBytes})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("User already exists", nil)
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleTenant,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("User already exists", nil)
		}
		return nil, err
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	}))
	return &AuthResult{User: user, TokenPair: *pair}, nil
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("Missing Required Fields", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthenticated("Invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthenticated("Invalid credentials")
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, TokenPair: *pair}, nil
}

// Refresh exchanges a valid refresh token for a new pair. The user is re-read so
// deleted accounts cannot renew and role changes take effect.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.NewUnauthenticated("Missing refresh token")
	}
	claims, ok := s.tokens.Verify(refreshToken, domain.TokenKindRefresh)
	if !ok {
		return nil, apperrors.NewUnauthenticated("Invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthenticated("Invalid refresh token")
		}
		return nil, err
	}
	return s.issuePair(user)
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, id domain.Identity) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, notFoundAs(err, "User")
	}
	return user, nil
}

// UpdateProfile changes the display name. A missing or blank name is rejected.
func (s *AuthService) UpdateProfile(ctx context.Context, id domain.Identity, name *string) (*domain.User, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return nil, apperrors.NewValidationError("No changes provided", nil)
	}

	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, notFoundAs(err, "User")
	}
	user.Name = strings.TrimSpace(*name)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFoundAs(err, "User")
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, id domain.Identity, current, next string) error {
	if current == "" || next == "" {
		return apperrors.NewValidationError("Missing required fields", nil)
	}
	if len(next) > maxPasswordBytes {
		return apperrors.NewValidationError("password too long", map[string]any{"field": "newPassword", "max_bytes": maxPasswordBytes})
	}

	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		return notFoundAs(err, "User")
	}
	if err := auth.ComparePassword(user.PasswordHash, current); err != nil {
		return apperrors.NewValidationError("Invalid current password", map[string]any{"field": "currentPassword"})
	}

	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	return notFoundAs(s.users.Update(ctx, user), "User")
}

func (s *AuthService) issuePair(user *domain.User) (*TokenPair, error) {
	id := domain.Identity{UserID: user.ID, Role: user.Role}
	access, _, err := s.tokens.IssueAccessToken(id)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refresh, _, err := s.tokens.IssueRefreshToken(id)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

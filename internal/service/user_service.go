package service

import (
	"context"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/policy"
	"github.com/carnage999-max/ultimate-app-manager/internal/repository"
)

// UserService exposes the account directory to admins.
type UserService struct {
	users repository.UserRepository
	authz policy.Authorizer
}

func NewUserService(users repository.UserRepository, authz policy.Authorizer) *UserService {
	return &UserService{users: users, authz: authz}
}

// List returns every account.
func (s *UserService) List(ctx context.Context, id domain.Identity) ([]domain.User, error) {
	if err := s.authz.Authorize(ctx, id, policy.ActionUserList, policy.Resource{Kind: policy.KindUser}); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

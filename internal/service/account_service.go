package service

import (
	"context"
	"strings"

	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

// DeletionNotifier routes account deletion requests to a human.
type DeletionNotifier interface {
	NotifyAccountDeletion(ctx context.Context, name, email, reason string) error
}

// AccountService handles the public account deletion form. Accounts are never
// deleted automatically; support processes the request manually.
type AccountService struct {
	notifier DeletionNotifier
}

func NewAccountService(notifier DeletionNotifier) *AccountService {
	return &AccountService{notifier: notifier}
}

// RequestDeletion validates the form and forwards it to support.
func (s *AccountService) RequestDeletion(ctx context.Context, name, email, reason string) error {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" {
		return apperrors.NewValidationError("Name and email are required", nil)
	}
	if err := s.notifier.NotifyAccountDeletion(ctx, name, email, strings.TrimSpace(reason)); err != nil {
		return apperrors.NewUpstreamUnavailable("email", err)
	}
	return nil
}

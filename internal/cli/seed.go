package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carnage999-max/ultimate-app-manager/internal/auth"
	"github.com/carnage999-max/ultimate-app-manager/internal/config"
	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/repository"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

// SeedMode selects which accounts the seed command writes.
type SeedMode string

const (
	SeedAdmin    SeedMode = "admin"
	SeedReviewer SeedMode = "reviewer"
	SeedBoth     SeedMode = "both"
)

var reviewerRent = decimal.NewFromInt(1200)

// ParseSeedMode accepts admin, reviewer or both (the default for "").
func ParseSeedMode(raw string) (SeedMode, error) {
	switch mode := SeedMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		return SeedBoth, nil
	case SeedAdmin, SeedReviewer, SeedBoth:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown seed mode %q (want admin, reviewer or both)", raw)
	}
}

// SeededAccount is printed so the operator can sign in.
type SeededAccount struct {
	Role     domain.Role
	Email    string
	Password string
	Created  bool
}

// Seeder upserts the bootstrap admin and reviewer accounts.
type Seeder struct {
	users      repository.UserRepository
	leases     repository.LeaseRepository
	bcryptCost int
	now        func() time.Time
	password   func() string
}

func NewSeeder(users repository.UserRepository, leases repository.LeaseRepository, bcryptCost int) *Seeder {
	return &Seeder{
		users:      users,
		leases:     leases,
		bcryptCost: bcryptCost,
		now:        time.Now,
		password:   randomPassword,
	}
}

// Seed writes the accounts selected by mode. Existing accounts get their name,
// role and password reset. The reviewer gets a 12 month ACTIVE lease unless
// they already have one.
func (s *Seeder) Seed(ctx context.Context, mode SeedMode, cfg config.SeedConfig) ([]SeededAccount, error) {
	var out []SeededAccount

	if mode == SeedAdmin || mode == SeedBoth {
		account, _, err := s.upsert(ctx, cfg.AdminEmail, cfg.AdminPassword, "Administrator", domain.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		out = append(out, account)
	}

	if mode == SeedReviewer || mode == SeedBoth {
		account, user, err := s.upsert(ctx, cfg.ReviewerEmail, cfg.ReviewerPassword, "Reviewer", domain.RoleTenant)
		if err != nil {
			return nil, fmt.Errorf("seed reviewer: %w", err)
		}
		if err := s.ensureLease(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("seed reviewer lease: %w", err)
		}
		out = append(out, account)
	}
	return out, nil
}

func (s *Seeder) upsert(ctx context.Context, email, password, name string, role domain.Role) (SeededAccount, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if password == "" {
		password = s.password()
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return SeededAccount{}, nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		user.Name, user.Role, user.PasswordHash = name, role, hash
		if err := s.users.Update(ctx, user); err != nil {
			return SeededAccount{}, nil, err
		}
		return SeededAccount{Role: role, Email: email, Password: password}, user, nil
	case apperrors.IsNotFound(err):
		user = &domain.User{Email: email, Name: name, Role: role, PasswordHash: hash}
		if err := s.users.Create(ctx, user); err != nil {
			return SeededAccount{}, nil, err
		}
		return SeededAccount{Role: role, Email: email, Password: password, Created: true}, user, nil
	default:
		return SeededAccount{}, nil, err
	}
}

func (s *Seeder) ensureLease(ctx context.Context, tenantID string) error {
	existing, err := s.leases.List(ctx, repository.LeaseFilter{TenantID: &tenantID})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	start := s.now().UTC().Truncate(24 * time.Hour)
	return s.leases.Create(ctx, &domain.Lease{
		StartDate:  start,
		EndDate:    start.AddDate(0, 12, 0),
		RentAmount: reviewerRent,
		Status:     domain.LeaseStatusActive,
		TenantID:   tenantID,
	})
}

func randomPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

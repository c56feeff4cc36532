package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/policy"
	"github.com/carnage999-max/ultimate-app-manager/internal/repository"
	"github.com/carnage999-max/ultimate-app-manager/internal/storage"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

// DocumentURLTTL bounds presigned lease document downloads.
const DocumentURLTTL = 10 * time.Minute

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// LeaseService coordinates lease workflows.
type LeaseService struct {
	leases    repository.LeaseRepository
	users     repository.UserRepository
	authz     policy.Authorizer
	presigner storage.Presigner
	logger    *zap.Logger
}

// LeaseDependencies bundles collaborators for the lease service.
type LeaseDependencies struct {
	LeaseRepo  repository.LeaseRepository
	UserRepo   repository.UserRepository
	Authorizer policy.Authorizer
	Presigner  storage.Presigner
	Logger     *zap.Logger
}

// LeaseInput carries create and patch fields. Nil means "not provided".
type LeaseInput struct {
	Name        *string
	StartDate   *string
	EndDate     *string
	RentAmount  *decimal.Decimal
	Status      *string
	DocumentURL *string
	TenantEmail *string
}

// NewLeaseService constructs the service.
func NewLeaseService(deps LeaseDependencies) *LeaseService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	presigner := deps.Presigner
	if presigner == nil {
		presigner = storage.Unconfigured{}
	}
	return &LeaseService{
		leases:    deps.LeaseRepo,
		users:     deps.UserRepo,
		authz:     deps.Authorizer,
		presigner: presigner,
		logger:    logger,
	}
}

// List returns every lease to admins and only their own to tenants.
func (s *LeaseService) List(ctx context.Context, id domain.Identity) ([]domain.Lease, error) {
	if err := s.authz.Authorize(ctx, id, policy.ActionLeaseList, policy.Resource{Kind: policy.KindLease}); err != nil {
		return nil, err
	}
	filter := repository.LeaseFilter{}
	if !id.IsAdmin() {
		filter.TenantID = &id.UserID
	}
	return s.leases.List(ctx, filter)
}

// Get loads one lease the caller may read.
func (s *LeaseService) Get(ctx context.Context, id domain.Identity, leaseID string) (*domain.Lease, error) {
	lease, err := s.leases.GetByID(ctx, leaseID)
	if err != nil {
		return nil, notFoundAs(err, "Lease")
	}
	if err := s.authz.Authorize(ctx, id, policy.ActionLeaseRead, policy.LeaseResource(lease)); err != nil {
		return nil, err
	}
	return lease, nil
}

// Create records a lease for the tenant identified by email.
func (s *LeaseService) Create(ctx context.Context, id domain.Identity, in LeaseInput) (*domain.Lease, error) {
	if err := s.authz.Authorize(ctx, id, policy.ActionLeaseCreate, policy.Resource{Kind: policy.KindLease}); err != nil {
		return nil, err
	}

	missing := []string{}
	if in.StartDate == nil {
		missing = append(missing, "startDate")
	}
	if in.EndDate == nil {
		missing = append(missing, "endDate")
	}
	if in.RentAmount == nil {
		missing = append(missing, "rentAmount")
	}
	if in.TenantEmail == nil || strings.TrimSpace(*in.TenantEmail) == "" {
		missing = append(missing, "tenantEmail")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("Missing Required Fields", map[string]any{"fields": missing})
	}

	lease := &domain.Lease{Status: domain.LeaseStatusActive}
	if err := s.apply(ctx, lease, in); err != nil {
		return nil, err
	}
	if err := s.leases.Create(ctx, lease); err != nil {
		return nil, notFoundAs(err, "Tenant")
	}
	return lease, nil
}

// Update patches the provided fields of a lease.
func (s *LeaseService) Update(ctx context.Context, id domain.Identity, leaseID string, in LeaseInput) (*domain.Lease, error) {
	if err := s.authz.Authorize(ctx, id, policy.ActionLeaseUpdate, policy.Resource{Kind: policy.KindLease}); err != nil {
		return nil, err
	}
	lease, err := s.leases.GetByID(ctx, leaseID)
	if err != nil {
		return nil, notFoundAs(err, "Lease")
	}

	if err := s.apply(ctx, lease, in); err != nil {
		return nil, err
	}
	if err := s.leases.Update(ctx, lease); err != nil {
		return nil, notFoundAs(err, "Lease")
	}
	return lease, nil
}

// Delete removes a lease.
func (s *LeaseService) Delete(ctx context.Context, id domain.Identity, leaseID string) error {
	if err := s.authz.Authorize(ctx, id, policy.ActionLeaseDelete, policy.Resource{Kind: policy.KindLease}); err != nil {
		return err
	}
	return notFoundAs(s.leases.Delete(ctx, leaseID), "Lease")
}

// DocumentURL resolves a downloadable link for the lease document. Absolute
// http(s) URLs are returned as stored, anything else is treated as an object key.
func (s *LeaseService) DocumentURL(ctx context.Context, id domain.Identity, leaseID string) (string, error) {
	lease, err := s.leases.GetByID(ctx, leaseID)
	if err != nil {
		return "", notFoundAs(err, "Lease")
	}
	if err := s.authz.Authorize(ctx, id, policy.ActionLeaseDownload, policy.LeaseResource(lease)); err != nil {
		return "", err
	}
	if lease.DocumentURL == nil || strings.TrimSpace(*lease.DocumentURL) == "" {
		return "", apperrors.NewNotFound("Lease document", map[string]any{"lease_id": lease.ID})
	}

	doc := strings.TrimSpace(*lease.DocumentURL)
	if absoluteURL.MatchString(doc) {
		return doc, nil
	}

	url, err := s.presigner.PresignDownload(ctx, strings.TrimPrefix(doc, "/"), DocumentURLTTL)
	if err != nil {
		return "", apperrors.NewUpstreamUnavailable("storage", err)
	}
	return url, nil
}

func (s *LeaseService) apply(ctx context.Context, lease *domain.Lease, in LeaseInput) error {
	if in.StartDate != nil {
		start, err := ParseLeaseDate(*in.StartDate)
		if err != nil {
			return apperrors.NewValidationError("invalid startDate", map[string]any{"field": "startDate"})
		}
		lease.StartDate = start
	}
	if in.EndDate != nil {
		end, err := ParseLeaseDate(*in.EndDate)
		if err != nil {
			return apperrors.NewValidationError("invalid endDate", map[string]any{"field": "endDate"})
		}
		lease.EndDate = end
	}
	if lease.EndDate.Before(lease.StartDate) {
		return apperrors.NewValidationError("endDate must not be before startDate", map[string]any{"field": "endDate"})
	}

	if in.RentAmount != nil {
		if in.RentAmount.IsNegative() {
			return apperrors.NewValidationError("rentAmount must be zero or greater", map[string]any{"field": "rentAmount"})
		}
		lease.RentAmount = in.RentAmount.Round(2)
	}
	if in.Status != nil {
		status := domain.LeaseStatus(strings.ToUpper(strings.TrimSpace(*in.Status)))
		if !status.Valid() {
			return apperrors.NewValidationError("invalid status", map[string]any{"field": "status", "allowed": []domain.LeaseStatus{
				domain.LeaseStatusActive, domain.LeaseStatusInactive, domain.LeaseStatusEnded,
			}})
		}
		lease.Status = status
	}
	if in.Name != nil {
		lease.Name = optionalString(*in.Name)
	}
	if in.DocumentURL != nil {
		lease.DocumentURL = optionalString(*in.DocumentURL)
	}

	if in.TenantEmail != nil && strings.TrimSpace(*in.TenantEmail) != "" {
		tenant, err := s.users.GetByEmail(ctx, NormalizeEmail(*in.TenantEmail))
		if err != nil {
			return notFoundAs(err, "Tenant")
		}
		lease.TenantID = tenant.ID
		lease.Tenant = &domain.UserSummary{ID: tenant.ID, Name: tenant.Name, Email: tenant.Email}
	}
	return nil
}

// ParseLeaseDate accepts a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp.
func ParseLeaseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

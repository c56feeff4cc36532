package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

func aliceLeaseInput() LeaseInput {
	return LeaseInput{
		StartDate:   ptr("2026-01-01"),
		EndDate:     ptr("2026-12-31"),
		RentAmount:  ptr(decimal.NewFromInt(1200)),
		TenantEmail: ptr("alice@example.com"),
	}
}

func TestLeaseVisibilityScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	alice := h.register(t, "Alice", "alice@example.com")
	bob := h.register(t, "Bob", "bob@example.com")
	admin := h.admin(t)

	lease, err := h.leases.Create(ctx, admin, aliceLeaseInput())
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, lease.TenantID)
	assert.Equal(t, domain.LeaseStatusActive, lease.Status)
	assert.Equal(t, "1200.00", lease.RentAmount.StringFixed(2))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), lease.StartDate)
	require.NotNil(t, lease.Tenant)
	assert.Equal(t, "alice@example.com", lease.Tenant.Email)

	forAlice, err := h.leases.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, forAlice, 1)
	assert.Equal(t, lease.ID, forAlice[0].ID)
	require.NotNil(t, forAlice[0].Tenant)
	assert.Equal(t, "alice@example.com", forAlice[0].Tenant.Email)

	forBob, err := h.leases.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, forBob)

	forAdmin, err := h.leases.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, forAdmin, 1)

	got, err := h.leases.Get(ctx, alice, lease.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, got.TenantID)

	_, err = h.leases.Get(ctx, bob, lease.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	_, err = h.leases.Get(ctx, alice, "not-a-uuid")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestLeaseWritesAreAdminOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "Alice", "alice@example.com")
	admin := h.admin(t)

	_, err := h.leases.Create(ctx, alice, aliceLeaseInput())
	requireCode(t, err, apperrors.CodeForbidden)

	lease, err := h.leases.Create(ctx, admin, aliceLeaseInput())
	require.NoError(t, err)

	_, err = h.leases.Update(ctx, alice, lease.ID, LeaseInput{Status: ptr("ENDED")})
	requireCode(t, err, apperrors.CodeForbidden)
	err = h.leases.Delete(ctx, alice, lease.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	// Role is checked before existence so tenants cannot probe ids.
	_, err = h.leases.Update(ctx, alice, "00000000-0000-4000-8000-000000000000", LeaseInput{})
	requireCode(t, err, apperrors.CodeForbidden)

	require.NoError(t, h.leases.Delete(ctx, admin, lease.ID))
	err = h.leases.Delete(ctx, admin, lease.ID)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestLeaseCreateValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "Alice", "alice@example.com")
	admin := h.admin(t)

	tests := []struct {
		name   string
		mutate func(*LeaseInput)
		code   string
	}{
		{"missing rent", func(in *LeaseInput) { in.RentAmount = nil }, apperrors.CodeValidation},
		{"missing tenant", func(in *LeaseInput) { in.TenantEmail = nil }, apperrors.CodeValidation},
		{"bad start date", func(in *LeaseInput) { in.StartDate = ptr("2026-13-45") }, apperrors.CodeValidation},
		{"end before start", func(in *LeaseInput) { in.EndDate = ptr("2025-12-31") }, apperrors.CodeValidation},
		{"negative rent", func(in *LeaseInput) { in.RentAmount = ptr(decimal.NewFromInt(-1)) }, apperrors.CodeValidation},
		{"bad status", func(in *LeaseInput) { in.Status = ptr("PAUSED") }, apperrors.CodeValidation},
		{"unknown tenant", func(in *LeaseInput) { in.TenantEmail = ptr("ghost@example.com") }, apperrors.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := aliceLeaseInput()
			tt.mutate(&in)
			_, err := h.leases.Create(ctx, admin, in)
			requireCode(t, err, tt.code)
		})
	}
}

func TestLeaseUpdateReassignsTenant(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "Alice", "alice@example.com")
	bob := h.register(t, "Bob", "bob@example.com")
	admin := h.admin(t)

	lease, err := h.leases.Create(ctx, admin, aliceLeaseInput())
	require.NoError(t, err)

	updated, err := h.leases.Update(ctx, admin, lease.ID, LeaseInput{
		TenantEmail: ptr("BOB@example.com"),
		RentAmount:  ptr(decimal.RequireFromString("1350.555")),
		Status:      ptr("inactive"),
	})
	require.NoError(t, err)
	assert.Equal(t, bob.UserID, updated.TenantID)
	assert.Equal(t, "1350.56", updated.RentAmount.StringFixed(2))
	assert.Equal(t, domain.LeaseStatusInactive, updated.Status)

	_, err = h.leases.Update(ctx, admin, lease.ID, LeaseInput{TenantEmail: ptr("ghost@example.com")})
	requireCode(t, err, apperrors.CodeNotFound)

	_, err = h.leases.Update(ctx, admin, lease.ID, LeaseInput{EndDate: ptr("2025-06-01")})
	requireCode(t, err, apperrors.CodeValidation)
}

func TestLeaseDocumentURL(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "Alice", "alice@example.com")
	bob := h.register(t, "Bob", "bob@example.com")
	admin := h.admin(t)

	lease, err := h.leases.Create(ctx, admin, aliceLeaseInput())
	require.NoError(t, err)

	_, err = h.leases.DocumentURL(ctx, alice, lease.ID)
	requireCode(t, err, apperrors.CodeNotFound)

	_, err = h.leases.Update(ctx, admin, lease.ID, LeaseInput{DocumentURL: ptr("https://docs.example/lease.pdf")})
	require.NoError(t, err)
	url, err := h.leases.DocumentURL(ctx, alice, lease.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example/lease.pdf", url)

	_, err = h.leases.Update(ctx, admin, lease.ID, LeaseInput{DocumentURL: ptr("/leases/alice.pdf")})
	require.NoError(t, err)
	url, err = h.leases.DocumentURL(ctx, alice, lease.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example/leases/alice.pdf?download", url)
	assert.Equal(t, "leases/alice.pdf", h.presigner.lastKey)
	assert.Equal(t, DocumentURLTTL, h.presigner.lastExpiry)

	_, err = h.leases.DocumentURL(ctx, bob, lease.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	h.presigner.err = errors.New("s3 down")
	_, err = h.leases.DocumentURL(ctx, admin, lease.ID)
	requireCode(t, err, apperrors.CodeUpstreamUnavailable)
}

func TestParseLeaseDate(t *testing.T) {
	d, err := ParseLeaseDate(" 2026-02-28 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseLeaseDate("2026-03-01T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), d)

	_, err = ParseLeaseDate("2026-02-30")
	assert.Error(t, err)
	_, err = ParseLeaseDate("")
	assert.Error(t, err)
}

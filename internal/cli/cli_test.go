package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carnage999-max/ultimate-app-manager/internal/auth"
	"github.com/carnage999-max/ultimate-app-manager/internal/config"
	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/repository"
	"github.com/carnage999-max/ultimate-app-manager/internal/repository/repotest"
)

func TestCommands(t *testing.T) {
	root := NewRootCmd()
	assert.Equal(t, "uamctl", root.Use)

	migrate, _, err := root.Find([]string{"migrate"})
	require.NoError(t, err)
	assert.Equal(t, "Apply pending database migrations", migrate.Short)
	assert.NotNil(t, migrate.Flags().Lookup("list"))

	seed, _, err := root.Find([]string{"seed"})
	require.NoError(t, err)
	assert.Equal(t, "seed [admin|reviewer|both]", seed.Use)
}

func TestMigrateListRunsOffline(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"migrate", "--list"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "0001_init.sql")
}

func TestSeedRejectsUnknownMode(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"seed", "everyone"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown seed mode")
}

func TestParseSeedMode(t *testing.T) {
	for raw, want := range map[string]SeedMode{"": SeedBoth, "ADMIN": SeedAdmin, " reviewer ": SeedReviewer, "both": SeedBoth} {
		got, err := ParseSeedMode(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func newTestSeeder(store *repotest.Store) *Seeder {
	s := NewSeeder(store.Users, store.Leases, 4)
	s.now = func() time.Time { return time.Date(2026, 3, 15, 13, 0, 0, 0, time.UTC) }
	return s
}

func TestSeedBoth(t *testing.T) {
	store := repotest.NewStore()
	seeder := newTestSeeder(store)
	ctx := context.Background()
	cfg := config.SeedConfig{AdminEmail: "Admin@Example.com", AdminPassword: "admin-pw", ReviewerEmail: "reviewer@example.com"}

	accounts, err := seeder.Seed(ctx, SeedBoth, cfg)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, domain.RoleAdmin, accounts[0].Role)
	assert.Equal(t, "admin@example.com", accounts[0].Email)
	assert.True(t, accounts[0].Created)
	assert.Len(t, accounts[1].Password, 16)

	admin, err := store.Users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(admin.PasswordHash, "admin-pw"))

	reviewer, err := store.Users.GetByEmail(ctx, "reviewer@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTenant, reviewer.Role)
	leases, err := store.Leases.List(ctx, repository.LeaseFilter{TenantID: &reviewer.ID})
	require.NoError(t, err)
	require.Len(t, leases, 1)
	assert.Equal(t, "1200.00", leases[0].RentAmount.StringFixed(2))
	assert.Equal(t, time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC), leases[0].EndDate)

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	PrintAccounts(cmd, accounts)
	assert.Equal(t, 4, strings.Count(out.String(), "\n"))
}

func TestSeedIsIdempotent(t *testing.T) {
	store := repotest.NewStore()
	seeder := newTestSeeder(store)
	ctx := context.Background()
	cfg := config.SeedConfig{ReviewerEmail: "reviewer@example.com", ReviewerPassword: "first"}

	_, err := seeder.Seed(ctx, SeedReviewer, cfg)
	require.NoError(t, err)

	cfg.ReviewerPassword = "second"
	accounts, err := seeder.Seed(ctx, SeedReviewer, cfg)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.False(t, accounts[0].Created)

	reviewer, err := store.Users.GetByEmail(ctx, "reviewer@example.com")
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(reviewer.PasswordHash, "second"))

	leases, err := store.Leases.List(ctx, repository.LeaseFilter{})
	require.NoError(t, err)
	assert.Len(t, leases, 1)
	users, err := store.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

package persistence

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationNamesAreOrdered(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init.sql", names[0])
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestMigrationsDefineCoreTables(t *testing.T) {
	var all strings.Builder
	names, err := MigrationNames()
	require.NoError(t, err)
	for _, name := range names {
		content, err := migrationFiles.ReadFile("migrations/" + name)
		require.NoError(t, err)
		all.Write(content)
	}
	sql := all.String()
	for _, table := range []string{"users", "leases", "maintenance_tickets", "payments"} {
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	applied, err := RunMigrations(context.Background(), nil, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, applied)
}

func TestPostgresPingWithoutPool(t *testing.T) {
	var pg *Postgres
	assert.ErrorIs(t, pg.Ping(context.Background()), ErrPostgresNotConfigured)
	assert.Error(t, (&Postgres{}).Ping(context.Background()))
}

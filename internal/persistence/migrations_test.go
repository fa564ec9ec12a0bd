package persistence

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := migrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	require.True(t, sort.StringsAreSorted(names))

	for _, name := range names {
		require.True(t, strings.HasSuffix(name, ".sql"), "unexpected migration file %s", name)

		content, err := migrationFS.ReadFile("migrations/" + name)
		require.NoError(t, err)
		require.NotEmpty(t, content)
	}
}

func TestEmbeddedMigrationsContainAuditSchema(t *testing.T) {
	content, err := migrationFS.ReadFile("migrations/001_create_auth_events.sql")
	require.NoError(t, err)
	require.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS auth_events")
}

func TestRunMigrationsWithoutPoolIsNoOp(t *testing.T) {
	require.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}

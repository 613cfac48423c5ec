//go:build integration

package migrations_test

import (
	"context"
	"testing"

	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/pantry/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrator_UpDown(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	// SetupTestDatabase has already applied every migration.
	td := testutils.SetupTestDatabase(t)

	db, err := migrations.Open(td.DSN)
	require.NoError(t, err)
	m, err := migrations.New(db, td.Name, zap.NewNop())
	require.NoError(t, err)
	defer m.Close()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, m.Up(), "re-running is a no-op")

	require.NoError(t, m.Down())
	var exists bool
	err = td.PgxPool.QueryRow(context.Background(),
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'ingredients')").Scan(&exists)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, m.Up())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

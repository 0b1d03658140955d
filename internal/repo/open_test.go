package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/version-tracker-api/internal/config"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()

	r, closeFn, err := Open(ctx, config.StoreConfig{Driver: config.DriverMemory, SeedDemo: true}, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(DemoVersions()))
}

func TestOpen_SQLiteSeedsOnce(t *testing.T) {
	ctx := context.Background()
	cfg := config.StoreConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "versions.db"),
		SeedDemo:   true,
	}

	for i := 0; i < 2; i++ {
		r, closeFn, err := Open(ctx, cfg, zap.NewNop())
		require.NoError(t, err)

		list, err := r.List(ctx)
		closeFn()
		require.NoError(t, err)
		assert.Len(t, list, len(DemoVersions()), "open #%d", i+1)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), config.StoreConfig{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestDemoVersions_AreValidRecords(t *testing.T) {
	for _, v := range DemoVersions() {
		assert.True(t, v.Priority.Valid(), v.Name)
		assert.True(t, v.Status.Valid(), v.Name)
		assert.False(t, v.EndDate.Before(v.StartDate), v.Name)
	}
}

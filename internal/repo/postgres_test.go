package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/version-tracker-api/internal/model"
	"github.com/BuzzLyutic/version-tracker-api/internal/testutil"
)

func TestPostgresRepo_Contract(t *testing.T) {
	pool, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	// CURRENT_DATE в контейнере считается в UTC
	today := model.DateOf(time.Now().UTC())

	runRepositoryContract(t, func(t *testing.T) VersionRepository {
		testutil.TruncateTables(t, pool)
		return NewPostgresRepo(pool)
	}, today)
}

func TestPostgresRepo_MigrateIsIdempotent(t *testing.T) {
	pool, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	require.NoError(t, Migrate(context.Background(), pool))
	require.NoError(t, Migrate(context.Background(), pool))
}

func TestPostgresRepo_ListOrderedByID(t *testing.T) {
	pool, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	testutil.TruncateTables(t, pool)
	ids := testutil.SeedVersions(t, pool, 5)

	list, err := NewPostgresRepo(pool).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, v := range list {
		assert.Equal(t, ids[i], v.ID)
		assert.Equal(t, 6, v.EndDate.DaysSince(v.StartDate))
	}
}

func TestPostgresRepo_ConstraintViolation(t *testing.T) {
	pool, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	testutil.TruncateTables(t, pool)

	in := sampleInput("bad")
	in.Progress = 150
	_, err := NewPostgresRepo(pool).Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrorConstraint)
}

package dummydb

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
)

func newRepo(t *testing.T) (*DB, camp.Repository) {
	db, err := Open()
	require.NoError(t, err)
	return db, NewCampRepository(db)
}

func TestCampRepository_QueryAllCamps(t *testing.T) {
	ctx := context.Background()
	_, repo := newRepo(t)

	for _, c := range []camp.Camp{
		{ID: "s1", Category: camp.CategorySport},
		{ID: "m1", Category: camp.CategoryMusic},
		{ID: "s2", Category: camp.CategorySport},
		{ID: "h1", Category: camp.CategoryHorse},
		{ID: "m2", Category: camp.CategoryMusic},
	} {
		_, err := repo.CreateCamp(ctx, c)
		require.NoError(t, err)
	}

	camps, err := repo.QueryAllCamps(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(camps))
	for _, c := range camps {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"h1", "m1", "m2", "s1", "s2"}, ids)
}

func TestCampRepository_CreateCamp(t *testing.T) {
	ctx := context.Background()
	db, repo := newRepo(t)

	in := camp.Camp{ID: "a", Title: "A", Category: camp.CategoryDance, Price: -1}
	stored, err := repo.CreateCamp(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Price)
	assert.Equal(t, []int{}, stored.DayIndices)
	assert.Equal(t, camp.ScheduleGrid, stored.Details.ScheduleType)

	// stored records are isolated from callers
	stored.AvailableWeeks = append(stored.AvailableWeeks, camp.Week2)
	got, err := repo.GetCampByID(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, got.AvailableWeeks)

	_, err = repo.CreateCamp(ctx, in)
	assert.True(t, core.IsStoreError(err))

	db.Fail(errors.New("connection refused"))
	_, err = repo.CreateCamp(ctx, camp.Camp{ID: "b"})
	require.Error(t, err)
	assert.Equal(t, "connection refused", err.Error())
	db.Fail(nil)

	camps, err := repo.QueryAllCamps(ctx)
	require.NoError(t, err)
	assert.Len(t, camps, 1)
}

func TestCampRepository_DeleteCamp(t *testing.T) {
	ctx := context.Background()
	_, repo := newRepo(t)
	_, err := repo.CreateCamp(ctx, camp.Camp{ID: "a"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteCamp(ctx, "a"))
	assert.Equal(t, camp.ErrNotFound, repo.DeleteCamp(ctx, "a"))
	_, err = repo.GetCampByID(ctx, "a")
	assert.Equal(t, camp.ErrNotFound, err)
}

func TestCampRepository_SubscribeToChanges(t *testing.T) {
	ctx := context.Background()
	_, repo := newRepo(t)

	changes := make(chan struct{}, 10)
	sub, err := repo.SubscribeToChanges(func() { changes <- struct{}{} })
	require.NoError(t, err)

	wait := func() {
		select {
		case <-changes:
		case <-time.After(time.Second):
			t.Fatal("change not delivered")
		}
	}

	_, err = repo.CreateCamp(ctx, camp.Camp{ID: "a"})
	require.NoError(t, err)
	wait()
	require.NoError(t, repo.DeleteCamp(ctx, "a"))
	wait()

	sub.Stop()
	_, err = repo.CreateCamp(ctx, camp.Camp{ID: "b"})
	require.NoError(t, err)
	select {
	case <-changes:
		t.Error("change delivered after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	_, repo := newRepo(t)

	require.NoError(t, Seed(ctx, repo))
	require.NoError(t, Seed(ctx, repo)) // no-op once seeded

	camps, err := repo.QueryAllCamps(ctx)
	require.NoError(t, err)
	require.Len(t, camps, len(demoCamps()))
	for _, c := range camps {
		assert.True(t, c.Category.IsStored(), c.ID)
		assert.NotEmpty(t, c.AvailableWeeks, c.ID)
	}
}

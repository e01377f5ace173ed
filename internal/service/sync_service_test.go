package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/repository"
	"github.com/alexanderramin/agileplanner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncService_StoresSnapshot(t *testing.T) {
	database := testutil.NewTestDB(t)
	fake := testutil.NewFakeBacklog()
	svc := NewSyncService(fake, "http://backlog.test", testutil.NewTestUoW(database))
	ctx := context.Background()

	snap, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, int32(5), fake.Calls.Load())

	stored, err := repository.NewSQLiteSnapshotRepo(database).Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, stored.ID)
	assert.Equal(t, "http://backlog.test", stored.Source)
	assert.Equal(t, fake.RemainingItems, stored.Remaining)
	assert.Len(t, stored.AvailableSprints, 5)

	infos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 3, infos[0].SprintCount)
}

func TestSyncService_OfflineSourceReplaysSnapshot(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	_, err := NewSyncService(testutil.NewFakeBacklog(), "test", testutil.NewTestUoW(database)).Sync(ctx)
	require.NoError(t, err)

	offline := repository.NewSnapshotSource(repository.NewSQLiteSnapshotRepo(database))
	report, err := NewVelocityService(offline).Velocity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, report.Velocity.Average)
}

func TestSyncService_FetchErrorStoresNothing(t *testing.T) {
	database := testutil.NewTestDB(t)
	fake := testutil.NewFakeBacklog()
	fake.Err = errors.New("unreachable")
	svc := NewSyncService(fake, "test", testutil.NewTestUoW(database))

	_, err := svc.Sync(context.Background())
	require.Error(t, err)

	infos, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestSyncService_RollbackOnPartialWrite(t *testing.T) {
	database := testutil.NewTestDB(t)
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 5,
		Err:    fmt.Errorf("injected story insert failure"),
	}
	svc := NewSyncService(testutil.NewFakeBacklog(), "test", failUoW)

	_, err := svc.Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected story insert failure")

	infos, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos, "a failed sync must not leave a partial snapshot")
}

func TestSyncService_RejectsInvalidCollections(t *testing.T) {
	tests := map[string]func(*testutil.FakeBacklog){
		"planned": func(f *testutil.FakeBacklog) { f.Planned = testutil.Stories("planned", 5, -1) },
		"remaining": func(f *testutil.FakeBacklog) {
			f.RemainingItems = testutil.Stories("remaining", -2)
		},
		"history": func(f *testutil.FakeBacklog) { f.History = testutil.SprintHistory(5, -10) },
	}
	for name, corrupt := range tests {
		t.Run(name, func(t *testing.T) {
			database := testutil.NewTestDB(t)
			fake := testutil.NewFakeBacklog()
			corrupt(fake)
			svc := NewSyncService(fake, "test", testutil.NewTestUoW(database))

			_, err := svc.Sync(context.Background())
			require.ErrorIs(t, err, domain.ErrInvalidStory)

			infos, err := svc.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, infos)
		})
	}
}

func TestSyncService_RejectsInvertedSprint(t *testing.T) {
	database := testutil.NewTestDB(t)
	fake := testutil.NewFakeBacklog()
	fake.Available[1].CompletedAt = fake.Available[1].StartedAt
	svc := NewSyncService(fake, "test", testutil.NewTestUoW(database))

	_, err := svc.Sync(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidSprint)
}

// storeSnapshots writes snapshots with the given IDs, oldest first.
func storeSnapshots(t *testing.T, database *sql.DB, ids ...string) {
	t.Helper()
	repo := repository.NewSQLiteSnapshotRepo(database)
	for i, id := range ids {
		snap := testutil.NewTestSnapshot(testutil.WithTakenAt(testutil.Epoch.Add(time.Duration(i) * time.Hour)))
		snap.ID = id
		require.NoError(t, repo.Create(context.Background(), snap))
	}
}

func TestSyncService_Resolve(t *testing.T) {
	database := testutil.NewTestDB(t)
	storeSnapshots(t, database, "abc12345-0001", "abc12345-0002", "def67890-0001", "abc")
	svc := NewSyncService(testutil.NewFakeBacklog(), "test", testutil.NewTestUoW(database))
	ctx := context.Background()

	info, err := svc.Resolve(ctx, "def")
	require.NoError(t, err)
	assert.Equal(t, "def67890-0001", info.ID)

	info, err = svc.Resolve(ctx, "abc12345-0002")
	require.NoError(t, err)
	assert.Equal(t, "abc12345-0002", info.ID)

	// An exact ID wins even though it prefixes other IDs.
	info, err = svc.Resolve(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", info.ID)

	_, err = svc.Resolve(ctx, "abc12345")
	require.ErrorIs(t, err, ErrAmbiguousSnapshot)

	_, err = svc.Resolve(ctx, "zzz")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Resolve(ctx, "  ")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSyncService_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	storeSnapshots(t, database, "abc12345-0001", "def67890-0001")
	obs := &recordingObserver{}
	svc := NewSyncService(testutil.NewFakeBacklog(), "test", testutil.NewTestUoW(database), obs)
	ctx := context.Background()

	info, err := svc.Delete(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc12345-0001", info.ID)

	infos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "def67890-0001", infos[0].ID)

	_, err = repository.NewSQLiteSnapshotRepo(database).GetByID(ctx, "abc12345-0001")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Delete(ctx, "abc")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.Len(t, obs.events, 2)
	assert.Equal(t, "delete-snapshot", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "abc12345-0001", obs.events[0].Fields["snapshot_id"])
	assert.False(t, obs.events[1].Success)
}

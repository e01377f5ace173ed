package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/agileplanner/internal/db"
	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRepo_CreateAndGetByID(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	snap := testutil.NewTestSnapshot()
	require.NoError(t, repo.Create(ctx, snap))

	fetched, err := repo.GetByID(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, fetched.ID)
	assert.True(t, snap.TakenAt.Equal(fetched.TakenAt))
	assert.Equal(t, snap.Source, fetched.Source)
	assert.Equal(t, snap.Sprints, fetched.Sprints)
	assert.Equal(t, snap.AvailableSprints, fetched.AvailableSprints)
	assert.Equal(t, snap.Remaining, fetched.Remaining)
	assert.Equal(t, snap.PlannedStories, fetched.PlannedStories)
	assert.Equal(t, snap.PlannedReleases, fetched.PlannedReleases)
}

func TestSnapshotRepo_SprintOrderAndStoriesSurvive(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	history := []domain.Sprint{
		testutil.NewTestSprint(0, []float64{3, 5}),
		testutil.NewTestSprint(1, nil),
		testutil.NewTestSprint(2, []float64{1, 2, 3}),
	}
	snap := testutil.NewTestSnapshot()
	snap.Sprints = history
	require.NoError(t, repo.Create(ctx, snap))

	fetched, err := repo.GetByID(ctx, snap.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Sprints, 3)
	for i, sp := range fetched.Sprints {
		assert.Equal(t, domain.SprintName(i+1), sp.Name)
	}
	assert.Equal(t, 8.0, fetched.Sprints[0].StoryPoints())
	assert.NotNil(t, fetched.Sprints[1].Stories, "sprints without stories load as an empty list")
	assert.Empty(t, fetched.Sprints[1].Stories)
	assert.Equal(t, 6.0, fetched.Sprints[2].StoryPoints())
}

func TestSnapshotRepo_GetByID_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(database)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotRepo_Latest(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	_, err := repo.Latest(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	older := testutil.NewTestSnapshot(testutil.WithTakenAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)))
	newer := testutil.NewTestSnapshot(testutil.WithTakenAt(time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, older))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
}

func TestSnapshotRepo_OrdersWithinOneSecond(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	second := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	whole := testutil.NewTestSnapshot(testutil.WithTakenAt(second))
	tenth := testutil.NewTestSnapshot(testutil.WithTakenAt(second.Add(100 * time.Millisecond)))
	half := testutil.NewTestSnapshot(testutil.WithTakenAt(second.Add(500 * time.Millisecond)))
	later := testutil.NewTestSnapshot(testutil.WithTakenAt(second.Add(150 * time.Millisecond)))

	// Insert newest first so rowid order cannot mask the time order.
	for _, snap := range []*domain.Snapshot{half, later, tenth, whole} {
		require.NoError(t, repo.Create(ctx, snap))
	}

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, half.ID, latest.ID)
	assert.True(t, half.TakenAt.Equal(latest.TakenAt))

	infos, err := repo.List(ctx)
	require.NoError(t, err)
	var ids []string
	for _, info := range infos {
		ids = append(ids, info.ID)
	}
	assert.Equal(t, []string{half.ID, later.ID, tenth.ID, whole.ID}, ids)
}

func TestSnapshotRepo_List(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	first := testutil.NewTestSnapshot(testutil.WithTakenAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)))
	second := testutil.NewTestSnapshot(
		testutil.WithTakenAt(time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)),
		testutil.WithRemaining(testutil.NewTestStory("only", 5)),
	)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	infos, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, second.ID, infos[0].ID)
	assert.Equal(t, first.ID, infos[1].ID)
	assert.Equal(t, 3, infos[0].SprintCount)

	// 3 history + 2 remaining + 3 planned in the default fixture.
	assert.Equal(t, 8, infos[1].StoryCount)
	assert.Equal(t, 7, infos[0].StoryCount)
}

func TestSnapshotRepo_DeleteCascades(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	snap := testutil.NewTestSnapshot()
	require.NoError(t, repo.Create(ctx, snap))
	require.NoError(t, repo.Delete(ctx, snap.ID))

	_, err := repo.GetByID(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var orphans int
	require.NoError(t, database.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snapshot_stories WHERE snapshot_id = ?`, snap.ID).Scan(&orphans))
	assert.Zero(t, orphans)

	assert.ErrorIs(t, repo.Delete(ctx, snap.ID), ErrNotFound)
}

func TestSnapshotRepo_CreateRollsBackInsideUnitOfWork(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	// Exec #1 is the snapshot header, #2 the first history sprint.
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: fmt.Errorf("injected failure")}
	snap := testutil.NewTestSnapshot()
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteSnapshotRepo(tx).Create(ctx, snap)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected failure")

	infos, err := NewSQLiteSnapshotRepo(database).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestSnapshotRepo_RejectsNegativeStoryPoints(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(database)

	snap := testutil.NewTestSnapshot(testutil.WithRemaining(testutil.NewTestStory("bad", -1)))
	assert.Error(t, repo.Create(context.Background(), snap))
}

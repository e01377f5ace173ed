package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/agileplanner/internal/app"
	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/events"
	"github.com/alexanderramin/agileplanner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRequest() app.LoadPlanRequest {
	now := testutil.Epoch
	return app.LoadPlanRequest{
		Settings: domain.PlanningSettings{StartDate: testutil.Epoch, SprintLengthWeeks: 2},
		Now:      &now,
	}
}

func TestSettingsService_LoadProjectsAndSelectsFirstSprint(t *testing.T) {
	bus := events.NewBus()
	rec := recordEvents(bus)
	svc := NewSettingsService(testutil.NewFakeBacklog(), bus)

	state, err := svc.Load(context.Background(), loadRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.Velocity{Min: 5, Average: 10, Max: 15}, state.Velocity)
	require.NotNil(t, state.Projection)
	// 25 remaining points at a minimum of 5 per sprint.
	assert.Equal(t, 5, state.Projection.RemainingSprintCount)
	assert.Equal(t, 0, state.Projection.CompletedSprintCount)
	assert.Len(t, state.Available, 5)

	require.NotNil(t, state.Scope)
	assert.Equal(t, "Sprint 1", state.Scope.Scope.EndSprint.Name)
	assert.Equal(t, "Sprint 1", state.Settings.EndSprintName)
	assert.Equal(t, domain.StoryPointRange{MinStoryPoints: 5, MeanStoryPoints: 10, MaxStoryPoints: 15}, state.Scope.Range)

	assert.Equal(t, []domain.Topic{domain.TopicReleaseScopeChanged, domain.TopicReleaseVelocityChanged}, rec.topics)
}

func TestSettingsService_LoadHonoursConfiguredEndSprint(t *testing.T) {
	svc := NewSettingsService(testutil.NewFakeBacklog(), events.NewBus())
	req := loadRequest()
	req.Settings.EndSprintName = "Sprint 4"

	state, err := svc.Load(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, state.Scope)
	assert.Equal(t, "Sprint 4", state.Scope.Scope.EndSprint.Name)
	assert.Equal(t, 4, state.Scope.PendingSprints)
}

func TestSettingsService_SelectEndSprintPublishesScopeThenRange(t *testing.T) {
	bus := events.NewBus()
	svc := NewSettingsService(testutil.NewFakeBacklog(), bus)
	_, err := svc.Load(context.Background(), loadRequest())
	require.NoError(t, err)

	rec := recordEvents(bus)
	result, err := svc.SelectEndSprint(context.Background(), "Sprint 3")
	require.NoError(t, err)

	assert.Equal(t, 3, result.PendingSprints)
	assert.Equal(t, domain.StoryPointRange{MinStoryPoints: 15, MeanStoryPoints: 30, MaxStoryPoints: 45}, result.Range)
	assert.Equal(t, []domain.Topic{domain.TopicReleaseScopeChanged, domain.TopicReleaseVelocityChanged}, rec.topics)
	require.Len(t, rec.scopes, 1)
	assert.Equal(t, "Sprint 1", rec.scopes[0].StartSprint.Name)
	assert.Equal(t, "Sprint 3", rec.scopes[0].EndSprint.Name)
	assert.Len(t, rec.scopes[0].Sprints, 5)
	assert.Equal(t, result.Range, rec.ranges[0])
	assert.Equal(t, "Sprint 3", svc.Settings().EndSprintName)
}

func TestSettingsService_UnknownEndSprintPublishesNothing(t *testing.T) {
	bus := events.NewBus()
	svc := NewSettingsService(testutil.NewFakeBacklog(), bus)
	_, err := svc.Load(context.Background(), loadRequest())
	require.NoError(t, err)

	rec := recordEvents(bus)
	_, err = svc.SelectEndSprint(context.Background(), "Sprint 99")
	require.ErrorIs(t, err, domain.ErrEndSprintNotFound)
	assert.True(t, IsSelectionError(err))
	assert.Zero(t, rec.count())
	assert.Equal(t, "Sprint 1", svc.Settings().EndSprintName)
}

func TestSettingsService_SelectBeforeLoad(t *testing.T) {
	bus := events.NewBus()
	rec := recordEvents(bus)
	svc := NewSettingsService(testutil.NewFakeBacklog(), bus)

	_, err := svc.SelectEndSprint(context.Background(), "Sprint 1")
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.Zero(t, rec.count())
}

func TestSettingsService_FetchFailurePublishesNothing(t *testing.T) {
	fake := testutil.NewFakeBacklog()
	fake.Err = errors.New("backlog down")
	bus := events.NewBus()
	rec := recordEvents(bus)
	obs := &recordingObserver{}
	svc := NewSettingsService(fake, bus, obs)

	_, err := svc.Load(context.Background(), loadRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching backlog")
	assert.Zero(t, rec.count())
	assert.Empty(t, svc.AvailableSprints())

	require.Len(t, obs.events, 1)
	assert.Equal(t, "load-plan", obs.events[0].Name)
	assert.False(t, obs.events[0].Success)
}

func TestSettingsService_NoHistory(t *testing.T) {
	fake := testutil.NewFakeBacklog()
	fake.History = nil
	svc := NewSettingsService(fake, events.NewBus())

	_, err := svc.Load(context.Background(), loadRequest())
	assert.ErrorIs(t, err, domain.ErrNoSprintHistory)
}

func TestSettingsService_APISprintsFallback(t *testing.T) {
	fake := testutil.NewFakeBacklog()
	fake.History = nil
	svc := NewSettingsService(fake, events.NewBus())

	req := loadRequest()
	req.UseAPISprints = true
	state, err := svc.Load(context.Background(), req)
	require.NoError(t, err)

	assert.Nil(t, state.Projection)
	assert.Equal(t, domain.Velocity{}, state.Velocity)
	assert.Equal(t, fake.Available, state.Available)
	require.NotNil(t, state.Scope)
	assert.Equal(t, domain.StoryPointRange{}, state.Scope.Range)
}

func TestSettingsService_ZeroMinimumVelocityIsReported(t *testing.T) {
	fake := testutil.NewFakeBacklog()
	fake.History = testutil.SprintHistory(0, 10)
	svc := NewSettingsService(fake, events.NewBus())

	_, err := svc.Load(context.Background(), loadRequest())
	assert.ErrorIs(t, err, domain.ErrZeroVelocity)
}

func TestSettingsService_NegativeStoryPointsAreInvalid(t *testing.T) {
	for _, useAPISprints := range []bool{false, true} {
		fake := testutil.NewFakeBacklog()
		fake.History = testutil.SprintHistory(5, 10, -20)
		bus := events.NewBus()
		rec := recordEvents(bus)
		svc := NewSettingsService(fake, bus)

		req := loadRequest()
		req.UseAPISprints = useAPISprints
		_, err := svc.Load(context.Background(), req)
		require.ErrorIs(t, err, domain.ErrInvalidStory, "api sprints %v", useAPISprints)
		assert.NotErrorIs(t, err, domain.ErrZeroVelocity)
		assert.Zero(t, rec.count())
	}
}

func TestSettingsService_NegativeRemainingPointsAreInvalid(t *testing.T) {
	fake := testutil.NewFakeBacklog()
	fake.RemainingItems = testutil.Stories("remaining", 8, -3)
	svc := NewSettingsService(fake, events.NewBus())

	_, err := svc.Load(context.Background(), loadRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidStory)
}

func TestSettingsService_HandlersMayReadState(t *testing.T) {
	bus := events.NewBus()
	svc := NewSettingsService(testutil.NewFakeBacklog(), bus)

	var seen int
	bus.OnScopeChanged(func(context.Context, domain.ReleaseScope) {
		seen = len(svc.AvailableSprints())
		_ = svc.Settings()
	})

	_, err := svc.Load(context.Background(), loadRequest())
	require.NoError(t, err)
	assert.Equal(t, 5, seen)
}

func TestSettingsService_AvailableSprintsIsACopy(t *testing.T) {
	svc := NewSettingsService(testutil.NewFakeBacklog(), events.NewBus())
	_, err := svc.Load(context.Background(), loadRequest())
	require.NoError(t, err)

	got := svc.AvailableSprints()
	got[0].Name = "mutated"
	assert.Equal(t, "Sprint 1", svc.AvailableSprints()[0].Name)
}

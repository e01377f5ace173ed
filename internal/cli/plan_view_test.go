package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/agileplanner/internal/app"
	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/events"
	"github.com/alexanderramin/agileplanner/internal/service"
	"github.com/alexanderramin/agileplanner/internal/teatest"
	"github.com/alexanderramin/agileplanner/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlannerDriver(t *testing.T) *teatest.Driver {
	t.Helper()
	bus := events.NewBus()
	settings := service.NewSettingsService(testutil.NewFakeBacklog(), bus)
	now := testutil.Epoch
	state, err := settings.Load(context.Background(), app.LoadPlanRequest{
		Settings: domain.PlanningSettings{StartDate: testutil.Epoch, SprintLengthWeeks: 2},
		Now:      &now,
	})
	require.NoError(t, err)

	d := teatest.New(t, newPlanModel(context.Background(), settings, state, now))
	t.Cleanup(subscribePlanner(bus, d.Post))
	return d
}

func plannerModel(d *teatest.Driver) planModel {
	return d.Model().(planModel)
}

func plannerView(d *teatest.Driver) string {
	return ansiPattern.ReplaceAllString(d.View(), "")
}

func TestPlanModel_StartsAtLoadedSelection(t *testing.T) {
	d := newPlannerDriver(t)
	m := plannerModel(d)

	assert.Equal(t, 0, m.cursor)
	require.NotNil(t, m.scope)
	assert.Equal(t, "Sprint 1", m.scope.EndSprint.Name)

	out := plannerView(d)
	assert.Contains(t, out, "RELEASE PLANNER")
	assert.Contains(t, out, "5 / 10 / 15")
}

func TestPlanModel_RightPublishesAndFollowsEvents(t *testing.T) {
	d := newPlannerDriver(t)

	d.Press("right", "l")

	m := plannerModel(d)
	assert.Equal(t, 2, m.cursor)
	assert.Equal(t, "Sprint 3", m.scope.EndSprint.Name)
	assert.Equal(t, domain.StoryPointRange{MinStoryPoints: 15, MeanStoryPoints: 30, MaxStoryPoints: 45}, m.rng)
	assert.NoError(t, m.err)
	assert.Contains(t, plannerView(d), "3 of 5")
}

func TestPlanModel_ClampsAtBothEnds(t *testing.T) {
	d := newPlannerDriver(t)

	d.Press("left")
	assert.Equal(t, 0, plannerModel(d).cursor)
	assert.Equal(t, "Sprint 1", plannerModel(d).scope.EndSprint.Name)

	d.Press("G", "right")
	assert.Equal(t, 4, plannerModel(d).cursor)
	assert.Equal(t, "Sprint 5", plannerModel(d).scope.EndSprint.Name)

	d.Press("g")
	assert.Equal(t, 0, plannerModel(d).cursor)
	assert.Equal(t, "Sprint 1", plannerModel(d).scope.EndSprint.Name)
}

func TestPlanModel_QuitKeys(t *testing.T) {
	for _, k := range []string{"q", "esc", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			d := newPlannerDriver(t)
			d.Press(k)
			assert.True(t, d.Quitting())
		})
	}
}

func TestPlanModel_ShowsSelectionError(t *testing.T) {
	d := newPlannerDriver(t)

	d.Send(selectDoneMsg{err: errors.New("end sprint not found")})

	assert.Contains(t, plannerView(d), "end sprint not found")
}

func TestSubscribePlanner_Unsubscribes(t *testing.T) {
	bus := events.NewBus()
	unsubscribe := subscribePlanner(bus, func(tea.Msg) {})
	assert.Equal(t, 1, bus.SubscriberCount(domain.TopicReleaseScopeChanged))
	assert.Equal(t, 1, bus.SubscriberCount(domain.TopicReleaseVelocityChanged))

	unsubscribe()
	assert.Zero(t, bus.SubscriberCount(domain.TopicReleaseScopeChanged))
	assert.Zero(t, bus.SubscriberCount(domain.TopicReleaseVelocityChanged))
}

func TestSelectEndSprintForm_Options(t *testing.T) {
	opts := endSprintOptions(testutil.UpcomingSprints(2))
	require.Len(t, opts, 2)
	assert.Equal(t, "Sprint 2", opts[1].Value)
	assert.Contains(t, opts[1].Key, "ends 2025-02-03")

	choice := "Sprint 1"
	assert.NotNil(t, selectEndSprintForm(testutil.UpcomingSprints(2), &choice))
}

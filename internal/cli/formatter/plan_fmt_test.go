package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/agileplanner/internal/app"
	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/planning"
	"github.com/alexanderramin/agileplanner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSprints_MarksStateAndEndSprint(t *testing.T) {
	sprints := testutil.SprintHistory(5, 10, 15)
	now := sprints[1].StartedAt.Add(24 * time.Hour)

	out := stripANSI(FormatSprints(sprints, now, "Sprint 3"))
	assert.Contains(t, out, "✔ DONE")
	assert.Contains(t, out, "● ACTIVE")
	assert.Contains(t, out, "○ PLANNED")
	assert.Contains(t, out, "▶ Sprint 3")
	assert.Contains(t, out, "2025-01-06")
}

func TestFormatSprints_Empty(t *testing.T) {
	assert.Contains(t, FormatSprints(nil, time.Now(), ""), "No sprints")
}

func TestFormatVelocity(t *testing.T) {
	history := testutil.SprintHistory(5, 10, 15)
	v, err := planning.ComputeVelocity(history)
	require.NoError(t, err)

	out := stripANSI(FormatVelocity(&app.VelocityReport{
		Velocity:  v,
		Sprints:   history,
		PerSprint: planning.SprintVelocities(history),
	}))
	assert.Contains(t, out, "VELOCITY")
	assert.Contains(t, out, "Minimum  5")
	assert.Contains(t, out, "Average  10")
	assert.Contains(t, out, "Maximum  15")
	assert.Contains(t, out, "over 3 sprints")
}

func TestFormatProjection(t *testing.T) {
	settings := domain.PlanningSettings{StartDate: testutil.Epoch, SprintLengthWeeks: 2, EndSprintName: "Sprint 2"}
	now := testutil.Epoch.Add(5 * domain.Week)
	p, err := planning.ProjectSprints(planning.ProjectionInput{
		Now:         now,
		History:     testutil.SprintHistory(5, 10, 15),
		Remaining:   testutil.Stories("r", 10, 15),
		Settings:    settings,
		MinVelocity: 5,
	})
	require.NoError(t, err)

	out := stripANSI(FormatProjection(&app.PlanState{
		Settings:   settings,
		Velocity:   domain.Velocity{Min: 5, Average: 10, Max: 15},
		Projection: p,
	}, now))
	assert.Contains(t, out, "Remaining points     25")
	assert.Contains(t, out, "Completed sprints    2")
	assert.Contains(t, out, "Remaining sprints    5")
	assert.Contains(t, out, "2/7 sprints")
	assert.Contains(t, out, "▶ Sprint 2")
	assert.Contains(t, out, "Sprint 7")
}

func TestFormatProjection_APISprints(t *testing.T) {
	out := stripANSI(FormatProjection(&app.PlanState{
		Settings:  domain.PlanningSettings{EndSprintName: "Sprint 1"},
		Available: testutil.UpcomingSprints(2),
	}, testutil.Epoch))
	assert.Contains(t, out, "sprint list")
	assert.Contains(t, out, "▶ Sprint 1")
}

func TestFormatScope(t *testing.T) {
	sprints := testutil.UpcomingSprints(4)
	scope, err := planning.BuildReleaseScope(sprints, "Sprint 3", domain.Velocity{Min: 5, Average: 10, Max: 15})
	require.NoError(t, err)

	out := stripANSI(FormatScope(&app.ScopeResult{
		Scope:          *scope,
		Range:          planning.ProjectedRange(scope, testutil.Epoch),
		PendingSprints: 3,
	}))
	assert.Contains(t, out, "RELEASE SCOPE")
	assert.Contains(t, out, "Sprint 1")
	assert.Contains(t, out, "Sprint 3")
	assert.Contains(t, out, "3 of 4")
	assert.Contains(t, out, "15 / 30 / 45")
}

func TestFormatSprintChoices(t *testing.T) {
	out := stripANSI(FormatSprintChoices(testutil.UpcomingSprints(2)))
	assert.Equal(t, "Available: Sprint 1, Sprint 2", out)
}

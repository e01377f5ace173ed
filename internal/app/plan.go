package app

import (
	"time"

	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/planning"
)

type LoadPlanRequest struct {
	Settings domain.PlanningSettings
	Now      *time.Time

	// UseAPISprints offers the backlog's own upcoming sprint list
	// (/api/backlog/a-sprints) for selection instead of the projection.
	UseAPISprints bool
}

// PlanState is the result of a successful Load.
type PlanState struct {
	Settings   domain.PlanningSettings
	Velocity   domain.Velocity
	Projection *planning.Projection
	Available  []domain.Sprint
	Scope      *ScopeResult
}

// ScopeResult is what a selection publishes: the scope and the story points
// the pending sprints in it are expected to deliver.
type ScopeResult struct {
	Scope          domain.ReleaseScope
	Range          domain.StoryPointRange
	PendingSprints int
}

type VelocityReport struct {
	Velocity  domain.Velocity
	Sprints   []domain.Sprint
	PerSprint []float64
}

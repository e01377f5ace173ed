package app

import (
	"context"

	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/planning"
)

// PlanSettingsUseCase owns the planning state the user edits: the loaded
// sprints and the selected release end sprint. Selections are published to
// the event bus.
type PlanSettingsUseCase interface {
	Load(ctx context.Context, req LoadPlanRequest) (*PlanState, error)
	SelectEndSprint(ctx context.Context, name string) (*ScopeResult, error)
	AvailableSprints() []domain.Sprint
	Settings() domain.PlanningSettings
}

type VelocityUseCase interface {
	Velocity(ctx context.Context) (*VelocityReport, error)
}

type BurnupUseCase interface {
	Build(ctx context.Context) (*planning.Burnup, error)
}

type SyncUseCase interface {
	Sync(ctx context.Context) (*domain.Snapshot, error)
	List(ctx context.Context) ([]domain.SnapshotInfo, error)
	// Resolve expands a full snapshot ID or a unique prefix of one.
	Resolve(ctx context.Context, idOrPrefix string) (*domain.SnapshotInfo, error)
	Delete(ctx context.Context, idOrPrefix string) (*domain.SnapshotInfo, error)
}

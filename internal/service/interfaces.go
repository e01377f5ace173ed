package service

import (
	"errors"

	"github.com/alexanderramin/agileplanner/internal/app"
)

// ErrNotLoaded is returned when an end sprint is selected before the plan
// has been loaded.
var ErrNotLoaded = errors.New("planning settings not loaded")

// ErrAmbiguousSnapshot is returned when an ID prefix matches more than one
// stored snapshot.
var ErrAmbiguousSnapshot = errors.New("snapshot id prefix is ambiguous")

type SettingsService interface {
	app.PlanSettingsUseCase
}

type VelocityService interface {
	app.VelocityUseCase
}

type BurnupService interface {
	app.BurnupUseCase
}

type SyncService interface {
	app.SyncUseCase
}

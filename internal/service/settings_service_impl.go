package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/agileplanner/internal/app"
	"github.com/alexanderramin/agileplanner/internal/backlog"
	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/events"
	"github.com/alexanderramin/agileplanner/internal/planning"
	"golang.org/x/sync/errgroup"
)

type settingsService struct {
	client   backlog.Client
	bus      *events.Bus
	observer UseCaseObserver
	now      func() time.Time

	mu        sync.Mutex
	loaded    bool
	asOf      time.Time
	settings  domain.PlanningSettings
	velocity  domain.Velocity
	available []domain.Sprint
}

func NewSettingsService(client backlog.Client, bus *events.Bus, observers ...UseCaseObserver) SettingsService {
	return &settingsService{
		client:   client,
		bus:      bus,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *settingsService) Load(ctx context.Context, req app.LoadPlanRequest) (state *app.PlanState, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		event := UseCaseEvent{
			Name:      "load-plan",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"api_sprints": req.UseAPISprints},
		}
		if state != nil {
			event.Sprints = len(state.Available)
			event.Velocity = &state.Velocity
			event.EndSprint = state.Settings.EndSprintName
		}
		s.observer.ObserveUseCase(ctx, event)
	}()

	now := s.now()
	if req.Now != nil {
		now = *req.Now
	}
	settings := req.Settings
	if settings.SprintLengthWeeks == 0 {
		settings.SprintLengthWeeks = domain.DefaultSprintLengthWeeks
	}
	if err = settings.Validate(); err != nil {
		return nil, err
	}

	var (
		history   []domain.Sprint
		remaining []domain.Story
		apiSprint []domain.Sprint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		history, err = s.client.Sprints(gctx)
		return err
	})
	g.Go(func() (err error) {
		remaining, err = s.client.Remaining(gctx)
		return err
	})
	if req.UseAPISprints {
		g.Go(func() (err error) {
			apiSprint, err = s.client.AvailableSprints(gctx)
			return err
		})
	}
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching backlog: %w", err)
	}

	state = &app.PlanState{Settings: settings}
	state.Projection, state.Velocity, err = project(now, history, remaining, settings)
	// The API sprint list does not need a projection, but bad story data is
	// never tolerated.
	if err != nil && (!req.UseAPISprints || errors.Is(err, domain.ErrInvalidStory)) {
		return nil, err
	}
	if req.UseAPISprints {
		err = nil
		state.Available = apiSprint
	} else {
		state.Available = state.Projection.Sprints
	}

	s.mu.Lock()
	s.loaded = true
	s.asOf = now
	s.settings = settings
	s.velocity = state.Velocity
	s.available = state.Available
	s.mu.Unlock()

	if len(state.Available) == 0 {
		return state, nil
	}
	end := settings.EndSprintName
	if end == "" {
		end = state.Available[0].Name
	}
	if state.Scope, err = s.selectEndSprint(ctx, end); err != nil {
		return nil, err
	}
	state.Settings = s.Settings()
	return state, nil
}

// project computes velocity from history and sizes the projection by its
// minimum.
func project(now time.Time, history []domain.Sprint, remaining []domain.Story, settings domain.PlanningSettings) (*planning.Projection, domain.Velocity, error) {
	velocity, err := planning.ComputeVelocity(history)
	if err != nil {
		return nil, domain.Velocity{}, err
	}
	projection, err := planning.ProjectSprints(planning.ProjectionInput{
		Now:         now,
		History:     history,
		Remaining:   remaining,
		Settings:    settings,
		MinVelocity: velocity.Min,
	})
	if err != nil {
		return nil, velocity, fmt.Errorf("projecting sprints: %w", err)
	}
	return projection, velocity, nil
}

// SelectEndSprint resolves name against the loaded sprints, as of the time
// the plan was loaded, and publishes ReleaseScopeChanged followed by
// ReleaseVelocityChanged. Nothing is published when the name is unknown.
func (s *settingsService) SelectEndSprint(ctx context.Context, name string) (result *app.ScopeResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		event := UseCaseEvent{
			Name:      "select-end-sprint",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			EndSprint: name,
		}
		if result != nil {
			event.Sprints = len(result.Scope.Sprints)
			event.Velocity = &result.Scope.Velocity
			event.Range = &result.Range
		}
		s.observer.ObserveUseCase(ctx, event)
	}()
	return s.selectEndSprint(ctx, name)
}

func (s *settingsService) selectEndSprint(ctx context.Context, name string) (*app.ScopeResult, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, ErrNotLoaded
	}
	scope, err := planning.BuildReleaseScope(s.available, name, s.velocity)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.settings.EndSprintName = name
	now := s.asOf
	s.mu.Unlock()

	result := &app.ScopeResult{
		Scope:          *scope,
		Range:          planning.ProjectedRange(scope, now),
		PendingSprints: planning.PendingSprintCount(scope, now),
	}

	// Handlers may call back into the service, so publish unlocked.
	s.bus.Publish(ctx, domain.TopicReleaseScopeChanged, result.Scope)
	s.bus.Publish(ctx, domain.TopicReleaseVelocityChanged, result.Range)
	return result, nil
}

func (s *settingsService) AvailableSprints() []domain.Sprint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Sprint, len(s.available))
	copy(out, s.available)
	return out
}

func (s *settingsService) Settings() domain.PlanningSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// IsSelectionError reports whether err came from an end-sprint selection
// the caller can correct.
func IsSelectionError(err error) bool {
	return errors.Is(err, domain.ErrEndSprintNotFound) || errors.Is(err, domain.ErrNoSprintsAvailable)
}

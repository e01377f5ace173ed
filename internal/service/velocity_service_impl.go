package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/agileplanner/internal/app"
	"github.com/alexanderramin/agileplanner/internal/backlog"
	"github.com/alexanderramin/agileplanner/internal/planning"
)

type velocityService struct {
	client   backlog.Client
	observer UseCaseObserver
}

func NewVelocityService(client backlog.Client, observers ...UseCaseObserver) VelocityService {
	return &velocityService{client: client, observer: useCaseObserverOrNoop(observers)}
}

func (s *velocityService) Velocity(ctx context.Context) (report *app.VelocityReport, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		event := UseCaseEvent{
			Name:      "velocity",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
		}
		if report != nil {
			event.Sprints = len(report.Sprints)
			event.Velocity = &report.Velocity
		}
		s.observer.ObserveUseCase(ctx, event)
	}()

	history, err := s.client.Sprints(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching sprints: %w", err)
	}
	velocity, err := planning.ComputeVelocity(history)
	if err != nil {
		return nil, err
	}
	return &app.VelocityReport{
		Velocity:  velocity,
		Sprints:   history,
		PerSprint: planning.SprintVelocities(history),
	}, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/agileplanner/internal/backlog"
	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/planning"
	"golang.org/x/sync/errgroup"
)

type burnupService struct {
	client   backlog.Client
	observer UseCaseObserver
}

func NewBurnupService(client backlog.Client, observers ...UseCaseObserver) BurnupService {
	return &burnupService{client: client, observer: useCaseObserverOrNoop(observers)}
}

// Build fetches releases, sprints and planned stories together and
// aggregates them only once all three have arrived.
func (s *burnupService) Build(ctx context.Context) (burnup *planning.Burnup, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		event := UseCaseEvent{
			Name:      "burnup",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
		}
		if burnup != nil {
			event.Sprints = len(burnup.Sprints)
			event.Velocity = &burnup.Velocity
		}
		s.observer.ObserveUseCase(ctx, event)
	}()

	var (
		releases []domain.Release
		sprints  []domain.Sprint
		planned  []domain.Story
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		releases, err = s.client.PlannedReleases(gctx)
		return err
	})
	g.Go(func() (err error) {
		sprints, err = s.client.Sprints(gctx)
		return err
	})
	g.Go(func() (err error) {
		planned, err = s.client.PlannedStories(gctx)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching burnup data: %w", err)
	}

	burnup, err = planning.BuildBurnup(releases, sprints, planned)
	if err != nil {
		return nil, err
	}
	return burnup, nil
}

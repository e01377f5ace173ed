package backlog

import (
	"context"

	"github.com/alexanderramin/agileplanner/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Collections holds one complete read of the backlog API.
type Collections struct {
	Sprints          []domain.Sprint
	AvailableSprints []domain.Sprint
	Remaining        []domain.Story
	PlannedReleases  []domain.Release
	PlannedStories   []domain.Story
}

// FetchAll reads every collection concurrently. Either all collections are
// returned or the first error is, with the outstanding requests cancelled.
func FetchAll(ctx context.Context, c Client) (*Collections, error) {
	var out Collections
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.Sprints, err = c.Sprints(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.AvailableSprints, err = c.AvailableSprints(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Remaining, err = c.Remaining(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.PlannedReleases, err = c.PlannedReleases(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.PlannedStories, err = c.PlannedStories(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

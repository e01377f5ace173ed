package testutil

import (
	"context"
	"sync/atomic"

	"github.com/alexanderramin/agileplanner/internal/domain"
)

// FakeBacklog is an in-memory backlog client. Err, when set, is returned by
// every call.
type FakeBacklog struct {
	History        []domain.Sprint
	Available      []domain.Sprint
	RemainingItems []domain.Story
	Releases       []domain.Release
	Planned        []domain.Story
	Err            error
	Calls          atomic.Int32
}

// NewFakeBacklog returns a backlog with velocities 5, 10 and 15 and a
// remaining backlog of 25 points.
func NewFakeBacklog() *FakeBacklog {
	return &FakeBacklog{
		History:        SprintHistory(5, 10, 15),
		Available:      UpcomingSprints(5),
		RemainingItems: Stories("remaining", 10, 15),
		Releases:       []domain.Release{NewTestRelease("R1", Epoch.Add(12*domain.Week))},
		Planned:        Stories("planned", 20, 20, 10),
	}
}

func (f *FakeBacklog) Sprints(context.Context) ([]domain.Sprint, error) {
	f.Calls.Add(1)
	return f.History, f.Err
}

func (f *FakeBacklog) AvailableSprints(context.Context) ([]domain.Sprint, error) {
	f.Calls.Add(1)
	return f.Available, f.Err
}

func (f *FakeBacklog) Remaining(context.Context) ([]domain.Story, error) {
	f.Calls.Add(1)
	return f.RemainingItems, f.Err
}

func (f *FakeBacklog) PlannedReleases(context.Context) ([]domain.Release, error) {
	f.Calls.Add(1)
	return f.Releases, f.Err
}

func (f *FakeBacklog) PlannedStories(context.Context) ([]domain.Story, error) {
	f.Calls.Add(1)
	return f.Planned, f.Err
}

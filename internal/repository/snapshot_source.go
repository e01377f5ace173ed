package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/agileplanner/internal/backlog"
	"github.com/alexanderramin/agileplanner/internal/domain"
)

// SnapshotSource serves backlog collections from a stored snapshot, so
// planning works without the backlog API. It reads the latest snapshot
// unless Pin selected another.
type SnapshotSource struct {
	snapshots SnapshotRepo

	mu     sync.Mutex
	pinned string
	cached *domain.Snapshot
}

var _ backlog.Client = (*SnapshotSource)(nil)

func NewSnapshotSource(snapshots SnapshotRepo) *SnapshotSource {
	return &SnapshotSource{snapshots: snapshots}
}

// Pin makes later reads serve the snapshot with the given ID. An empty ID
// goes back to the latest snapshot.
func (s *SnapshotSource) Pin(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.pinned {
		s.pinned = id
		s.cached = nil
	}
}

func (s *SnapshotSource) latest(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return s.cached, nil
	}
	if s.pinned != "" {
		snap, err := s.snapshots.GetByID(ctx, s.pinned)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot %s: %w", s.pinned, err)
		}
		s.cached = snap
		return snap, nil
	}
	snap, err := s.snapshots.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading latest snapshot (run sync first): %w", err)
	}
	s.cached = snap
	return snap, nil
}

func (s *SnapshotSource) Sprints(ctx context.Context) ([]domain.Sprint, error) {
	snap, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Sprints, nil
}

func (s *SnapshotSource) AvailableSprints(ctx context.Context) ([]domain.Sprint, error) {
	snap, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	return snap.AvailableSprints, nil
}

func (s *SnapshotSource) Remaining(ctx context.Context) ([]domain.Story, error) {
	snap, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Remaining, nil
}

func (s *SnapshotSource) PlannedReleases(ctx context.Context) ([]domain.Release, error) {
	snap, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	return snap.PlannedReleases, nil
}

func (s *SnapshotSource) PlannedStories(ctx context.Context) ([]domain.Story, error) {
	snap, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	return snap.PlannedStories, nil
}

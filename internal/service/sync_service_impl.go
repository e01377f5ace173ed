package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/agileplanner/internal/backlog"
	"github.com/alexanderramin/agileplanner/internal/db"
	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/repository"
	"github.com/google/uuid"
)

type syncService struct {
	client   backlog.Client
	source   string
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewSyncService stores backlog reads from client as snapshots. source is
// recorded on each snapshot, normally the backlog base URL.
func NewSyncService(client backlog.Client, source string, uow db.UnitOfWork, observers ...UseCaseObserver) SyncService {
	return &syncService{
		client:   client,
		source:   source,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *syncService) Sync(ctx context.Context) (snap *domain.Snapshot, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		event := UseCaseEvent{
			Name:      "sync",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"source": s.source},
		}
		if snap != nil {
			event.Sprints = len(snap.Sprints)
			event.Fields["snapshot_id"] = snap.ID
			event.Fields["stories"] = len(snap.Remaining) + len(snap.PlannedStories)
		}
		s.observer.ObserveUseCase(ctx, event)
	}()

	collections, err := backlog.FetchAll(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("fetching backlog: %w", err)
	}

	snap = &domain.Snapshot{
		ID:               uuid.New().String(),
		TakenAt:          time.Now().UTC(),
		Source:           s.source,
		Sprints:          collections.Sprints,
		AvailableSprints: collections.AvailableSprints,
		Remaining:        collections.Remaining,
		PlannedReleases:  collections.PlannedReleases,
		PlannedStories:   collections.PlannedStories,
	}
	if err = snap.Validate(); err != nil {
		return nil, fmt.Errorf("validating backlog: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSnapshotRepo(tx).Create(ctx, snap)
	})
	if err != nil {
		return nil, fmt.Errorf("storing snapshot: %w", err)
	}
	return snap, nil
}

func (s *syncService) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	var infos []domain.SnapshotInfo
	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		infos, err = repository.NewSQLiteSnapshotRepo(tx).List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

func (s *syncService) Resolve(ctx context.Context, idOrPrefix string) (info *domain.SnapshotInfo, err error) {
	err = s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		info, err = resolveSnapshot(ctx, repository.NewSQLiteSnapshotRepo(tx), idOrPrefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (s *syncService) Delete(ctx context.Context, idOrPrefix string) (info *domain.SnapshotInfo, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		event := UseCaseEvent{
			Name:      "delete-snapshot",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"snapshot_id": idOrPrefix},
		}
		if info != nil {
			event.Fields["snapshot_id"] = info.ID
		}
		s.observer.ObserveUseCase(ctx, event)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteSnapshotRepo(tx)
		found, err := resolveSnapshot(ctx, repo, idOrPrefix)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, found.ID); err != nil {
			return err
		}
		info = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// resolveSnapshot matches idOrPrefix against the stored snapshots. An exact
// ID always wins over prefix matches.
func resolveSnapshot(ctx context.Context, repo repository.SnapshotRepo, idOrPrefix string) (*domain.SnapshotInfo, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, fmt.Errorf("snapshot id is empty: %w", repository.ErrNotFound)
	}
	infos, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []domain.SnapshotInfo
	for _, info := range infos {
		if info.ID == idOrPrefix {
			return &info, nil
		}
		if strings.HasPrefix(info.ID, idOrPrefix) {
			matches = append(matches, info)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("snapshot %s: %w", idOrPrefix, repository.ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s matches %d snapshots", ErrAmbiguousSnapshot, idOrPrefix, len(matches))
	}
}

package repository

import (
	"context"

	"github.com/alexanderramin/agileplanner/internal/domain"
)

type SnapshotRepo interface {
	Create(ctx context.Context, s *domain.Snapshot) error
	GetByID(ctx context.Context, id string) (*domain.Snapshot, error)
	// Latest returns the most recently taken snapshot.
	Latest(ctx context.Context) (*domain.Snapshot, error)
	List(ctx context.Context) ([]domain.SnapshotInfo, error)
	Delete(ctx context.Context, id string) error
}

package services

import (
	"context"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
)

// AllocatorStore is the storage surface the allocator needs. Callers that
// run inside a transaction pass transaction-bound repositories here so the
// counter lock and the subsequent insert commit or roll back together.
type AllocatorStore interface {
	GroupByName(ctx context.Context, name string) (*models.Group, error)
	NextID(ctx context.Context, groupName string) (int64, error)
}

// AllocatorService hands out account IDs from per-group numeric ranges.
// Superusers always receive models.SuperuserID and never touch a counter.
type AllocatorService struct {
	catalog models.GroupCatalog
}

func NewAllocatorService(catalog models.GroupCatalog) *AllocatorService {
	return &AllocatorService{catalog: catalog}
}

// Allocate reserves the next free ID for the given group. The ID is taken
// from a per-group counter row locked for the duration of the surrounding
// transaction, so two concurrent allocations for the same group serialize
// and can never observe the same value.
func (s *AllocatorService) Allocate(ctx context.Context, store AllocatorStore, groupName string, isSuperuser bool) (int64, *models.Group, error) {
	if isSuperuser {
		group, err := store.GroupByName(ctx, models.GroupAdmin)
		if err != nil {
			return 0, nil, err
		}
		return models.SuperuserID, group, nil
	}

	rng, ok := s.catalog[groupName]
	if !ok {
		logger.Warn().Str("group", groupName).Msg("ID allocation requested for unknown group")
		return 0, nil, apperrors.ErrUnknownGroup
	}

	group, err := store.GroupByName(ctx, groupName)
	if err != nil {
		return 0, nil, err
	}

	id, err := store.NextID(ctx, groupName)
	if err != nil {
		return 0, nil, err
	}
	if id < rng.Start || id > rng.End {
		logger.Error().
			Str("group", groupName).
			Int64("id", id).
			Int64("range_start", rng.Start).
			Int64("range_end", rng.End).
			Msg("group ID range exhausted")
		return 0, nil, apperrors.ErrIDRangeExhausted
	}

	return id, group, nil
}

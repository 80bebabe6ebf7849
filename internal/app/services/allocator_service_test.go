package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
)

type fakeAllocatorStore struct {
	groups   map[string]*models.Group
	counters map[string]int64
}

func newFakeAllocatorStore() *fakeAllocatorStore {
	catalog := models.DefaultGroupCatalog()
	f := &fakeAllocatorStore{
		groups:   make(map[string]*models.Group),
		counters: make(map[string]int64),
	}
	id := int64(1)
	for name, rng := range catalog {
		f.groups[name] = &models.Group{ID: id, Name: name, RangeStart: rng.Start, RangeEnd: rng.End}
		f.counters[name] = rng.Start
		id++
	}
	return f
}

func (f *fakeAllocatorStore) GroupByName(_ context.Context, name string) (*models.Group, error) {
	if g, ok := f.groups[name]; ok {
		return g, nil
	}
	return nil, apperrors.ErrGroupNotFound
}

func (f *fakeAllocatorStore) NextID(_ context.Context, groupName string) (int64, error) {
	id, ok := f.counters[groupName]
	if !ok {
		return 0, apperrors.ErrGroupNotFound
	}
	f.counters[groupName] = id + 1
	return id, nil
}

func TestAllocateRangeStarts(t *testing.T) {
	tests := []struct {
		group  string
		wantID int64
	}{
		{models.GroupAdmin, 2},
		{models.GroupHOD, 100},
		{models.GroupInstructor, 1000},
		{models.GroupStudent, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			store := newFakeAllocatorStore()
			svc := NewAllocatorService(models.DefaultGroupCatalog())

			id, group, err := svc.Allocate(context.Background(), store, tt.group, false)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.group, group.Name)
		})
	}
}

func TestAllocateSequential(t *testing.T) {
	store := newFakeAllocatorStore()
	svc := NewAllocatorService(models.DefaultGroupCatalog())

	for want := int64(10000); want < 10005; want++ {
		id, _, err := svc.Allocate(context.Background(), store, models.GroupStudent, false)
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	// counters are independent per group
	id, _, err := svc.Allocate(context.Background(), store, models.GroupHOD, false)
	require.NoError(t, err)
	assert.Equal(t, int64(100), id)
}

func TestAllocateSuperuser(t *testing.T) {
	store := newFakeAllocatorStore()
	svc := NewAllocatorService(models.DefaultGroupCatalog())

	// the requested group is ignored for superusers
	id, group, err := svc.Allocate(context.Background(), store, models.GroupStudent, true)
	require.NoError(t, err)
	assert.Equal(t, models.SuperuserID, id)
	assert.Equal(t, models.GroupAdmin, group.Name)

	// no counter moves
	assert.Equal(t, int64(2), store.counters[models.GroupAdmin])
	assert.Equal(t, int64(10000), store.counters[models.GroupStudent])
}

func TestAllocateUnknownGroup(t *testing.T) {
	store := newFakeAllocatorStore()
	svc := NewAllocatorService(models.DefaultGroupCatalog())

	_, _, err := svc.Allocate(context.Background(), store, "registrar", false)
	assert.ErrorIs(t, err, apperrors.ErrUnknownGroup)
}

func TestAllocateRangeExhausted(t *testing.T) {
	store := newFakeAllocatorStore()
	store.counters[models.GroupAdmin] = 99
	svc := NewAllocatorService(models.DefaultGroupCatalog())

	// 99 is the last admin id
	id, _, err := svc.Allocate(context.Background(), store, models.GroupAdmin, false)
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)

	_, _, err = svc.Allocate(context.Background(), store, models.GroupAdmin, false)
	assert.ErrorIs(t, err, apperrors.ErrIDRangeExhausted)
}

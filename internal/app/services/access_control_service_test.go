package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
)

type fakeAccessControlStore struct {
	rows map[string]*models.AccessControl
}

func newFakeAccessControlStore() *fakeAccessControlStore {
	return &fakeAccessControlStore{rows: make(map[string]*models.AccessControl)}
}

func acKey(groupID int64, entityName string) string {
	return fmt.Sprintf("%d/%s", groupID, entityName)
}

func (f *fakeAccessControlStore) Get(_ context.Context, groupID int64, entityName string) (*models.AccessControl, error) {
	if ac, ok := f.rows[acKey(groupID, entityName)]; ok {
		copied := *ac
		return &copied, nil
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f *fakeAccessControlStore) Upsert(_ context.Context, ac *models.AccessControl) error {
	copied := *ac
	f.rows[acKey(ac.GroupID, ac.EntityName)] = &copied
	return nil
}

func (f *fakeAccessControlStore) Delete(_ context.Context, groupID int64, entityName string) error {
	delete(f.rows, acKey(groupID, entityName))
	return nil
}

func (f *fakeAccessControlStore) ListByGroup(_ context.Context, groupID int64) ([]*models.AccessControl, error) {
	var out []*models.AccessControl
	for _, ac := range f.rows {
		if ac.GroupID == groupID {
			copied := *ac
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakePermissionStore struct {
	perms      map[int64]*models.Permission
	membership map[string]bool
}

func newFakePermissionStore(perms ...*models.Permission) *fakePermissionStore {
	f := &fakePermissionStore{
		perms:      make(map[int64]*models.Permission),
		membership: make(map[string]bool),
	}
	for _, p := range perms {
		f.perms[p.ID] = p
	}
	return f
}

func (f *fakePermissionStore) GetPermission(_ context.Context, permissionID int64) (*models.Permission, error) {
	if p, ok := f.perms[permissionID]; ok {
		return p, nil
	}
	return nil, apperrors.ErrPermissionNotFound
}

func (f *fakePermissionStore) AddPermission(_ context.Context, groupID, permissionID int64) error {
	f.membership[fmt.Sprintf("%d/%d", groupID, permissionID)] = true
	return nil
}

func (f *fakePermissionStore) RemovePermission(_ context.Context, groupID, permissionID int64) error {
	delete(f.membership, fmt.Sprintf("%d/%d", groupID, permissionID))
	return nil
}

func (f *fakePermissionStore) ListPermissions(_ context.Context, groupID int64) ([]*models.Permission, error) {
	var out []*models.Permission
	for key := range f.membership {
		var gID, pID int64
		fmt.Sscanf(key, "%d/%d", &gID, &pID)
		if gID == groupID {
			out = append(out, f.perms[pID])
		}
	}
	return out, nil
}

func sessionPermissions() []*models.Permission {
	return []*models.Permission{
		{ID: 1, Codename: "add_session", EntityName: "session"},
		{ID: 2, Codename: "view_session", EntityName: "session"},
		{ID: 3, Codename: "change_session", EntityName: "session"},
		{ID: 4, Codename: "delete_session", EntityName: "session"},
		{ID: 5, Codename: "view_course", EntityName: "course"},
	}
}

func TestGrantPermissionsRaisesFlags(t *testing.T) {
	acs := newFakeAccessControlStore()
	perms := newFakePermissionStore(sessionPermissions()...)
	svc := NewAccessControlService(acs, perms)
	ctx := context.Background()

	require.NoError(t, svc.GrantPermissions(ctx, 7, []int64{1, 2}))

	bitmap, err := svc.ProjectBitmap(ctx, 7)
	require.NoError(t, err)
	require.Contains(t, bitmap, "session")
	assert.True(t, bitmap["session"].Create)
	assert.True(t, bitmap["session"].Read)
	assert.False(t, bitmap["session"].Update)
	assert.False(t, bitmap["session"].Remove)
}

func TestGrantPermissionsSeparateEntities(t *testing.T) {
	acs := newFakeAccessControlStore()
	perms := newFakePermissionStore(sessionPermissions()...)
	svc := NewAccessControlService(acs, perms)
	ctx := context.Background()

	require.NoError(t, svc.GrantPermissions(ctx, 7, []int64{1, 5}))

	bitmap, err := svc.ProjectBitmap(ctx, 7)
	require.NoError(t, err)
	require.Len(t, bitmap, 2)
	assert.True(t, bitmap["session"].Create)
	assert.True(t, bitmap["course"].Read)
	assert.False(t, bitmap["course"].Create)
}

func TestRevokePermissionsLowersFlags(t *testing.T) {
	acs := newFakeAccessControlStore()
	perms := newFakePermissionStore(sessionPermissions()...)
	svc := NewAccessControlService(acs, perms)
	ctx := context.Background()

	require.NoError(t, svc.GrantPermissions(ctx, 7, []int64{1, 2, 3}))
	require.NoError(t, svc.RevokePermissions(ctx, 7, []int64{3}))

	bitmap, err := svc.ProjectBitmap(ctx, 7)
	require.NoError(t, err)
	assert.True(t, bitmap["session"].Create)
	assert.True(t, bitmap["session"].Read)
	assert.False(t, bitmap["session"].Update)
}

func TestRevokeLastFlagDeletesRow(t *testing.T) {
	acs := newFakeAccessControlStore()
	perms := newFakePermissionStore(sessionPermissions()...)
	svc := NewAccessControlService(acs, perms)
	ctx := context.Background()

	require.NoError(t, svc.GrantPermissions(ctx, 7, []int64{2}))
	require.NoError(t, svc.RevokePermissions(ctx, 7, []int64{2}))

	assert.Empty(t, acs.rows)
	bitmap, err := svc.ProjectBitmap(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, bitmap)
}

func TestRevokeWithoutRowIsNoOp(t *testing.T) {
	acs := newFakeAccessControlStore()
	perms := newFakePermissionStore(sessionPermissions()...)
	svc := NewAccessControlService(acs, perms)

	require.NoError(t, svc.RevokePermissions(context.Background(), 7, []int64{1}))
	assert.Empty(t, acs.rows)
}

func TestGrantSkipsUnknownPermission(t *testing.T) {
	acs := newFakeAccessControlStore()
	perms := newFakePermissionStore(sessionPermissions()...)
	svc := NewAccessControlService(acs, perms)
	ctx := context.Background()

	// 999 does not exist; the rest of the batch still applies
	require.NoError(t, svc.GrantPermissions(ctx, 7, []int64{999, 2}))

	bitmap, err := svc.ProjectBitmap(ctx, 7)
	require.NoError(t, err)
	assert.True(t, bitmap["session"].Read)
}

func TestGrantIgnoresNonCRUDCodename(t *testing.T) {
	acs := newFakeAccessControlStore()
	perms := newFakePermissionStore(&models.Permission{ID: 8, Codename: "export_report", EntityName: "report"})
	svc := NewAccessControlService(acs, perms)

	require.NoError(t, svc.GrantPermissions(context.Background(), 7, []int64{8}))
	assert.Empty(t, acs.rows)
	// membership itself is still recorded
	assert.True(t, perms.membership["7/8"])
}

func TestGroupsDoNotShareRows(t *testing.T) {
	acs := newFakeAccessControlStore()
	perms := newFakePermissionStore(sessionPermissions()...)
	svc := NewAccessControlService(acs, perms)
	ctx := context.Background()

	require.NoError(t, svc.GrantPermissions(ctx, 7, []int64{1}))
	require.NoError(t, svc.GrantPermissions(ctx, 8, []int64{2}))

	seven, err := svc.ProjectBitmap(ctx, 7)
	require.NoError(t, err)
	eight, err := svc.ProjectBitmap(ctx, 8)
	require.NoError(t, err)

	assert.True(t, seven["session"].Create)
	assert.False(t, seven["session"].Read)
	assert.True(t, eight["session"].Read)
	assert.False(t, eight["session"].Create)
}

func TestRebuildFlags(t *testing.T) {
	acs := newFakeAccessControlStore()
	perms := newFakePermissionStore(sessionPermissions()...)
	svc := NewAccessControlService(acs, perms)
	ctx := context.Background()

	require.NoError(t, perms.AddPermission(ctx, 7, 1))
	require.NoError(t, perms.AddPermission(ctx, 7, 4))
	require.NoError(t, perms.AddPermission(ctx, 7, 5))

	// a stale row that membership no longer supports
	require.NoError(t, acs.Upsert(ctx, &models.AccessControl{GroupID: 7, EntityName: "batch", CanRead: true}))

	require.NoError(t, svc.RebuildFlags(ctx, 7))

	bitmap, err := svc.ProjectBitmap(ctx, 7)
	require.NoError(t, err)
	require.Len(t, bitmap, 2)
	assert.True(t, bitmap["session"].Create)
	assert.True(t, bitmap["session"].Remove)
	assert.True(t, bitmap["course"].Read)
}

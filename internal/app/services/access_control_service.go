package services

import (
	"context"
	"errors"
	"strings"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
)

// AccessControlStore covers the per-entity CRUD flag rows.
type AccessControlStore interface {
	Get(ctx context.Context, groupID int64, entityName string) (*models.AccessControl, error)
	Upsert(ctx context.Context, ac *models.AccessControl) error
	Delete(ctx context.Context, groupID int64, entityName string) error
	ListByGroup(ctx context.Context, groupID int64) ([]*models.AccessControl, error)
}

// PermissionStore covers the permission catalog and group membership rows.
type PermissionStore interface {
	GetPermission(ctx context.Context, permissionID int64) (*models.Permission, error)
	AddPermission(ctx context.Context, groupID, permissionID int64) error
	RemovePermission(ctx context.Context, groupID, permissionID int64) error
	ListPermissions(ctx context.Context, groupID int64) ([]*models.Permission, error)
}

// AccessControlService keeps the denormalized per-entity CRUD flag rows in
// step with group permission membership. Flag rows exist only while at
// least one of their four flags is set.
type AccessControlService struct {
	accessControls AccessControlStore
	permissions    PermissionStore
}

func NewAccessControlService(accessControls AccessControlStore, permissions PermissionStore) *AccessControlService {
	return &AccessControlService{accessControls: accessControls, permissions: permissions}
}

// permissionFlag maps a permission codename prefix to the CRUD flag it
// drives. Codenames follow the add_/view_/change_/delete_ convention.
func permissionFlag(codename string) (string, bool) {
	prefix, _, found := strings.Cut(codename, "_")
	if !found {
		return "", false
	}
	switch prefix {
	case "add":
		return "create", true
	case "view":
		return "read", true
	case "change":
		return "update", true
	case "delete":
		return "remove", true
	}
	return "", false
}

// GrantPermissions adds each permission to the group and raises the matching
// flag on the group's row for the permission's entity. Permission IDs that do
// not resolve, or codenames outside the CRUD convention, are logged and
// skipped without failing the batch.
func (s *AccessControlService) GrantPermissions(ctx context.Context, groupID int64, permissionIDs []int64) error {
	for _, permID := range permissionIDs {
		perm, err := s.permissions.GetPermission(ctx, permID)
		if err != nil {
			if errors.Is(err, apperrors.ErrPermissionNotFound) {
				logger.Warn().Int64("permission_id", permID).Msg("skipping unknown permission")
				continue
			}
			return err
		}
		if err := s.permissions.AddPermission(ctx, groupID, permID); err != nil {
			return err
		}
		if err := s.applyFlag(ctx, groupID, perm, true); err != nil {
			return err
		}
	}
	return nil
}

// RevokePermissions removes each permission from the group and lowers the
// matching flag. A row whose four flags all end up false is deleted.
func (s *AccessControlService) RevokePermissions(ctx context.Context, groupID int64, permissionIDs []int64) error {
	for _, permID := range permissionIDs {
		perm, err := s.permissions.GetPermission(ctx, permID)
		if err != nil {
			if errors.Is(err, apperrors.ErrPermissionNotFound) {
				logger.Warn().Int64("permission_id", permID).Msg("skipping unknown permission")
				continue
			}
			return err
		}
		if err := s.permissions.RemovePermission(ctx, groupID, permID); err != nil {
			return err
		}
		if err := s.applyFlag(ctx, groupID, perm, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *AccessControlService) applyFlag(ctx context.Context, groupID int64, perm *models.Permission, value bool) error {
	flag, ok := permissionFlag(perm.Codename)
	if !ok {
		logger.Warn().
			Str("codename", perm.Codename).
			Msg("permission codename has no CRUD prefix, flags unchanged")
		return nil
	}

	ac, err := s.accessControls.Get(ctx, groupID, perm.EntityName)
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			return err
		}
		if !value {
			// Lowering a flag on a row that does not exist is a no-op.
			return nil
		}
		ac = &models.AccessControl{GroupID: groupID, EntityName: perm.EntityName}
	}

	switch flag {
	case "create":
		ac.CanCreate = value
	case "read":
		ac.CanRead = value
	case "update":
		ac.CanUpdate = value
	case "remove":
		ac.CanRemove = value
	}

	if ac.Empty() {
		return s.accessControls.Delete(ctx, groupID, perm.EntityName)
	}
	return s.accessControls.Upsert(ctx, ac)
}

// ProjectBitmap collapses a group's flag rows into the entity name to CRUD
// flags map handed to clients at login.
func (s *AccessControlService) ProjectBitmap(ctx context.Context, groupID int64) (map[string]dto.CRUDFlags, error) {
	rows, err := s.accessControls.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	bitmap := make(map[string]dto.CRUDFlags, len(rows))
	for _, row := range rows {
		bitmap[row.EntityName] = dto.CRUDFlags{
			Create: row.CanCreate,
			Read:   row.CanRead,
			Update: row.CanUpdate,
			Remove: row.CanRemove,
		}
	}
	return bitmap, nil
}

// RebuildFlags recomputes a group's flag rows from its current permission
// membership. Used after bulk membership edits done outside the service.
func (s *AccessControlService) RebuildFlags(ctx context.Context, groupID int64) error {
	perms, err := s.permissions.ListPermissions(ctx, groupID)
	if err != nil {
		return err
	}

	existing, err := s.accessControls.ListByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	for _, row := range existing {
		if err := s.accessControls.Delete(ctx, groupID, row.EntityName); err != nil {
			return err
		}
	}

	byEntity := make(map[string]*models.AccessControl)
	for _, perm := range perms {
		flag, ok := permissionFlag(perm.Codename)
		if !ok {
			continue
		}
		ac, exists := byEntity[perm.EntityName]
		if !exists {
			ac = &models.AccessControl{GroupID: groupID, EntityName: perm.EntityName}
			byEntity[perm.EntityName] = ac
		}
		switch flag {
		case "create":
			ac.CanCreate = true
		case "read":
			ac.CanRead = true
		case "update":
			ac.CanUpdate = true
		case "remove":
			ac.CanRemove = true
		}
	}
	for _, ac := range byEntity {
		if err := s.accessControls.Upsert(ctx, ac); err != nil {
			return err
		}
	}
	return nil
}

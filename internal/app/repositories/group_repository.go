package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/db"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/dberrors"
)

// GroupRepository handles group and permission database operations
type GroupRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(q db.Querier) *GroupRepository {
	return &GroupRepository{db: q, sb: statementBuilder()}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GroupRepository) WithTx(tx pgx.Tx) *GroupRepository {
	return &GroupRepository{db: tx, sb: r.sb}
}

// GetByName retrieves a group by its catalog name
func (r *GroupRepository) GetByName(ctx context.Context, name string) (*models.Group, error) {
	var group models.Group
	err := r.db.QueryRow(ctx,
		`SELECT id, name, range_start, range_end FROM groups WHERE name = $1`, name).
		Scan(&group.ID, &group.Name, &group.RangeStart, &group.RangeEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("error retrieving group: %w", err)
	}
	return &group, nil
}

// GetByID retrieves a group by id
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	var group models.Group
	err := r.db.QueryRow(ctx,
		`SELECT id, name, range_start, range_end FROM groups WHERE id = $1`, id).
		Scan(&group.ID, &group.Name, &group.RangeStart, &group.RangeEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("error retrieving group: %w", err)
	}
	return &group, nil
}

// GetPermission retrieves a permission by id
func (r *GroupRepository) GetPermission(ctx context.Context, id int64) (*models.Permission, error) {
	var perm models.Permission
	err := r.db.QueryRow(ctx,
		`SELECT id, codename, entity_name FROM permissions WHERE id = $1`, id).
		Scan(&perm.ID, &perm.Codename, &perm.EntityName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("error retrieving permission: %w", err)
	}
	return &perm, nil
}

// AddPermission grants a permission to a group; adding twice is a no-op
func (r *GroupRepository) AddPermission(ctx context.Context, groupID, permissionID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO group_permissions (group_id, permission_id) VALUES ($1, $2)
		 ON CONFLICT (group_id, permission_id) DO NOTHING`, groupID, permissionID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrPermissionNotFound
		}
		return fmt.Errorf("error adding permission to group: %w", err)
	}
	return nil
}

// RemovePermission revokes a permission from a group
func (r *GroupRepository) RemovePermission(ctx context.Context, groupID, permissionID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM group_permissions WHERE group_id = $1 AND permission_id = $2`,
		groupID, permissionID)
	if err != nil {
		return fmt.Errorf("error removing permission from group: %w", err)
	}
	return nil
}

// ListPermissions returns all permissions currently held by a group
func (r *GroupRepository) ListPermissions(ctx context.Context, groupID int64) ([]*models.Permission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT p.id, p.codename, p.entity_name FROM permissions p
		 JOIN group_permissions gp ON gp.permission_id = p.id
		 WHERE gp.group_id = $1
		 ORDER BY p.id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("error listing group permissions: %w", err)
	}
	defer rows.Close()

	var perms []*models.Permission
	for rows.Next() {
		var perm models.Permission
		if err := rows.Scan(&perm.ID, &perm.Codename, &perm.EntityName); err != nil {
			return nil, fmt.Errorf("error scanning permission row: %w", err)
		}
		perms = append(perms, &perm)
	}
	return perms, rows.Err()
}

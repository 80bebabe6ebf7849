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
)

// AccessControlRepository persists the derived per-(group, entity) CRUD rows
type AccessControlRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewAccessControlRepository creates a new AccessControlRepository
func NewAccessControlRepository(q db.Querier) *AccessControlRepository {
	return &AccessControlRepository{db: q, sb: statementBuilder()}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *AccessControlRepository) WithTx(tx pgx.Tx) *AccessControlRepository {
	return &AccessControlRepository{db: tx, sb: r.sb}
}

// Get retrieves the row keyed by (group, entity)
func (r *AccessControlRepository) Get(ctx context.Context, groupID int64, entityName string) (*models.AccessControl, error) {
	var ac models.AccessControl
	err := r.db.QueryRow(ctx,
		`SELECT id, group_id, entity_name, can_create, can_read, can_update, can_remove
		 FROM access_controls WHERE group_id = $1 AND entity_name = $2`,
		groupID, entityName).
		Scan(&ac.ID, &ac.GroupID, &ac.EntityName,
			&ac.CanCreate, &ac.CanRead, &ac.CanUpdate, &ac.CanRemove)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving access control: %w", err)
	}
	return &ac, nil
}

// Upsert inserts or updates the row keyed by (group, entity)
func (r *AccessControlRepository) Upsert(ctx context.Context, ac *models.AccessControl) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO access_controls (group_id, entity_name, can_create, can_read, can_update, can_remove)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (group_id, entity_name) DO UPDATE SET
			can_create = EXCLUDED.can_create,
			can_read = EXCLUDED.can_read,
			can_update = EXCLUDED.can_update,
			can_remove = EXCLUDED.can_remove
		 RETURNING id`,
		ac.GroupID, ac.EntityName, ac.CanCreate, ac.CanRead, ac.CanUpdate, ac.CanRemove).
		Scan(&ac.ID)
	if err != nil {
		return fmt.Errorf("error upserting access control: %w", err)
	}
	return nil
}

// Delete removes the row keyed by (group, entity)
func (r *AccessControlRepository) Delete(ctx context.Context, groupID int64, entityName string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM access_controls WHERE group_id = $1 AND entity_name = $2`,
		groupID, entityName)
	if err != nil {
		return fmt.Errorf("error deleting access control: %w", err)
	}
	return nil
}

// ListByGroup returns all rows for a group
func (r *AccessControlRepository) ListByGroup(ctx context.Context, groupID int64) ([]*models.AccessControl, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, group_id, entity_name, can_create, can_read, can_update, can_remove
		 FROM access_controls WHERE group_id = $1 ORDER BY entity_name`, groupID)
	if err != nil {
		return nil, fmt.Errorf("error listing access controls: %w", err)
	}
	defer rows.Close()

	var list []*models.AccessControl
	for rows.Next() {
		var ac models.AccessControl
		if err := rows.Scan(&ac.ID, &ac.GroupID, &ac.EntityName,
			&ac.CanCreate, &ac.CanRead, &ac.CanUpdate, &ac.CanRemove); err != nil {
			return nil, fmt.Errorf("error scanning access control row: %w", err)
		}
		list = append(list, &ac)
	}
	return list, rows.Err()
}

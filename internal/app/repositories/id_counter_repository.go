package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hamzahassan/campuscore/internal/db"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
)

// IDCounterRepository manages the per-group allocation counters. Each group
// owns one row in group_id_counters seeded at the start of its range; NextID
// locks the row so concurrent allocations for the same group serialize.
type IDCounterRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewIDCounterRepository creates a new IDCounterRepository
func NewIDCounterRepository(q db.Querier) *IDCounterRepository {
	return &IDCounterRepository{db: q, sb: statementBuilder()}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *IDCounterRepository) WithTx(tx pgx.Tx) *IDCounterRepository {
	return &IDCounterRepository{db: tx, sb: r.sb}
}

// NextID reserves and returns the next identifier for a group. Must run
// inside a transaction: the counter row stays locked until commit, so the
// read-bump-insert sequence cannot interleave with a concurrent allocation.
func (r *IDCounterRepository) NextID(ctx context.Context, groupName string) (int64, error) {
	var next int64
	err := r.db.QueryRow(ctx,
		`SELECT next_id FROM group_id_counters WHERE group_name = $1 FOR UPDATE`,
		groupName).Scan(&next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrUnknownGroup
		}
		return 0, fmt.Errorf("error reading id counter: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`UPDATE group_id_counters SET next_id = next_id + 1 WHERE group_name = $1`,
		groupName)
	if err != nil {
		return 0, fmt.Errorf("error advancing id counter: %w", err)
	}

	return next, nil
}

package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
)

// entities that carry permission rows in the catalog.
var permissionEntities = []string{
	"application", "account", "city", "location", "batch", "course", "session",
}

var permissionPrefixes = []string{"add", "view", "change", "delete"}

// Seed inserts the fixed group catalog, its ID counters and the permission
// catalog. Every statement is idempotent so seeding runs on each startup.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	if err := seedGroups(ctx, pool); err != nil {
		return err
	}
	if err := seedCounters(ctx, pool); err != nil {
		return err
	}
	if err := seedPermissions(ctx, pool); err != nil {
		return err
	}
	logger.Info().Msg("seed data ensured")
	return nil
}

func seedGroups(ctx context.Context, pool *pgxpool.Pool) error {
	for name, rng := range models.DefaultGroupCatalog() {
		_, err := pool.Exec(ctx,
			`INSERT INTO groups (name, range_start, range_end) VALUES ($1, $2, $3)
			 ON CONFLICT (name) DO NOTHING`,
			name, rng.Start, rng.End)
		if err != nil {
			return fmt.Errorf("failed to seed group %s: %w", name, err)
		}
	}
	return nil
}

// seedCounters creates one counter row per group, starting at the bottom of
// the group's range. Existing counters are never reset.
func seedCounters(ctx context.Context, pool *pgxpool.Pool) error {
	for name, rng := range models.DefaultGroupCatalog() {
		_, err := pool.Exec(ctx,
			`INSERT INTO group_id_counters (group_name, next_id) VALUES ($1, $2)
			 ON CONFLICT (group_name) DO NOTHING`,
			name, rng.Start)
		if err != nil {
			return fmt.Errorf("failed to seed counter for %s: %w", name, err)
		}
	}
	return nil
}

func seedPermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, entity := range permissionEntities {
		for _, prefix := range permissionPrefixes {
			codename := fmt.Sprintf("%s_%s", prefix, entity)
			_, err := pool.Exec(ctx,
				`INSERT INTO permissions (codename, entity_name) VALUES ($1, $2)
				 ON CONFLICT (codename) DO NOTHING`,
				codename, entity)
			if err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", codename, err)
			}
		}
	}
	return nil
}

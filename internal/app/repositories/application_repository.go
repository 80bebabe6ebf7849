package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/db"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/dberrors"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
)

// ApplicationRepository handles application database operations
type ApplicationRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(q db.Querier) *ApplicationRepository {
	return &ApplicationRepository{db: q, sb: statementBuilder()}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *ApplicationRepository) WithTx(tx pgx.Tx) *ApplicationRepository {
	return &ApplicationRepository{db: tx, sb: r.sb}
}

const applicationColumns = `id, email, first_name, last_name, group_name, status,
	city, city_abb, program, program_abb, skill, location_id, created_at, updated_at`

func scanApplication(row pgx.Row) (*models.Application, error) {
	var app models.Application
	err := row.Scan(&app.ID, &app.Email, &app.FirstName, &app.LastName,
		&app.GroupName, &app.Status, &app.City, &app.CityAbb,
		&app.Program, &app.ProgramAbb, &app.Skill, &app.LocationID,
		&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Create inserts a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("applications").
		Columns("email", "first_name", "last_name", "group_name", "status",
			"city", "city_abb", "program", "program_abb", "skill", "created_at", "updated_at").
		Values(app.Email, app.FirstName, app.LastName, app.GroupName, app.Status,
			app.City, app.CityAbb, app.Program, app.ProgramAbb, app.Skill, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create application query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&app.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "applications_email_key") {
			logger.Warn().Str("email", app.Email).Msg("Duplicate application email")
			return apperrors.ErrApplicationExists
		}
		logger.Error().Err(err).Str("email", app.Email).Msg("Error creating application")
		return fmt.Errorf("error creating application: %w", err)
	}

	app.CreatedAt = now
	app.UpdatedAt = now
	return nil
}

// GetByID retrieves an application by id
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	app, err := scanApplication(r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}
	return app, nil
}

// GetByEmail retrieves an application by email, case-insensitively
func (r *ApplicationRepository) GetByEmail(ctx context.Context, email string) (*models.Application, error) {
	app, err := scanApplication(r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}
	return app, nil
}

// List returns applications filtered by group name and status; empty filters
// match everything.
func (r *ApplicationRepository) List(ctx context.Context, groupName string, status models.ApplicationStatus) ([]*models.Application, error) {
	builder := r.sb.Select(applicationColumns).
		From("applications").
		OrderBy("created_at DESC")
	if groupName != "" {
		builder = builder.Where(squirrel.Eq{"group_name": groupName})
	}
	if status != "" {
		builder = builder.Where(squirrel.Eq{"status": status})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning application row: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// Update persists status and selection changes
func (r *ApplicationRepository) Update(ctx context.Context, app *models.Application) error {
	sql, args, err := r.sb.Update("applications").
		Set("status", app.Status).
		Set("program", app.Program).
		Set("program_abb", app.ProgramAbb).
		Set("skill", app.Skill).
		Set("location_id", app.LocationID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": app.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update application query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("applicationID", app.ID).Msg("Error updating application")
		return fmt.Errorf("error updating application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

// Delete removes an application; used when it is consumed by verification
func (r *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

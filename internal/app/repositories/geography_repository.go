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
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
)

// GeographyRepository handles city, location and batch database operations
type GeographyRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewGeographyRepository creates a new GeographyRepository
func NewGeographyRepository(q db.Querier) *GeographyRepository {
	return &GeographyRepository{db: q, sb: statementBuilder()}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GeographyRepository) WithTx(tx pgx.Tx) *GeographyRepository {
	return &GeographyRepository{db: tx, sb: r.sb}
}

// CreateCity inserts a city
func (r *GeographyRepository) CreateCity(ctx context.Context, city *models.City) error {
	sql, args, err := r.sb.Insert("cities").
		Columns("name", "short_name").
		Values(city.Name, city.ShortName).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create city query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&city.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("city already exists")
		}
		logger.Error().Err(err).Str("city", city.Name).Msg("Error creating city")
		return fmt.Errorf("error creating city: %w", err)
	}
	return nil
}

// GetCityByID retrieves a city by id
func (r *GeographyRepository) GetCityByID(ctx context.Context, id int64) (*models.City, error) {
	var city models.City
	err := r.db.QueryRow(ctx,
		`SELECT id, name, short_name FROM cities WHERE id = $1`, id).
		Scan(&city.ID, &city.Name, &city.ShortName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCityNotFound
		}
		return nil, fmt.Errorf("error retrieving city: %w", err)
	}
	return &city, nil
}

// GetCityByName retrieves a city by its name, case-insensitively
func (r *GeographyRepository) GetCityByName(ctx context.Context, name string) (*models.City, error) {
	var city models.City
	err := r.db.QueryRow(ctx,
		`SELECT id, name, short_name FROM cities WHERE LOWER(name) = LOWER($1)`, name).
		Scan(&city.ID, &city.Name, &city.ShortName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCityNotFound
		}
		return nil, fmt.Errorf("error retrieving city: %w", err)
	}
	return &city, nil
}

// ListCities returns all cities
func (r *GeographyRepository) ListCities(ctx context.Context) ([]*models.City, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, short_name FROM cities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing cities: %w", err)
	}
	defer rows.Close()

	var cities []*models.City
	for rows.Next() {
		var city models.City
		if err := rows.Scan(&city.ID, &city.Name, &city.ShortName); err != nil {
			return nil, fmt.Errorf("error scanning city row: %w", err)
		}
		cities = append(cities, &city)
	}
	return cities, rows.Err()
}

// CreateLocation inserts a location
func (r *GeographyRepository) CreateLocation(ctx context.Context, location *models.Location) error {
	sql, args, err := r.sb.Insert("locations").
		Columns("city_id", "name").
		Values(location.CityID, location.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create location query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&location.ID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCityNotFound
		}
		logger.Error().Err(err).Str("location", location.Name).Msg("Error creating location")
		return fmt.Errorf("error creating location: %w", err)
	}
	return nil
}

// GetLocationByID retrieves a location with its city
func (r *GeographyRepository) GetLocationByID(ctx context.Context, id int64) (*models.Location, error) {
	var location models.Location
	var city models.City
	err := r.db.QueryRow(ctx,
		`SELECT l.id, l.city_id, l.name, c.id, c.name, c.short_name
		 FROM locations l JOIN cities c ON c.id = l.city_id
		 WHERE l.id = $1`, id).
		Scan(&location.ID, &location.CityID, &location.Name,
			&city.ID, &city.Name, &city.ShortName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLocationNotFound
		}
		return nil, fmt.Errorf("error retrieving location: %w", err)
	}
	location.City = &city
	return &location, nil
}

// ListLocations returns all locations for a city; cityID 0 matches all
func (r *GeographyRepository) ListLocations(ctx context.Context, cityID int64) ([]*models.Location, error) {
	builder := r.sb.Select("id", "city_id", "name").From("locations").OrderBy("name")
	if cityID > 0 {
		builder = builder.Where(squirrel.Eq{"city_id": cityID})
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list locations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing locations: %w", err)
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		var location models.Location
		if err := rows.Scan(&location.ID, &location.CityID, &location.Name); err != nil {
			return nil, fmt.Errorf("error scanning location row: %w", err)
		}
		locations = append(locations, &location)
	}
	return locations, rows.Err()
}

// CreateBatch inserts a batch; its code must already be derived
func (r *GeographyRepository) CreateBatch(ctx context.Context, batch *models.Batch) error {
	sql, args, err := r.sb.Insert("batches").
		Columns("city_id", "year", "code").
		Values(batch.CityID, batch.Year, batch.Code).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create batch query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&batch.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("batch already exists for this city and year")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCityNotFound
		}
		logger.Error().Err(err).Str("code", batch.Code).Msg("Error creating batch")
		return fmt.Errorf("error creating batch: %w", err)
	}
	return nil
}

// GetBatchByID retrieves a batch by id
func (r *GeographyRepository) GetBatchByID(ctx context.Context, id int64) (*models.Batch, error) {
	var batch models.Batch
	err := r.db.QueryRow(ctx,
		`SELECT id, city_id, year, code FROM batches WHERE id = $1`, id).
		Scan(&batch.ID, &batch.CityID, &batch.Year, &batch.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBatchNotFound
		}
		return nil, fmt.Errorf("error retrieving batch: %w", err)
	}
	return &batch, nil
}

// GetBatchByCityAndYear resolves the batch for a city name and intake year
func (r *GeographyRepository) GetBatchByCityAndYear(ctx context.Context, cityName string, year int) (*models.Batch, error) {
	var batch models.Batch
	err := r.db.QueryRow(ctx,
		`SELECT b.id, b.city_id, b.year, b.code FROM batches b
		 JOIN cities c ON c.id = b.city_id
		 WHERE LOWER(c.name) = LOWER($1) AND b.year = $2`, cityName, year).
		Scan(&batch.ID, &batch.CityID, &batch.Year, &batch.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBatchNotFound
		}
		return nil, fmt.Errorf("error resolving batch: %w", err)
	}
	return &batch, nil
}

// ListBatches returns all batches for a city; cityID 0 matches all
func (r *GeographyRepository) ListBatches(ctx context.Context, cityID int64) ([]*models.Batch, error) {
	builder := r.sb.Select("id", "city_id", "year", "code").From("batches").OrderBy("year DESC")
	if cityID > 0 {
		builder = builder.Where(squirrel.Eq{"city_id": cityID})
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list batches query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing batches: %w", err)
	}
	defer rows.Close()

	var batches []*models.Batch
	for rows.Next() {
		var batch models.Batch
		if err := rows.Scan(&batch.ID, &batch.CityID, &batch.Year, &batch.Code); err != nil {
			return nil, fmt.Errorf("error scanning batch row: %w", err)
		}
		batches = append(batches, &batch)
	}
	return batches, rows.Err()
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/app/models/dto"
)

// GeographyStore covers the city, location and batch rows.
type GeographyStore interface {
	CreateCity(ctx context.Context, city *models.City) error
	CityByID(ctx context.Context, id int64) (*models.City, error)
	ListCities(ctx context.Context) ([]*models.City, error)
	CreateLocation(ctx context.Context, location *models.Location) error
	LocationByID(ctx context.Context, id int64) (*models.Location, error)
	ListLocations(ctx context.Context, cityID int64) ([]*models.Location, error)
	CreateBatch(ctx context.Context, batch *models.Batch) error
	ListBatches(ctx context.Context, cityID int64) ([]*models.Batch, error)
}

// GeographyService manages the city, location and batch hierarchy that
// sessions are scheduled against.
type GeographyService struct {
	store GeographyStore
}

func NewGeographyService(store GeographyStore) *GeographyService {
	return &GeographyService{store: store}
}

// CreateCity adds a city. Names are title-cased and short names uppercased
// so application normalization and batch codes line up.
func (s *GeographyService) CreateCity(ctx context.Context, req *dto.CreateCityRequest) (*models.City, error) {
	city := &models.City{
		Name:      titleCaser.String(strings.TrimSpace(req.Name)),
		ShortName: strings.ToUpper(strings.TrimSpace(req.ShortName)),
	}
	if err := s.store.CreateCity(ctx, city); err != nil {
		return nil, err
	}
	return city, nil
}

// ListCities returns all cities.
func (s *GeographyService) ListCities(ctx context.Context) ([]*models.City, error) {
	return s.store.ListCities(ctx)
}

// CreateLocation adds a location under an existing city.
func (s *GeographyService) CreateLocation(ctx context.Context, req *dto.CreateLocationRequest) (*models.Location, error) {
	if _, err := s.store.CityByID(ctx, req.CityID); err != nil {
		return nil, err
	}
	location := &models.Location{
		CityID: req.CityID,
		Name:   titleCaser.String(strings.TrimSpace(req.Name)),
	}
	if err := s.store.CreateLocation(ctx, location); err != nil {
		return nil, err
	}
	return s.store.LocationByID(ctx, location.ID)
}

// ListLocations returns locations, optionally filtered by city.
func (s *GeographyService) ListLocations(ctx context.Context, cityID int64) ([]*models.Location, error) {
	return s.store.ListLocations(ctx, cityID)
}

// CreateBatch adds a batch for a city and year. The code is derived once at
// creation as {city short name}-{two digit year}.
func (s *GeographyService) CreateBatch(ctx context.Context, req *dto.CreateBatchRequest) (*models.Batch, error) {
	city, err := s.store.CityByID(ctx, req.CityID)
	if err != nil {
		return nil, err
	}
	batch := &models.Batch{
		CityID: req.CityID,
		Year:   req.Year,
		Code:   fmt.Sprintf("%s-%02d", city.ShortName, req.Year%100),
	}
	if err := s.store.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}
	batch.City = city
	return batch, nil
}

// ListBatches returns batches, optionally filtered by city.
func (s *GeographyService) ListBatches(ctx context.Context, cityID int64) ([]*models.Batch, error) {
	return s.store.ListBatches(ctx, cityID)
}

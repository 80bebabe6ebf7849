package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/app/services"
	"github.com/hamzahassan/campuscore/internal/middleware"
)

// GeographyController handles the city/location/batch hierarchy.
type GeographyController struct {
	geographyService *services.GeographyService
}

func NewGeographyController(geographyService *services.GeographyService) *GeographyController {
	return &GeographyController{geographyService: geographyService}
}

func queryCityID(ctx *gin.Context) (int64, bool) {
	raw := ctx.Query("cityId")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "cityId must be a number"))
		return 0, false
	}
	return id, true
}

// CreateCity handles city creation
// @Summary Create a city
// @Tags geography
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCityRequest true "City"
// @Success 201 {object} dto.APIResponse{data=models.City}
// @Router /cities [post]
func (c *GeographyController) CreateCity(ctx *gin.Context) {
	var req dto.CreateCityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid city data: "+err.Error()))
		return
	}

	city, err := c.geographyService.CreateCity(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.Created("City created", city))
}

// ListCities handles city listing
// @Summary List cities
// @Tags geography
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.City}
// @Router /cities [get]
func (c *GeographyController) ListCities(ctx *gin.Context) {
	cities, err := c.geographyService.ListCities(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Cities retrieved", cities))
}

// CreateLocation handles location creation
// @Summary Create a location
// @Tags geography
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLocationRequest true "Location"
// @Success 201 {object} dto.APIResponse{data=models.Location}
// @Failure 404 {object} dto.APIResponse "City not found"
// @Router /locations [post]
func (c *GeographyController) CreateLocation(ctx *gin.Context) {
	var req dto.CreateLocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid location data: "+err.Error()))
		return
	}

	location, err := c.geographyService.CreateLocation(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.Created("Location created", location))
}

// ListLocations handles location listing
// @Summary List locations
// @Tags geography
// @Produce json
// @Security BearerAuth
// @Param cityId query int false "City filter"
// @Success 200 {object} dto.APIResponse{data=[]models.Location}
// @Router /locations [get]
func (c *GeographyController) ListLocations(ctx *gin.Context) {
	cityID, ok := queryCityID(ctx)
	if !ok {
		return
	}
	locations, err := c.geographyService.ListLocations(ctx, cityID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Locations retrieved", locations))
}

// CreateBatch handles batch creation
// @Summary Create a batch
// @Description Derives the batch code from the city short name and year
// @Tags geography
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBatchRequest true "Batch"
// @Success 201 {object} dto.APIResponse{data=models.Batch}
// @Failure 404 {object} dto.APIResponse "City not found"
// @Router /batches [post]
func (c *GeographyController) CreateBatch(ctx *gin.Context) {
	var req dto.CreateBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid batch data: "+err.Error()))
		return
	}

	batch, err := c.geographyService.CreateBatch(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.Created("Batch created", batch))
}

// ListBatches handles batch listing
// @Summary List batches
// @Tags geography
// @Produce json
// @Security BearerAuth
// @Param cityId query int false "City filter"
// @Success 200 {object} dto.APIResponse{data=[]models.Batch}
// @Router /batches [get]
func (c *GeographyController) ListBatches(ctx *gin.Context) {
	cityID, ok := queryCityID(ctx)
	if !ok {
		return
	}
	batches, err := c.geographyService.ListBatches(ctx, cityID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Batches retrieved", batches))
}

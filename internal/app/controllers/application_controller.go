package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/app/services"
	"github.com/hamzahassan/campuscore/internal/middleware"
)

// ApplicationController handles registration request operations.
type ApplicationController struct {
	applicationService *services.ApplicationService
}

func NewApplicationController(applicationService *services.ApplicationService) *ApplicationController {
	return &ApplicationController{applicationService: applicationService}
}

// Submit handles new application submission
// @Summary Submit an application
// @Description Creates a pending registration request
// @Tags applications
// @Accept json
// @Produce json
// @Param request body dto.SubmitApplicationRequest true "Application"
// @Success 201 {object} dto.APIResponse{data=models.Application}
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 409 {object} dto.APIResponse "Application already exists"
// @Router /applications [post]
func (c *ApplicationController) Submit(ctx *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid application data: "+err.Error()))
		return
	}

	app, err := c.applicationService.Submit(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.Created("Application submitted", app))
}

// List handles application listing
// @Summary List applications
// @Description Lists applications filtered by group and status
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param group query string false "Group name filter"
// @Param status query string false "Status filter"
// @Success 200 {object} dto.APIResponse{data=[]models.Application}
// @Router /applications [get]
func (c *ApplicationController) List(ctx *gin.Context) {
	apps, err := c.applicationService.List(ctx,
		ctx.Query("group"),
		models.ApplicationStatus(ctx.Query("status")))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Applications retrieved", apps))
}

// Get handles single application retrieval
// @Summary Get an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=models.Application}
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /applications/{id} [get]
func (c *ApplicationController) Get(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Application ID must be a number"))
		return
	}

	app, err := c.applicationService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Application retrieved", app))
}

// Process handles application status transitions
// @Summary Process an application
// @Description Transitions status and records staff selections; approval issues the verification email
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.ProcessApplicationRequest true "Transition"
// @Success 200 {object} dto.APIResponse{data=models.Application}
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 409 {object} dto.APIResponse "Invalid status transition"
// @Router /applications/{id} [patch]
func (c *ApplicationController) Process(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Application ID must be a number"))
		return
	}

	var req dto.ProcessApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid transition data: "+err.Error()))
		return
	}

	app, err := c.applicationService.Process(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Application processed", app))
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/app/services"
	"github.com/hamzahassan/campuscore/internal/middleware"
)

// SessionController handles session and course catalog operations.
type SessionController struct {
	sessionService *services.SessionService
}

func NewSessionController(sessionService *services.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// Create handles session creation
// @Summary Create a session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSessionRequest true "Session"
// @Success 201 {object} dto.APIResponse{data=models.Session}
// @Failure 400 {object} dto.APIResponse "Invalid session data"
// @Router /sessions [post]
func (c *SessionController) Create(ctx *gin.Context) {
	var req dto.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid session data: "+err.Error()))
		return
	}

	session, err := c.sessionService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.Created("Session created", session))
}

// List handles session listing
// @Summary List sessions
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param locationId query int false "Location filter"
// @Success 200 {object} dto.APIResponse{data=[]models.Session}
// @Router /sessions [get]
func (c *SessionController) List(ctx *gin.Context) {
	var locationID int64
	if raw := ctx.Query("locationId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "locationId must be a number"))
			return
		}
		locationID = parsed
	}

	sessions, err := c.sessionService.List(ctx, locationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Sessions retrieved", sessions))
}

// Get handles single session retrieval
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=models.Session}
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Router /sessions/{id} [get]
func (c *SessionController) Get(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Session ID must be a number"))
		return
	}

	session, err := c.sessionService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Session retrieved", session))
}

// Delete soft-deletes a session and its bindings
// @Summary Delete a session
// @Description Marks the session deleted and cascades the status to its bindings
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Router /sessions/{id} [delete]
func (c *SessionController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Session ID must be a number"))
		return
	}

	if err := c.sessionService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Session deleted", nil))
}

type createCourseRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// CreateCourse adds a course to the catalog
// @Summary Create a course
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Router /courses [post]
func (c *SessionController) CreateCourse(ctx *gin.Context) {
	var req createCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid course data: "+err.Error()))
		return
	}

	course, err := c.sessionService.CreateCourse(ctx, req.Code, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.Created("Course created", course))
}

// Stats returns aggregate counts
// @Summary Aggregate counts
// @Description Accounts per group and active session count
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=map[string]int64}
// @Router /stats [get]
func (c *SessionController) Stats(ctx *gin.Context) {
	stats, err := c.sessionService.Stats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Stats retrieved", stats))
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/app/services"
	"github.com/hamzahassan/campuscore/internal/middleware"
)

// AssignmentController handles session binding for the authenticated
// account's profile.
type AssignmentController struct {
	assignmentService *services.AssignmentService
	scheduleService   *services.ScheduleService
}

func NewAssignmentController(assignmentService *services.AssignmentService, scheduleService *services.ScheduleService) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
		scheduleService:   scheduleService,
	}
}

// AssignStudent binds the student to sessions
// @Summary Assign sessions to a student
// @Description Validates the batch in input order; the first violation aborts the whole batch
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignSessionsRequest true "Session IDs"
// @Success 201 {object} dto.APIResponse{data=dto.AssignmentSummary}
// @Failure 409 {object} dto.APIResponse "Timing conflict"
// @Router /assignments/student [post]
func (c *AssignmentController) AssignStudent(ctx *gin.Context) {
	var req dto.AssignSessionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid assignment data: "+err.Error()))
		return
	}

	summary, err := c.assignmentService.AssignStudent(ctx, middleware.AccountID(ctx), req.SessionIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.Created("Sessions assigned", summary))
}

// AssignInstructor binds the instructor to sessions
// @Summary Assign sessions to an instructor
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignSessionsRequest true "Session IDs"
// @Success 201 {object} dto.APIResponse{data=dto.AssignmentSummary}
// @Failure 409 {object} dto.APIResponse "Timing conflict or instructor taken"
// @Router /assignments/instructor [post]
func (c *AssignmentController) AssignInstructor(ctx *gin.Context) {
	var req dto.AssignSessionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid assignment data: "+err.Error()))
		return
	}

	summary, err := c.assignmentService.AssignInstructor(ctx, middleware.AccountID(ctx), req.SessionIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.Created("Sessions assigned", summary))
}

// Calendar returns the per-date expansion of the account's sessions
// @Summary Get calendar
// @Description Expands weekday recurrence into concrete dates, ascending
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CalendarResponse}
// @Router /schedule/calendar [get]
func (c *AssignmentController) Calendar(ctx *gin.Context) {
	calendar, err := c.scheduleService.BuildCalendar(ctx, middleware.AccountID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Calendar built", calendar))
}

// CalendarICS exports the calendar as iCalendar
// @Summary Export calendar as ICS
// @Tags assignments
// @Produce text/calendar
// @Security BearerAuth
// @Success 200 {string} string "iCalendar document"
// @Router /schedule/calendar.ics [get]
func (c *AssignmentController) CalendarICS(ctx *gin.Context) {
	document, err := c.scheduleService.ExportICS(ctx, middleware.AccountID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	ctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(document))
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/app/services"
	"github.com/hamzahassan/campuscore/internal/middleware"
)

// GroupController handles group permission membership. Every change is
// immediately projected onto the group's CRUD flag rows.
type GroupController struct {
	accessControlService *services.AccessControlService
}

func NewGroupController(accessControlService *services.AccessControlService) *GroupController {
	return &GroupController{accessControlService: accessControlService}
}

type permissionBatchRequest struct {
	PermissionIDs []int64 `json:"permissionIds" binding:"required"`
}

func groupIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Group ID must be a number"))
		return 0, false
	}
	return id, true
}

// GrantPermissions adds permissions to a group
// @Summary Grant permissions
// @Description Adds permissions and raises the matching CRUD flags; unknown IDs are skipped
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body permissionBatchRequest true "Permission IDs"
// @Success 200 {object} dto.APIResponse{data=map[string]dto.CRUDFlags}
// @Router /groups/{id}/permissions [post]
func (c *GroupController) GrantPermissions(ctx *gin.Context) {
	groupID, ok := groupIDParam(ctx)
	if !ok {
		return
	}
	var req permissionBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid permission data: "+err.Error()))
		return
	}

	if err := c.accessControlService.GrantPermissions(ctx, groupID, req.PermissionIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.respondBitmap(ctx, groupID)
}

// RevokePermissions removes permissions from a group
// @Summary Revoke permissions
// @Description Removes permissions and lowers the matching CRUD flags; empty rows are deleted
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body permissionBatchRequest true "Permission IDs"
// @Success 200 {object} dto.APIResponse{data=map[string]dto.CRUDFlags}
// @Router /groups/{id}/permissions [delete]
func (c *GroupController) RevokePermissions(ctx *gin.Context) {
	groupID, ok := groupIDParam(ctx)
	if !ok {
		return
	}
	var req permissionBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid permission data: "+err.Error()))
		return
	}

	if err := c.accessControlService.RevokePermissions(ctx, groupID, req.PermissionIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.respondBitmap(ctx, groupID)
}

// GetBitmap returns the group's current CRUD bitmap
// @Summary Get permission bitmap
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=map[string]dto.CRUDFlags}
// @Router /groups/{id}/permissions [get]
func (c *GroupController) GetBitmap(ctx *gin.Context) {
	groupID, ok := groupIDParam(ctx)
	if !ok {
		return
	}
	c.respondBitmap(ctx, groupID)
}

func (c *GroupController) respondBitmap(ctx *gin.Context, groupID int64) {
	bitmap, err := c.accessControlService.ProjectBitmap(ctx, groupID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Permission bitmap", bitmap))
}

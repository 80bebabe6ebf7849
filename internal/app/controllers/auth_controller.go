package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/app/services"
	"github.com/hamzahassan/campuscore/internal/middleware"
)

// AuthController handles authentication and account verification.
type AuthController struct {
	authService         *services.AuthService
	verificationService *services.VerificationService
	applicationService  *services.ApplicationService
}

func NewAuthController(authService *services.AuthService, verificationService *services.VerificationService, applicationService *services.ApplicationService) *AuthController {
	return &AuthController{
		authService:         authService,
		verificationService: verificationService,
		applicationService:  applicationService,
	}
}

// Login handles authentication
// @Summary Log in
// @Description Authenticates by email and password, returns tokens, profile, permission bitmap and session list
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse}
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid login data: "+err.Error()))
		return
	}

	resp, err := c.authService.Login(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Login successful", resp))
}

// Refresh handles token refresh
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse}
// @Failure 401 {object} dto.APIResponse "Token revoked or expired"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid refresh data: "+err.Error()))
		return
	}

	resp, err := c.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Tokens refreshed", resp))
}

// Logout revokes the account's refresh tokens
// @Summary Log out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx, middleware.AccountID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Logged out", nil))
}

// Verify consumes a verification token
// @Summary Verify an application token
// @Description Creates the account and profile from an approved application
// @Tags auth
// @Produce json
// @Param token query string true "Signed verification token"
// @Success 200 {object} dto.APIResponse{data=dto.VerifyResponse}
// @Failure 400 {object} dto.APIResponse "Invalid or expired token"
// @Router /auth/verify [get]
func (c *AuthController) Verify(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Token is required"))
		return
	}

	resp, err := c.verificationService.Verify(ctx, token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Account created", resp))
}

// SetPassword sets the first password after verification
// @Summary Set password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SetPasswordRequest true "Token and password"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Invalid or expired token"
// @Router /auth/set-password [post]
func (c *AuthController) SetPassword(ctx *gin.Context) {
	var req dto.SetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid password data: "+err.Error()))
		return
	}

	if err := c.verificationService.CompleteSetPassword(ctx, req.Token, req.Password); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Password set", nil))
}

// ResendVerification re-issues the verification email
// @Summary Resend verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResendVerificationRequest true "Email"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Application not approved"
// @Failure 409 {object} dto.APIResponse "Already verified"
// @Router /auth/resend-verification [post]
func (c *AuthController) ResendVerification(ctx *gin.Context) {
	var req dto.ResendVerificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid request data: "+err.Error()))
		return
	}

	if err := c.applicationService.ResendVerification(ctx, req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Verification email sent", nil))
}

// CreateStaffAccount provisions an administrative account
// @Summary Create staff account
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStaffAccountRequest true "Staff account"
// @Success 201 {object} dto.APIResponse{data=models.Account}
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Router /auth/staff [post]
func (c *AuthController) CreateStaffAccount(ctx *gin.Context) {
	var req dto.CreateStaffAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid account data: "+err.Error()))
		return
	}

	account, err := c.authService.CreateStaffAccount(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.Created("Staff account created", account))
}

// ChangePassword rotates the authenticated account's password
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse "Wrong old password"
// @Router /auth/change-password [post]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid password data: "+err.Error()))
		return
	}

	if err := c.authService.ChangePassword(ctx, middleware.AccountID(ctx), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Password changed", nil))
}

// ForgotPassword requests a reset link
// @Summary Request password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResendVerificationRequest true "Email"
// @Success 200 {object} dto.APIResponse
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ResendVerificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid request data: "+err.Error()))
		return
	}

	if err := c.authService.RequestPasswordReset(ctx, req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("If the email exists, a reset link was sent", nil))
}

// ResetPassword completes a password reset
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SetPasswordRequest true "Token and new password"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Invalid or expired token"
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.SetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid password data: "+err.Error()))
		return
	}

	if err := c.authService.ResetPassword(ctx, req.Token, req.Password); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Password reset", nil))
}

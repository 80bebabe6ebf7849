package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamzahassan/campuscore/internal/app/controllers"
	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	applicationController *controllers.ApplicationController,
	geographyController *controllers.GeographyController,
	sessionController *controllers.SessionController,
	assignmentController *controllers.AssignmentController,
	groupController *controllers.GroupController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.GET("/verify", authController.Verify)
		auth.POST("/set-password", authController.SetPassword)
		auth.POST("/resend-verification", authController.ResendVerification)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// Application submission is public; review is staff only.
	v1.POST("/applications", applicationController.Submit)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.POST("/auth/change-password", authController.ChangePassword)

		// Staff: application review and account provisioning.
		staff := authenticated.Group("")
		staff.Use(authMiddleware.RequireGroup(models.GroupAdmin, models.GroupHOD))
		{
			staff.GET("/applications", applicationController.List)
			staff.GET("/applications/:id", applicationController.Get)
			staff.PATCH("/applications/:id", applicationController.Process)

			staff.POST("/cities", geographyController.CreateCity)
			staff.POST("/locations", geographyController.CreateLocation)
			staff.POST("/batches", geographyController.CreateBatch)

			staff.POST("/courses", sessionController.CreateCourse)
			staff.POST("/sessions", sessionController.Create)
			staff.DELETE("/sessions/:id", sessionController.Delete)

			staff.GET("/stats", sessionController.Stats)
		}

		// Superuser-grade account and permission administration.
		admin := authenticated.Group("")
		admin.Use(authMiddleware.RequireGroup(models.GroupAdmin))
		{
			admin.POST("/auth/staff", authController.CreateStaffAccount)
			admin.GET("/groups/:id/permissions", groupController.GetBitmap)
			admin.POST("/groups/:id/permissions", groupController.GrantPermissions)
			admin.DELETE("/groups/:id/permissions", groupController.RevokePermissions)
		}

		// Catalog reads for any authenticated account.
		authenticated.GET("/cities", geographyController.ListCities)
		authenticated.GET("/locations", geographyController.ListLocations)
		authenticated.GET("/batches", geographyController.ListBatches)
		authenticated.GET("/sessions", sessionController.List)
		authenticated.GET("/sessions/:id", sessionController.Get)

		// Session assignment, scoped by profile group.
		assignments := authenticated.Group("/assignments")
		{
			student := assignments.Group("")
			student.Use(authMiddleware.RequireGroup(models.GroupStudent))
			student.POST("/student", assignmentController.AssignStudent)

			instructor := assignments.Group("")
			instructor.Use(authMiddleware.RequireGroup(models.GroupInstructor))
			instructor.POST("/instructor", assignmentController.AssignInstructor)
		}

		authenticated.GET("/schedule/calendar", assignmentController.Calendar)
		authenticated.GET("/schedule/calendar.ics", assignmentController.CalendarICS)
	}
}

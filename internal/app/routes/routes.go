package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/controllers"
	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
	"github.com/HosamGirgis55/Academix-sub001/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	sessionRequestController *controllers.SessionRequestController,
	bookingController *controllers.BookingController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/device", authController.RegisterDevice)

		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetProfile)
			users.GET("/me/balance", userController.GetBalance)
		}

		sessionRequests := authenticated.Group("/session-requests")
		{
			sessionRequests.GET("", sessionRequestController.List)
			sessionRequests.GET("/:id", sessionRequestController.GetByID)

			// Students create and cancel their own requests
			studentProtected := sessionRequests.Group("")
			studentProtected.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
			{
				studentProtected.POST("", sessionRequestController.Create)
				studentProtected.POST("/:id/cancel", sessionRequestController.Cancel)
			}

			// Teachers decide on requests addressed to them
			teacherProtected := sessionRequests.Group("")
			teacherProtected.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				teacherProtected.POST("/:id/accept", bookingController.Accept)
				teacherProtected.POST("/:id/reject", bookingController.Reject)
			}
		}

		sessions := authenticated.Group("/sessions")
		{
			sessions.GET("", bookingController.ListSessions)
			sessions.GET("/:id", bookingController.GetSession)
			sessions.POST("/:id/end", bookingController.EndSession)

			sessionsTeacherProtected := sessions.Group("")
			sessionsTeacherProtected.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				sessionsTeacherProtected.POST("/:id/start", bookingController.StartSession)
			}
		}
	}
}

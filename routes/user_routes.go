package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homenest/homenest_backend/controllers"
	"github.com/homenest/homenest_backend/middleware"
	"github.com/homenest/homenest_backend/models"
	"github.com/homenest/homenest_backend/services"
)

// RegisterUserRoutes sets up auth, profile, notification and password routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client, mailer services.Mailer) {
	userController := controllers.NewUserController(db)
	passwordController := controllers.NewPasswordController(db, mailer)
	notificationController := controllers.NewNotificationController(db)

	e.POST("/api/users/register", userController.Register)
	e.POST("/api/users/login", userController.Login)
	e.POST("/api/password/forgot-password", passwordController.ForgotPassword)
	e.POST("/api/password/reset-password", passwordController.ResetPassword)

	r := e.Group("/api/users")
	r.Use(middleware.JWTMiddleware())
	r.GET("/me", userController.GetProfile)
	r.PUT("/me", userController.UpdateProfile)
	r.POST("/me/profile-image", userController.UploadProfileImage)
	r.GET("/admin", userController.GetAllUsers, middleware.RequireRoles(models.RoleAdmin))
	r.DELETE("/:id", userController.DeleteUser, middleware.RequireRoles(models.RoleAdmin))

	n := e.Group("/api/notifications")
	n.Use(middleware.JWTMiddleware())
	n.GET("", notificationController.GetNotifications)
	n.PATCH("/:id/read", notificationController.MarkNotificationRead)
	n.DELETE("", notificationController.ClearNotifications)
}

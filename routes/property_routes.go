package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homenest/homenest_backend/controllers"
	"github.com/homenest/homenest_backend/middleware"
	"github.com/homenest/homenest_backend/models"
	"github.com/homenest/homenest_backend/services"
	ws "github.com/homenest/homenest_backend/websocket"
)

// RegisterPropertyRoutes sets up listing, review and inquiry routes
func RegisterPropertyRoutes(e *echo.Echo, db *mongo.Client, mailer services.Mailer, hub *ws.Hub) {
	propertyController := controllers.NewPropertyController(db, mailer, hub)

	// Public browsing
	e.GET("/api/properties", propertyController.GetProperties)
	e.POST("/api/properties/:id/inquiries", propertyController.CreateInquiry)
	e.GET("/api/properties/owner/:id", propertyController.GetPropertyOwner)

	r := e.Group("/api/properties")
	r.Use(middleware.JWTMiddleware())

	r.POST("", propertyController.CreateProperty)
	r.GET("/my-properties", propertyController.GetMyProperties)
	r.GET("/admin/pending", propertyController.GetPendingProperties, middleware.RequireRoles(models.RoleAdmin))
	r.GET("/admin/rejected", propertyController.GetRejectedProperties, middleware.RequireRoles(models.RoleAdmin))
	r.PATCH("/:id/approve", propertyController.ApproveProperty, middleware.RequireRoles(models.RoleAdmin))
	r.PATCH("/:id/reject", propertyController.RejectProperty, middleware.RequireRoles(models.RoleAdmin))
	r.GET("/:id/inquiries", propertyController.GetInquiries)
	r.PUT("/:id", propertyController.UpdateProperty)
	r.DELETE("/:id", propertyController.DeleteProperty)

	// Property detail is public, so it sits outside the authenticated group
	e.GET("/api/properties/:id", propertyController.GetProperty)
}

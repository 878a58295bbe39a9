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

// RegisterBookingRoutes sets up the booking lifecycle routes
func RegisterBookingRoutes(e *echo.Echo, db *mongo.Client, mailer services.Mailer, hub *ws.Hub) {
	bookingController := controllers.NewBookingController(db, mailer, hub)

	// The availability check is public so visitors can probe dates before
	// signing up
	e.GET("/api/bookings/check-availability/:id", bookingController.CheckAvailability)

	r := e.Group("/api/bookings")
	r.Use(middleware.JWTMiddleware())

	r.POST("", bookingController.CreateBooking)
	r.GET("/my-bookings", bookingController.GetMyBookings)
	r.GET("/property/:id", bookingController.GetPropertyBookings)
	r.GET("/admin", bookingController.GetAllBookings, middleware.RequireRoles(models.RoleAdmin))
	r.GET("/:id", bookingController.GetBooking)
	r.PATCH("/:id/status", bookingController.UpdateBookingStatus)
	r.DELETE("/:id", bookingController.DeleteBooking, middleware.RequireRoles(models.RoleAdmin))
}

package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homenest/homenest_backend/services"
	ws "github.com/homenest/homenest_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route
// registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, rdb *redis.Client, mailer services.Mailer, hub *ws.Hub) {
	RegisterUserRoutes(e, db, mailer)
	RegisterPropertyRoutes(e, db, mailer, hub)
	RegisterBookingRoutes(e, db, mailer, hub)
	RegisterWishlistRoutes(e, db)
	RegisterMiscRoutes(e, db, rdb, mailer)

	e.GET("/api/ws", func(c echo.Context) error {
		return ws.HandleWebSocket(c, hub)
	})
}

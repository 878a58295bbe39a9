package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homenest/homenest_backend/controllers"
	"github.com/homenest/homenest_backend/middleware"
)

// RegisterWishlistRoutes sets up the saved-property routes
func RegisterWishlistRoutes(e *echo.Echo, db *mongo.Client) {
	wishlistController := controllers.NewWishlistController(db)

	r := e.Group("/api/wishlist")
	r.Use(middleware.JWTMiddleware())

	r.POST("", wishlistController.AddToWishlist)
	r.GET("", wishlistController.GetWishlist)
	r.DELETE("/:propertyId", wishlistController.RemoveFromWishlist)
}

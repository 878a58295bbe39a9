package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homenest/homenest_backend/config"
	"github.com/homenest/homenest_backend/middleware"
	"github.com/homenest/homenest_backend/models"
	"github.com/homenest/homenest_backend/services"
)

// WishlistController handles saved-property endpoints
type WishlistController struct {
	DB *mongo.Client
}

// NewWishlistController creates a new wishlist controller
func NewWishlistController(db *mongo.Client) *WishlistController {
	return &WishlistController{DB: db}
}

func (wc *WishlistController) wishlists() *mongo.Collection {
	return config.GetCollection(wc.DB, "wishlists")
}

// AddToWishlist handles POST /api/wishlist
func (wc *WishlistController) AddToWishlist(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	var req models.WishlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
			Error:   services.CodeValidation,
		})
	}
	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid property ID",
			Error:   services.CodeValidation,
		})
	}

	count, err := config.GetCollection(wc.DB, "properties").CountDocuments(ctx, bson.M{"_id": propertyID})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	if count == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "Property not found",
			Error:   services.CodeNotFound,
		})
	}

	entry := models.Wishlist{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now(),
	}
	if _, err := wc.wishlists().InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Success: false,
				Message: "Property is already in your wishlist",
				Error:   services.CodeValidation,
			})
		}
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Property added to wishlist",
		Data:    entry,
	})
}

// GetWishlist handles GET /api/wishlist with populated properties
func (wc *WishlistController) GetWishlist(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := wc.wishlists().Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	defer cursor.Close(ctx)

	items := []models.Wishlist{}
	if err := cursor.All(ctx, &items); err != nil {
		return domainErrorResponse(c, err)
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.PropertyID)
	}

	properties := map[primitive.ObjectID]*models.Property{}
	if len(ids) > 0 {
		pcursor, err := config.GetCollection(wc.DB, "properties").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return domainErrorResponse(c, err)
		}
		defer pcursor.Close(ctx)

		for pcursor.Next(ctx) {
			var p models.Property
			if err := pcursor.Decode(&p); err != nil {
				return domainErrorResponse(c, err)
			}
			prop := p
			properties[p.ID] = &prop
		}
		if err := pcursor.Err(); err != nil {
			return domainErrorResponse(c, err)
		}
	}

	// Entries whose property was deleted are skipped
	entries := make([]models.WishlistEntry, 0, len(items))
	for _, item := range items {
		property, ok := properties[item.PropertyID]
		if !ok {
			continue
		}
		entries = append(entries, models.WishlistEntry{
			ID:        item.ID,
			Property:  property,
			CreatedAt: item.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Wishlist retrieved successfully",
		Data:    entries,
	})
}

// RemoveFromWishlist handles DELETE /api/wishlist/:propertyId
func (wc *WishlistController) RemoveFromWishlist(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	propertyID, err := primitive.ObjectIDFromHex(c.Param("propertyId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid property ID",
			Error:   services.CodeValidation,
		})
	}

	result, err := wc.wishlists().DeleteOne(ctx, bson.M{"userId": userID, "propertyId": propertyID})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "Property is not in your wishlist",
			Error:   services.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Property removed from wishlist",
	})
}

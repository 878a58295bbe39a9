package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homenest/homenest_backend/config"
	"github.com/homenest/homenest_backend/models"
)

// ActivityController serves the admin audit trail
type ActivityController struct {
	DB *mongo.Client
}

// NewActivityController creates a new activity controller
func NewActivityController(db *mongo.Client) *ActivityController {
	return &ActivityController{DB: db}
}

// GetActivities handles GET /api/activities (admin)
func (ac *ActivityController) GetActivities(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if activityType := c.QueryParam("type"); activityType != "" {
		filter["type"] = activityType
	}

	limit := int64(100)
	if l, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64); err == nil && l > 0 && l <= 500 {
		limit = l
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	cursor, err := config.GetCollection(ac.DB, "activities").Find(ctx, filter, opts)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	defer cursor.Close(ctx)

	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Activities retrieved successfully",
		Data:    activities,
	})
}

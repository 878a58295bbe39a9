package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homenest/homenest_backend/config"
	"github.com/homenest/homenest_backend/middleware"
	"github.com/homenest/homenest_backend/models"
	"github.com/homenest/homenest_backend/services"
)

// NotificationController serves the in-app notifications embedded on the
// user document
type NotificationController struct {
	DB *mongo.Client
}

// NewNotificationController creates a new notification controller
func NewNotificationController(db *mongo.Client) *NotificationController {
	return &NotificationController{DB: db}
}

// GetNotifications handles GET /api/notifications
func (nc *NotificationController) GetNotifications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	var user models.User
	err = config.GetCollection(nc.DB, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "User not found",
				Error:   services.CodeNotFound,
			})
		}
		return domainErrorResponse(c, err)
	}

	notifications := user.Notifications
	if notifications == nil {
		notifications = []models.UserNotification{}
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Notifications retrieved successfully",
		Data:    notifications,
	})
}

// MarkNotificationRead handles PATCH /api/notifications/:id/read
func (nc *NotificationController) MarkNotificationRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid notification ID",
			Error:   services.CodeValidation,
		})
	}

	result, err := config.GetCollection(nc.DB, "users").UpdateOne(ctx,
		bson.M{"_id": userID, "notifications._id": notificationID},
		bson.M{"$set": bson.M{"notifications.$.read": true}})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "Notification not found",
			Error:   services.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Notification marked as read",
	})
}

// ClearNotifications handles DELETE /api/notifications
func (nc *NotificationController) ClearNotifications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	_, err = config.GetCollection(nc.DB, "users").UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"notifications": []models.UserNotification{}}})
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Notifications cleared",
	})
}

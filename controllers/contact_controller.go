package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homenest/homenest_backend/config"
	"github.com/homenest/homenest_backend/models"
	"github.com/homenest/homenest_backend/services"
	"github.com/homenest/homenest_backend/utils"
)

// ContactController handles support messages and admin replies
type ContactController struct {
	DB     *mongo.Client
	Mailer services.Mailer
}

// NewContactController creates a new contact controller
func NewContactController(db *mongo.Client, mailer services.Mailer) *ContactController {
	return &ContactController{DB: db, Mailer: mailer}
}

func (cc *ContactController) contacts() *mongo.Collection {
	return config.GetCollection(cc.DB, "contacts")
}

// SubmitMessage handles POST /api/contact (public)
func (cc *ContactController) SubmitMessage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
			Error:   services.CodeValidation,
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: err.Error(),
			Error:   services.CodeValidation,
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid email address",
			Error:   services.CodeValidation,
		})
	}

	message := models.ContactMessage{
		ID:      primitive.NewObjectID(),
		Name:    utils.SanitizeInput(req.Name),
		Email:   email,
		Message: utils.SanitizeInput(req.Message),
		Date:    time.Now(),
	}
	if _, err := cc.contacts().InsertOne(ctx, message); err != nil {
		return domainErrorResponse(c, err)
	}

	// Let the support inbox know a message arrived
	if adminEmail := os.Getenv("ADMIN_EMAIL"); adminEmail != "" {
		go func(msg models.ContactMessage) {
			body := "<p><strong>From:</strong> " + msg.Name + " (" + msg.Email + ")</p>" +
				"<p>" + msg.Message + "</p>"
			if err := cc.Mailer.SendEmail(adminEmail, "New contact message from "+msg.Name, body); err != nil {
				log.Printf("Failed to forward contact message to admin: %v", err)
			}
		}(message)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Message received. We'll get back to you by email.",
		Data:    message,
	})
}

// GetMessages handles GET /api/contact (admin)
func (cc *ContactController) GetMessages(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if replied := c.QueryParam("replied"); replied == "true" {
		filter["replied"] = true
	} else if replied == "false" {
		filter["replied"] = false
	}

	opts := options.Find().SetSort(bson.M{"date": -1})
	cursor, err := cc.contacts().Find(ctx, filter, opts)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	defer cursor.Close(ctx)

	messages := []models.ContactMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Messages retrieved successfully",
		Data:    messages,
	})
}

// ReplyToMessage handles POST /api/contact/:id/reply (admin). The reply is
// emailed to the sender and stored on the message.
func (cc *ContactController) ReplyToMessage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	messageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid message ID",
			Error:   services.CodeValidation,
		})
	}

	var req models.ReplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
			Error:   services.CodeValidation,
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: err.Error(),
			Error:   services.CodeValidation,
		})
	}

	var message models.ContactMessage
	err = cc.contacts().FindOne(ctx, bson.M{"_id": messageID}).Decode(&message)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Message not found",
				Error:   services.CodeNotFound,
			})
		}
		return domainErrorResponse(c, err)
	}

	reply := utils.SanitizeInput(req.ReplyMessage)
	body := "<p>Dear " + message.Name + ",</p><p>" + reply + "</p>" +
		"<p style=\"color: #757575; font-size: 12px;\">In reply to your message: " + message.Message + "</p>"

	if err := cc.Mailer.SendEmail(message.Email, "Re: your message to HomeNest", body); err != nil {
		log.Printf("Failed to send reply to %s: %v", message.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to send reply email",
			Error:   "INTERNAL_ERROR",
		})
	}

	_, err = cc.contacts().UpdateOne(ctx,
		bson.M{"_id": messageID},
		bson.M{"$set": bson.M{"replied": true, "reply": reply}})
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Reply sent successfully",
	})
}

// DeleteMessage handles DELETE /api/contact/:id (admin)
func (cc *ContactController) DeleteMessage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	messageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid message ID",
			Error:   services.CodeValidation,
		})
	}

	result, err := cc.contacts().DeleteOne(ctx, bson.M{"_id": messageID})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "Message not found",
			Error:   services.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Message deleted successfully",
	})
}

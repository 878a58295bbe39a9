package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homenest/homenest_backend/models"
	"github.com/homenest/homenest_backend/services"
)

// ChatbotController handles the scripted help assistant
type ChatbotController struct {
	Service *services.ChatbotService
}

// NewChatbotController creates a new chatbot controller
func NewChatbotController(service *services.ChatbotService) *ChatbotController {
	return &ChatbotController{Service: service}
}

type chatMessageRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
}

// SendMessage handles POST /api/chatbot/chat
func (cc *ChatbotController) SendMessage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var req chatMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
			Error:   services.CodeValidation,
		})
	}

	reply, err := cc.Service.HandleMessage(ctx, req.SessionID, req.Message)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Reply generated",
		Data:    reply,
	})
}

// GetHistory handles GET /api/chatbot/history/:sessionId
func (cc *ChatbotController) GetHistory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Session ID is required",
			Error:   services.CodeValidation,
		})
	}

	history, err := cc.Service.History(ctx, sessionID)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "History retrieved successfully",
		Data:    history,
	})
}

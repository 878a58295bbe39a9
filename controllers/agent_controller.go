package controllers

import (
	"context"
	"io"
	"net/http"
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

// AgentController handles the partner-agent directory
type AgentController struct {
	DB *mongo.Client
}

// NewAgentController creates a new agent controller
func NewAgentController(db *mongo.Client) *AgentController {
	return &AgentController{DB: db}
}

func (ac *AgentController) agents() *mongo.Collection {
	return config.GetCollection(ac.DB, "agents")
}

// GetAgents handles GET /api/agents (public)
func (ac *AgentController) GetAgents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := ac.agents().Find(ctx, bson.M{}, opts)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	defer cursor.Close(ctx)

	agents := []models.Agent{}
	if err := cursor.All(ctx, &agents); err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Agents retrieved successfully",
		Data:    agents,
	})
}

// CreateAgent handles POST /api/agents (admin). Accepts either JSON or a
// multipart form with an optional photo.
func (ac *AgentController) CreateAgent(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var agent models.Agent
	if name := c.FormValue("name"); name != "" {
		agent.Name = name
		agent.Email = c.FormValue("email")
		agent.Phone = c.FormValue("phone")
	} else if err := c.Bind(&agent); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
			Error:   services.CodeValidation,
		})
	}

	agent.Name = utils.SanitizeInput(agent.Name)
	agent.Phone = utils.SanitizeInput(agent.Phone)
	if agent.Name == "" || agent.Email == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "name and email are required",
			Error:   services.CodeValidation,
		})
	}
	email, err := utils.SanitizeEmail(agent.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid email address",
			Error:   services.CodeValidation,
		})
	}
	agent.Email = email

	if fileHeader, err := c.FormFile("img"); err == nil {
		if !utils.IsValidImageFile(fileHeader) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Message: "Unsupported image format",
				Error:   services.CodeValidation,
			})
		}
		src, err := fileHeader.Open()
		if err != nil {
			return domainErrorResponse(c, err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return domainErrorResponse(c, err)
		}
		imgURL, err := utils.UploadImage(data, fileHeader.Filename, "profiles")
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Message: err.Error(),
				Error:   services.CodeValidation,
			})
		}
		agent.Img = imgURL
	}

	agent.ID = primitive.NewObjectID()
	agent.CreatedAt = time.Now()

	if _, err := ac.agents().InsertOne(ctx, agent); err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Agent created successfully",
		Data:    agent,
	})
}

// DeleteAgent handles DELETE /api/agents/:id (admin)
func (ac *AgentController) DeleteAgent(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	agentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid agent ID",
			Error:   services.CodeValidation,
		})
	}

	result, err := ac.agents().DeleteOne(ctx, bson.M{"_id": agentID})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "Agent not found",
			Error:   services.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Agent deleted successfully",
	})
}

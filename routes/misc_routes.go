package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homenest/homenest_backend/controllers"
	"github.com/homenest/homenest_backend/middleware"
	"github.com/homenest/homenest_backend/models"
	"github.com/homenest/homenest_backend/services"
)

// RegisterMiscRoutes sets up agents, contact, chatbot and the admin audit
// trail
func RegisterMiscRoutes(e *echo.Echo, db *mongo.Client, rdb *redis.Client, mailer services.Mailer) {
	agentController := controllers.NewAgentController(db)
	contactController := controllers.NewContactController(db, mailer)
	chatbotController := controllers.NewChatbotController(services.NewChatbotService(rdb))
	activityController := controllers.NewActivityController(db)

	e.GET("/api/agents", agentController.GetAgents)
	e.POST("/api/contact", contactController.SubmitMessage)
	e.POST("/api/chatbot/chat", chatbotController.SendMessage)
	e.GET("/api/chatbot/history/:sessionId", chatbotController.GetHistory)

	admin := e.Group("/api", middleware.JWTMiddleware(), middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/agents", agentController.CreateAgent)
	admin.DELETE("/agents/:id", agentController.DeleteAgent)
	admin.GET("/contact", contactController.GetMessages)
	admin.POST("/contact/:id/reply", contactController.ReplyToMessage)
	admin.DELETE("/contact/:id", contactController.DeleteMessage)
	admin.GET("/activities", activityController.GetActivities)
}

package controllers

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/homenest/homenest_backend/config"
	"github.com/homenest/homenest_backend/models"
	"github.com/homenest/homenest_backend/services"
	"github.com/homenest/homenest_backend/utils"
)

const resetCodeTTL = 15 * time.Minute

// PasswordController handles the forgot/reset password flow
type PasswordController struct {
	DB     *mongo.Client
	Mailer services.Mailer
}

// NewPasswordController creates a new password controller
func NewPasswordController(db *mongo.Client, mailer services.Mailer) *PasswordController {
	return &PasswordController{DB: db, Mailer: mailer}
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// ForgotPassword handles POST /api/password/forgot-password. The response is
// identical whether or not the account exists.
func (pc *PasswordController) ForgotPassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
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

	neutral := models.Response{
		Success: true,
		Message: "If an account exists for this email, a reset code has been sent",
	}

	var user models.User
	err = config.GetCollection(pc.DB, "users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusOK, neutral)
		}
		return domainErrorResponse(c, err)
	}

	code, err := generateResetCode()
	if err != nil {
		return domainErrorResponse(c, err)
	}

	now := time.Now()
	reset := models.PasswordReset{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(resetCodeTTL),
		CreatedAt: now,
	}

	resets := config.GetCollection(pc.DB, "password_resets")
	// A new request invalidates earlier codes for the same account
	if _, err := resets.DeleteMany(ctx, bson.M{"email": email}); err != nil {
		return domainErrorResponse(c, err)
	}
	if _, err := resets.InsertOne(ctx, reset); err != nil {
		return domainErrorResponse(c, err)
	}

	html := services.RenderPasswordResetEmail(user.FirstName, code, reset.ExpiresAt)
	if err := pc.Mailer.SendEmail(email, "Your password reset code", html); err != nil {
		log.Printf("Failed to send reset code to %s: %v", email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to send reset email",
			Error:   "INTERNAL_ERROR",
		})
	}

	return c.JSON(http.StatusOK, neutral)
}

// ResetPassword handles POST /api/password/reset-password
func (pc *PasswordController) ResetPassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.ResetPasswordRequest
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
	if req.Password != req.CPassword {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Passwords do not match",
			Error:   services.CodeValidation,
		})
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
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

	resets := config.GetCollection(pc.DB, "password_resets")
	var reset models.PasswordReset
	err = resets.FindOne(ctx, bson.M{"email": email, "code": req.Code}).Decode(&reset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Message: "Invalid or expired reset code",
				Error:   services.CodeValidation,
			})
		}
		return domainErrorResponse(c, err)
	}
	if time.Now().After(reset.ExpiresAt) {
		resets.DeleteOne(ctx, bson.M{"_id": reset.ID})
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid or expired reset code",
			Error:   services.CodeValidation,
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	result, err := config.GetCollection(pc.DB, "users").UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": string(hashed)}})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "User not found",
			Error:   services.CodeNotFound,
		})
	}

	// Codes are single use
	if _, err := resets.DeleteMany(ctx, bson.M{"email": email}); err != nil {
		log.Printf("Failed to clear reset codes for %s: %v", email, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Password reset successfully",
	})
}

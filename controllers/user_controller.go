package controllers

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/homenest/homenest_backend/config"
	"github.com/homenest/homenest_backend/middleware"
	"github.com/homenest/homenest_backend/models"
	"github.com/homenest/homenest_backend/services"
	"github.com/homenest/homenest_backend/utils"
)

// UserController handles registration, login and profile endpoints
type UserController struct {
	DB *mongo.Client
}

// NewUserController creates a new user controller
func NewUserController(db *mongo.Client) *UserController {
	return &UserController{DB: db}
}

func (uc *UserController) users() *mongo.Collection {
	return config.GetCollection(uc.DB, "users")
}

// Register handles POST /api/users/register
func (uc *UserController) Register(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.SignupRequest
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
	if err := utils.ValidatePassword(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: err.Error(),
			Error:   services.CodeValidation,
		})
	}

	count, err := uc.users().CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Message: "An account with this email already exists",
			Error:   services.CodeValidation,
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	user := models.User{
		ID:          primitive.NewObjectID(),
		FirstName:   utils.SanitizeInput(req.FirstName),
		LastName:    utils.SanitizeInput(req.LastName),
		Email:       email,
		Password:    string(hashed),
		PhoneNumber: utils.SanitizeInput(req.PhoneNumber),
		Address:     utils.SanitizeInput(req.Address),
		Role:        models.RoleUser,
		CreatedAt:   time.Now(),
	}

	if _, err := uc.users().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Success: false,
				Message: "An account with this email already exists",
				Error:   services.CodeValidation,
			})
		}
		return domainErrorResponse(c, err)
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Account created successfully",
		Data:    models.LoginData{Token: token, User: user},
	})
}

// Login handles POST /api/users/login
func (uc *UserController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
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
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Invalid email or password",
			Error:   services.CodeForbidden,
		})
	}

	var user models.User
	err = uc.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: "Invalid email or password",
				Error:   services.CodeForbidden,
			})
		}
		return domainErrorResponse(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Invalid email or password",
			Error:   services.CodeForbidden,
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Login successful",
		Data:    models.LoginData{Token: token, User: user},
	})
}

// GetProfile handles GET /api/users/me
func (uc *UserController) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	var user models.User
	err = uc.users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
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

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// UpdateProfile handles PUT /api/users/me
func (uc *UserController) UpdateProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
			Error:   services.CodeValidation,
		})
	}

	update := bson.M{}
	if req.FirstName != "" {
		update["firstName"] = utils.SanitizeInput(req.FirstName)
	}
	if req.LastName != "" {
		update["lastName"] = utils.SanitizeInput(req.LastName)
	}
	if req.PhoneNumber != "" {
		update["phoneNumber"] = utils.SanitizeInput(req.PhoneNumber)
	}
	if req.Address != "" {
		update["address"] = utils.SanitizeInput(req.Address)
	}
	if len(update) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "No fields to update",
			Error:   services.CodeValidation,
		})
	}

	var user models.User
	err = uc.users().FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": update},
	).Decode(&user)
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

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile updated successfully",
	})
}

// GetAllUsers handles GET /api/users/admin (admin)
func (uc *UserController) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if role := c.QueryParam("role"); role != "" {
		filter["role"] = role
	}

	cursor, err := uc.users().Find(ctx, filter)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}

// DeleteUser handles DELETE /api/users/:id (admin). The user's listings,
// bookings and wishlist entries go with the account.
func (uc *UserController) DeleteUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid user ID",
			Error:   services.CodeValidation,
		})
	}

	result, err := uc.users().DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "User not found",
			Error:   services.CodeNotFound,
		})
	}

	for _, cleanup := range []struct {
		collection string
		filter     bson.M
	}{
		{"properties", bson.M{"userId": userID}},
		{"bookings", bson.M{"userId": userID}},
		{"wishlists", bson.M{"userId": userID}},
	} {
		if _, err := config.GetCollection(uc.DB, cleanup.collection).DeleteMany(ctx, cleanup.filter); err != nil {
			log.Printf("Failed to clean up %s for user %s: %v", cleanup.collection, userID.Hex(), err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "User deleted successfully",
	})
}

// UploadProfileImage handles POST /api/users/me/profile-image
func (uc *UserController) UploadProfileImage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "image file is required",
			Error:   services.CodeValidation,
		})
	}
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

	imageURL, err := utils.UploadImage(data, fileHeader.Filename, "profiles")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: err.Error(),
			Error:   services.CodeValidation,
		})
	}

	var previous models.User
	err = uc.users().FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"profileImage": imageURL}},
	).Decode(&previous)
	if err != nil && err != mongo.ErrNoDocuments {
		return domainErrorResponse(c, err)
	}
	if previous.ProfileImage != "" {
		if err := utils.DeleteFile(previous.ProfileImage); err != nil {
			log.Printf("Failed to remove old profile image: %v", err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile image updated",
		Data:    map[string]string{"profileImage": imageURL},
	})
}

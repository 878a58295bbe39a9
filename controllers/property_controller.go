package controllers

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homenest/homenest_backend/config"
	"github.com/homenest/homenest_backend/middleware"
	"github.com/homenest/homenest_backend/models"
	"github.com/homenest/homenest_backend/services"
	"github.com/homenest/homenest_backend/utils"
	ws "github.com/homenest/homenest_backend/websocket"
)

// PropertyController handles property listing endpoints
type PropertyController struct {
	DB     *mongo.Client
	Mailer services.Mailer
	Hub    *ws.Hub
}

// NewPropertyController creates a new property controller
func NewPropertyController(db *mongo.Client, mailer services.Mailer, hub *ws.Hub) *PropertyController {
	return &PropertyController{DB: db, Mailer: mailer, Hub: hub}
}

func (pc *PropertyController) properties() *mongo.Collection {
	return config.GetCollection(pc.DB, "properties")
}

// CreateProperty handles POST /api/properties (multipart form with image)
func (pc *PropertyController) CreateProperty(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	title := utils.SanitizeInput(c.FormValue("title"))
	description := utils.SanitizeInput(c.FormValue("description"))
	location := utils.SanitizeInput(c.FormValue("location"))
	propertyType := utils.SanitizeInput(c.FormValue("type"))
	listingStatus := c.FormValue("listingStatus")

	if title == "" || location == "" || listingStatus == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "title, location and listingStatus are required",
			Error:   services.CodeValidation,
		})
	}
	if listingStatus != models.ListingStatusForSale && listingStatus != models.ListingStatusForRent {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "listingStatus must be 'For Sale' or 'For Rent'",
			Error:   services.CodeValidation,
		})
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || price <= 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "price must be a positive number",
			Error:   services.CodeValidation,
		})
	}
	bedrooms, _ := strconv.Atoi(c.FormValue("bedrooms"))
	bathrooms, _ := strconv.Atoi(c.FormValue("bathrooms"))

	property := models.Property{
		ID:             primitive.NewObjectID(),
		Title:          title,
		Description:    description,
		Price:          price,
		Location:       location,
		Bedrooms:       bedrooms,
		Bathrooms:      bathrooms,
		Type:           propertyType,
		ListingStatus:  listingStatus,
		UserID:         userID,
		OwnerEmail:     claims.Email,
		ApprovalStatus: models.ApprovalStatusPending,
		CreatedAt:      time.Now(),
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
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

		imageURL, err := utils.UploadImage(data, fileHeader.Filename, "properties")
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Message: err.Error(),
				Error:   services.CodeValidation,
			})
		}
		property.Image = imageURL

		if thumbURL, err := utils.GenerateThumbnail(data, fileHeader.Filename); err == nil {
			property.Thumbnail = thumbURL
		} else {
			log.Printf("Thumbnail generation failed: %v", err)
		}
	}

	if _, err := pc.properties().InsertOne(ctx, property); err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Property submitted for review",
		Data:    property,
	})
}

// GetProperties handles GET /api/properties with optional filters. Only
// approved listings are visible here.
func (pc *PropertyController) GetProperties(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"isApproved": true, "isRejected": false}

	if listingStatus := c.QueryParam("listingStatus"); listingStatus != "" {
		filter["listingStatus"] = listingStatus
	}
	if propertyType := c.QueryParam("type"); propertyType != "" {
		filter["type"] = propertyType
	}
	if location := c.QueryParam("location"); location != "" {
		filter["location"] = bson.M{"$regex": location, "$options": "i"}
	}
	if search := c.QueryParam("search"); search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
			{"location": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	priceFilter := bson.M{}
	if minPrice, err := strconv.ParseFloat(c.QueryParam("minPrice"), 64); err == nil {
		priceFilter["$gte"] = minPrice
	}
	if maxPrice, err := strconv.ParseFloat(c.QueryParam("maxPrice"), 64); err == nil {
		priceFilter["$lte"] = maxPrice
	}
	if len(priceFilter) > 0 {
		filter["price"] = priceFilter
	}
	if bedrooms, err := strconv.Atoi(c.QueryParam("bedrooms")); err == nil {
		filter["bedrooms"] = bson.M{"$gte": bedrooms}
	}

	sortField := "createdAt"
	switch c.QueryParam("sortBy") {
	case "price":
		sortField = "price"
	case "bedrooms":
		sortField = "bedrooms"
	}
	sortOrder := -1
	if c.QueryParam("order") == "asc" {
		sortOrder = 1
	}

	opts := options.Find().SetSort(bson.M{sortField: sortOrder})
	cursor, err := pc.properties().Find(ctx, filter, opts)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Properties retrieved successfully",
		Data:    properties,
	})
}

// GetProperty handles GET /api/properties/:id
func (pc *PropertyController) GetProperty(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid property ID",
			Error:   services.CodeValidation,
		})
	}

	var property models.Property
	err = pc.properties().FindOne(ctx, bson.M{"_id": propertyID}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Property not found",
				Error:   services.CodeNotFound,
			})
		}
		return domainErrorResponse(c, err)
	}

	// Listings still in review are only visible to their owner and admins
	if !property.IsApproved {
		claims := optionalClaims(c)
		if claims == nil || (claims.Role != models.RoleAdmin && property.UserID.Hex() != claims.UserID) {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Property not found",
				Error:   services.CodeNotFound,
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Property retrieved successfully",
		Data:    property,
	})
}

// GetPropertyOwner handles GET /api/properties/owner/:id, the public contact
// card for a listing's owner
func (pc *PropertyController) GetPropertyOwner(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid property ID",
			Error:   services.CodeValidation,
		})
	}

	var property models.Property
	err = pc.properties().FindOne(ctx, bson.M{"_id": propertyID}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Property not found",
				Error:   services.CodeNotFound,
			})
		}
		return domainErrorResponse(c, err)
	}

	// Same visibility rule as GetProperty: listings in review stay hidden
	if !property.IsApproved {
		claims := optionalClaims(c)
		if claims == nil || (claims.Role != models.RoleAdmin && property.UserID.Hex() != claims.UserID) {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Property not found",
				Error:   services.CodeNotFound,
			})
		}
	}

	var owner models.User
	err = config.GetCollection(pc.DB, "users").FindOne(ctx, bson.M{"_id": property.UserID}).Decode(&owner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Owner not found",
				Error:   services.CodeNotFound,
			})
		}
		return domainErrorResponse(c, err)
	}

	count, err := pc.properties().CountDocuments(ctx, bson.M{"userId": property.UserID})
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Owner details retrieved successfully",
		Data: models.PropertyOwnerInfo{
			Name:            strings.TrimSpace(owner.FullName()),
			Email:           owner.Email,
			Phone:           owner.PhoneNumber,
			PropertiesCount: count,
			Locality:        property.Location,
		},
	})
}

// optionalClaims parses the Authorization header on routes that work with or
// without a login. Invalid or absent tokens just mean an anonymous caller.
func optionalClaims(c echo.Context) *middleware.JwtCustomClaims {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil
	}

	claims := &middleware.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	return claims
}

// GetMyProperties handles GET /api/properties/my-properties, including
// unapproved and rejected listings
func (pc *PropertyController) GetMyProperties(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := pc.properties().Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Properties retrieved successfully",
		Data:    properties,
	})
}

// loadOwnedProperty fetches a property and checks the caller may manage it.
// Callers route the error through ownedPropertyError.
func (pc *PropertyController) loadOwnedProperty(c echo.Context, ctx context.Context) (*models.Property, error) {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, &services.DomainError{Code: services.CodeValidation, Message: "Invalid property ID"}
	}

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	var property models.Property
	err = pc.properties().FindOne(ctx, bson.M{"_id": propertyID}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &services.DomainError{Code: services.CodeNotFound, Message: "Property not found"}
		}
		return nil, err
	}

	if claims.Role != models.RoleAdmin && property.UserID.Hex() != claims.UserID {
		return nil, &services.DomainError{Code: services.CodeForbidden, Message: "You don't have permission to manage this property"}
	}
	return &property, nil
}

func ownedPropertyError(c echo.Context, err error) error {
	if he, ok := err.(*echo.HTTPError); ok {
		return he
	}
	return domainErrorResponse(c, err)
}

// UpdateProperty handles PUT /api/properties/:id. Edits reset the listing to
// pending review.
func (pc *PropertyController) UpdateProperty(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	property, err := pc.loadOwnedProperty(c, ctx)
	if err != nil {
		return ownedPropertyError(c, err)
	}

	var req models.PropertyUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
			Error:   services.CodeValidation,
		})
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = utils.SanitizeInput(req.Title)
	}
	if req.Description != "" {
		update["description"] = utils.SanitizeInput(req.Description)
	}
	if req.Location != "" {
		update["location"] = utils.SanitizeInput(req.Location)
	}
	if req.Type != "" {
		update["type"] = utils.SanitizeInput(req.Type)
	}
	if req.ListingStatus != "" {
		if req.ListingStatus != models.ListingStatusForSale && req.ListingStatus != models.ListingStatusForRent {
			return c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Message: "listingStatus must be 'For Sale' or 'For Rent'",
				Error:   services.CodeValidation,
			})
		}
		update["listingStatus"] = req.ListingStatus
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Message: "price must be a positive number",
				Error:   services.CodeValidation,
			})
		}
		update["price"] = *req.Price
	}
	if req.Bedrooms != nil {
		update["bedrooms"] = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		update["bathrooms"] = *req.Bathrooms
	}

	if len(update) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "No fields to update",
			Error:   services.CodeValidation,
		})
	}

	// Edited listings go back through review
	update["isApproved"] = false
	update["isRejected"] = false
	update["approvalStatus"] = models.ApprovalStatusPending

	_, err = pc.properties().UpdateOne(ctx, bson.M{"_id": property.ID}, bson.M{"$set": update})
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Property updated and resubmitted for review",
	})
}

// DeleteProperty handles DELETE /api/properties/:id
func (pc *PropertyController) DeleteProperty(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	property, err := pc.loadOwnedProperty(c, ctx)
	if err != nil {
		return ownedPropertyError(c, err)
	}

	// Active rentals block deletion
	count, err := config.GetCollection(pc.DB, "bookings").CountDocuments(ctx, bson.M{
		"propertyId": property.ID,
		"status":     bson.M{"$in": []string{models.BookingStatusPending, models.BookingStatusConfirmed}},
	})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Message: "Cannot delete a property with pending or confirmed bookings",
			Error:   services.CodeDateConflict,
		})
	}

	if _, err := pc.properties().DeleteOne(ctx, bson.M{"_id": property.ID}); err != nil {
		return domainErrorResponse(c, err)
	}

	if property.Image != "" {
		if err := utils.DeleteFile(property.Image); err != nil {
			log.Printf("Failed to remove property image: %v", err)
		}
	}
	if property.Thumbnail != "" {
		if err := utils.DeleteFile(property.Thumbnail); err != nil {
			log.Printf("Failed to remove property thumbnail: %v", err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Property deleted successfully",
	})
}

// GetPendingProperties handles GET /api/properties/admin/pending
func (pc *PropertyController) GetPendingProperties(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := pc.properties().Find(ctx, bson.M{"approvalStatus": models.ApprovalStatusPending}, opts)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Pending properties retrieved successfully",
		Data:    properties,
	})
}

// GetRejectedProperties handles GET /api/properties/admin/rejected
func (pc *PropertyController) GetRejectedProperties(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"rejectedAt": -1})
	cursor, err := pc.properties().Find(ctx, bson.M{"approvalStatus": models.ApprovalStatusRejected}, opts)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Rejected properties retrieved successfully",
		Data:    properties,
	})
}

// ApproveProperty handles PATCH /api/properties/:id/approve
func (pc *PropertyController) ApproveProperty(c echo.Context) error {
	return pc.reviewProperty(c, true, "")
}

// RejectProperty handles PATCH /api/properties/:id/reject
func (pc *PropertyController) RejectProperty(c echo.Context) error {
	var req models.RejectPropertyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
			Error:   services.CodeValidation,
		})
	}
	return pc.reviewProperty(c, false, utils.SanitizeInput(req.RejectionReason))
}

func (pc *PropertyController) reviewProperty(c echo.Context, approve bool, reason string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid property ID",
			Error:   services.CodeValidation,
		})
	}

	var property models.Property
	err = pc.properties().FindOne(ctx, bson.M{"_id": propertyID}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Property not found",
				Error:   services.CodeNotFound,
			})
		}
		return domainErrorResponse(c, err)
	}

	now := time.Now()
	var update bson.M
	var notifType, notifMsg, activityType string
	if approve {
		update = bson.M{"$set": bson.M{
			"isApproved":     true,
			"isRejected":     false,
			"approvalStatus": models.ApprovalStatusApproved,
		}, "$unset": bson.M{"rejectedAt": "", "rejectionReason": ""}}
		notifType = "property_approved"
		notifMsg = "Your property '" + property.Title + "' has been approved and is now live"
		activityType = "property_approved"
	} else {
		update = bson.M{"$set": bson.M{
			"isApproved":      false,
			"isRejected":      true,
			"approvalStatus":  models.ApprovalStatusRejected,
			"rejectedAt":      now,
			"rejectionReason": reason,
		}}
		notifType = "property_rejected"
		notifMsg = "Your property '" + property.Title + "' was rejected"
		if reason != "" {
			notifMsg += ": " + reason
		}
		activityType = "property_rejected"
	}

	if _, err := pc.properties().UpdateOne(ctx, bson.M{"_id": propertyID}, update); err != nil {
		return domainErrorResponse(c, err)
	}

	notification := models.UserNotification{
		ID:         primitive.NewObjectID(),
		Type:       notifType,
		Message:    notifMsg,
		PropertyID: &property.ID,
		CreatedAt:  now,
	}
	_, err = config.GetCollection(pc.DB, "users").UpdateOne(ctx,
		bson.M{"_id": property.UserID},
		bson.M{"$push": bson.M{"notifications": notification}})
	if err != nil {
		log.Printf("Failed to store owner notification: %v", err)
	}

	if pc.Hub != nil {
		if err := pc.Hub.SendToUser(property.UserID, ws.Event{
			Type:    notifType,
			Message: notifMsg,
			Data:    property,
		}); err != nil {
			log.Printf("Owner %s not reachable over websocket: %v", property.UserID.Hex(), err)
		}
	}

	// Review outcome also goes out by email, best effort
	if property.OwnerEmail != "" {
		go func(to, subject, body string) {
			if err := pc.Mailer.SendEmail(to, subject, "<p>"+body+"</p>"); err != nil {
				log.Printf("Failed to email owner about review: %v", err)
			}
		}(property.OwnerEmail, "Update on your listing '"+property.Title+"'", notifMsg)
	}

	adminID := middleware.GetUserFromToken(c)
	activity := models.Activity{
		ID:          primitive.NewObjectID(),
		Type:        activityType,
		Description: notifMsg,
		PropertyID:  &property.ID,
		CreatedAt:   now,
	}
	if adminID != nil {
		if oid, err := primitive.ObjectIDFromHex(adminID.UserID); err == nil {
			activity.UserID = &oid
		}
	}
	if _, err := config.GetCollection(pc.DB, "activities").InsertOne(ctx, activity); err != nil {
		log.Printf("Failed to record activity: %v", err)
	}

	message := "Property approved successfully"
	if !approve {
		message = "Property rejected"
	}
	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: message,
	})
}

// CreateInquiry handles POST /api/properties/:id/inquiries (public)
func (pc *PropertyController) CreateInquiry(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid property ID",
			Error:   services.CodeValidation,
		})
	}

	var req models.InquiryRequest
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

	var property models.Property
	err = pc.properties().FindOne(ctx, bson.M{"_id": propertyID, "isApproved": true}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Property not found",
				Error:   services.CodeNotFound,
			})
		}
		return domainErrorResponse(c, err)
	}

	inquiry := models.Inquiry{
		ID:         primitive.NewObjectID(),
		PropertyID: propertyID,
		BuyerName:  utils.SanitizeInput(req.BuyerName),
		BuyerEmail: req.BuyerEmail,
		BuyerPhone: utils.SanitizeInput(req.BuyerPhone),
		Message:    utils.SanitizeInput(req.Message),
		CreatedAt:  time.Now(),
	}
	if _, err := config.GetCollection(pc.DB, "inquiries").InsertOne(ctx, inquiry); err != nil {
		return domainErrorResponse(c, err)
	}

	go func(ownerEmail, title string, inq models.Inquiry) {
		if ownerEmail != "" {
			body := "<p>You have a new inquiry about <strong>" + title + "</strong>.</p>" +
				"<p><strong>From:</strong> " + inq.BuyerName + " (" + inq.BuyerEmail + ")</p>" +
				"<p>" + inq.Message + "</p>"
			if err := pc.Mailer.SendEmail(ownerEmail, "New inquiry about "+title, body); err != nil {
				log.Printf("Failed to email owner about inquiry: %v", err)
			}
		}
		confirmation := "<p>Dear " + inq.BuyerName + ",</p>" +
			"<p>Your inquiry about <strong>" + title + "</strong> has been passed to the owner. " +
			"They will reply to you directly.</p>"
		if err := pc.Mailer.SendEmail(inq.BuyerEmail, "We received your inquiry", confirmation); err != nil {
			log.Printf("Failed to email buyer inquiry confirmation: %v", err)
		}
	}(property.OwnerEmail, property.Title, inquiry)

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Inquiry sent to the property owner",
		Data:    inquiry,
	})
}

// GetInquiries handles GET /api/properties/:id/inquiries for the owner
func (pc *PropertyController) GetInquiries(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	property, err := pc.loadOwnedProperty(c, ctx)
	if err != nil {
		return ownedPropertyError(c, err)
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := config.GetCollection(pc.DB, "inquiries").Find(ctx, bson.M{"propertyId": property.ID}, opts)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	defer cursor.Close(ctx)

	inquiries := []models.Inquiry{}
	if err := cursor.All(ctx, &inquiries); err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Inquiries retrieved successfully",
		Data:    inquiries,
	})
}

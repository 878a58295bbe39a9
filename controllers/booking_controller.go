package controllers

import (
	"context"
	"log"
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
	ws "github.com/homenest/homenest_backend/websocket"
)

// BookingController handles booking endpoints
type BookingController struct {
	DB      *mongo.Client
	Service *services.BookingService
	Mailer  services.Mailer
	Hub     *ws.Hub
}

// NewBookingController creates a new booking controller
func NewBookingController(db *mongo.Client, mailer services.Mailer, hub *ws.Hub) *BookingController {
	return &BookingController{
		DB:      db,
		Service: services.NewBookingService(db, mailer),
		Mailer:  mailer,
		Hub:     hub,
	}
}

// domainErrorResponse maps a service error onto the response envelope
func domainErrorResponse(c echo.Context, err error) error {
	if derr, ok := services.AsDomainError(err); ok {
		resp := models.Response{
			Success: false,
			Message: derr.Message,
			Error:   derr.Code,
		}
		if derr.Details != nil {
			resp.Data = derr.Details
		}
		return c.JSON(derr.HTTPStatus(), resp)
	}
	log.Printf("Internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, models.Response{
		Success: false,
		Message: "Internal server error",
		Error:   "INTERNAL_ERROR",
	})
}

func (bc *BookingController) currentUser(c echo.Context, ctx context.Context) (*models.User, error) {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	var user models.User
	err = config.GetCollection(bc.DB, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

// CreateBooking handles POST /api/bookings
func (bc *BookingController) CreateBooking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := bc.currentUser(c, ctx)
	if err != nil {
		return err
	}

	var req models.BookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
			Error:   services.CodeValidation,
		})
	}

	booking, property, err := bc.Service.CreateBooking(ctx, user, req)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	// Owner side effects are best effort, the booking is already persisted.
	go bc.notifyOwnerNewBooking(booking, property)

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Booking created successfully",
		Data:    booking,
	})
}

// notifyOwnerNewBooking emails the property owner, pushes a websocket event
// and appends an in-app notification. Failures are logged, never surfaced.
func (bc *BookingController) notifyOwnerNewBooking(booking *models.Booking, property *models.Property) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	ownerEmail := property.OwnerEmail
	var owner models.User
	err := config.GetCollection(bc.DB, "users").FindOne(ctx, bson.M{"_id": property.UserID}).Decode(&owner)
	if err == nil && owner.Email != "" {
		ownerEmail = owner.Email
	}

	if ownerEmail != "" {
		html := services.RenderBookingReceivedEmail(booking, property)
		if err := bc.Mailer.SendEmail(ownerEmail, "New booking request for "+property.Title, html); err != nil {
			log.Printf("Failed to email owner about booking %s: %v", booking.ID.Hex(), err)
		}
	}

	if bc.Hub != nil {
		if err := bc.Hub.NotifyBookingRequest(property.UserID, booking); err != nil {
			log.Printf("Owner %s not reachable over websocket: %v", property.UserID.Hex(), err)
		}
	}

	notification := models.UserNotification{
		ID:         primitive.NewObjectID(),
		Type:       "booking_update",
		Message:    "New booking request for " + property.Title,
		PropertyID: &property.ID,
		CreatedAt:  time.Now(),
	}
	_, err = config.GetCollection(bc.DB, "users").UpdateOne(ctx,
		bson.M{"_id": property.UserID},
		bson.M{"$push": bson.M{"notifications": notification}})
	if err != nil {
		log.Printf("Failed to store owner notification: %v", err)
	}
}

// CheckAvailability handles GET /api/bookings/check-availability/:id
func (bc *BookingController) CheckAvailability(c echo.Context) error {
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

	startStr := c.QueryParam("startDate")
	endStr := c.QueryParam("endDate")
	if startStr == "" || endStr == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "startDate and endDate query parameters are required",
			Error:   services.CodeValidation,
		})
	}

	start, err := services.ParseDate(startStr)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid start date format",
			Error:   services.CodeValidation,
		})
	}
	end, err := services.ParseDate(endStr)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid end date format",
			Error:   services.CodeValidation,
		})
	}

	availability, err := bc.Service.CheckAvailability(ctx, propertyID, start, end)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: availability.Message,
		Data:    availability,
	})
}

// UpdateBookingStatus handles PATCH /api/bookings/:id/status
func (bc *BookingController) UpdateBookingStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid booking ID",
			Error:   services.CodeValidation,
		})
	}

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	actorID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	var req models.BookingStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
			Error:   services.CodeValidation,
		})
	}

	actor := services.Actor{UserID: actorID, Email: claims.Email, Role: claims.Role}
	booking, err := bc.Service.UpdateBookingStatus(ctx, bookingID, req.Status, actor)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	// Realtime push to the renter is best effort
	if bc.Hub != nil && booking.UserID != actorID {
		if err := bc.Hub.NotifyBookingStatus(booking.UserID, booking); err != nil {
			log.Printf("Renter %s not reachable over websocket: %v", booking.UserID.Hex(), err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Booking status updated to " + booking.Status,
		Data:    booking,
	})
}

// GetMyBookings handles GET /api/bookings/my-bookings
func (bc *BookingController) GetMyBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
	}

	bookings, err := bc.findBookings(ctx, bson.M{"userId": userID})
	if err != nil {
		return domainErrorResponse(c, err)
	}

	details, err := bc.attachProperties(ctx, bookings)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Bookings retrieved successfully",
		Data:    details,
	})
}

// GetPropertyBookings handles GET /api/bookings/property/:id for the property
// owner or an admin
func (bc *BookingController) GetPropertyBookings(c echo.Context) error {
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

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	var property models.Property
	err = config.GetCollection(bc.DB, "properties").FindOne(ctx, bson.M{"_id": propertyID}).Decode(&property)
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

	if claims.Role != models.RoleAdmin && property.UserID.Hex() != claims.UserID {
		return c.JSON(http.StatusForbidden, models.Response{
			Success: false,
			Message: "You don't have permission to view bookings for this property",
			Error:   services.CodeForbidden,
		})
	}

	bookings, err := bc.findBookings(ctx, bson.M{"propertyId": propertyID})
	if err != nil {
		return domainErrorResponse(c, err)
	}

	details, err := bc.attachUsers(ctx, bookings)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Bookings retrieved successfully",
		Data:    details,
	})
}

// GetAllBookings handles GET /api/bookings/admin
func (bc *BookingController) GetAllBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	bookings, err := bc.findBookings(ctx, filter)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	details, err := bc.attachProperties(ctx, bookings)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	details, err = bc.attachUsersToDetails(ctx, details)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Bookings retrieved successfully",
		Data:    details,
	})
}

// GetBooking handles GET /api/bookings/:id for the renter, the property owner
// or an admin
func (bc *BookingController) GetBooking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid booking ID",
			Error:   services.CodeValidation,
		})
	}

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	var booking models.Booking
	err = config.GetCollection(bc.DB, "bookings").FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Booking not found",
				Error:   services.CodeNotFound,
			})
		}
		return domainErrorResponse(c, err)
	}

	var property models.Property
	propertyFound := true
	err = config.GetCollection(bc.DB, "properties").FindOne(ctx, bson.M{"_id": booking.PropertyID}).Decode(&property)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			return domainErrorResponse(c, err)
		}
		propertyFound = false
	}

	isRenter := booking.UserID.Hex() == claims.UserID
	isOwner := propertyFound && property.UserID.Hex() == claims.UserID
	if claims.Role != models.RoleAdmin && !isRenter && !isOwner {
		return c.JSON(http.StatusForbidden, models.Response{
			Success: false,
			Message: "You don't have permission to view this booking",
			Error:   services.CodeForbidden,
		})
	}

	detail := models.BookingDetail{Booking: booking}
	if propertyFound {
		detail.Property = propertySummary(&property)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Booking retrieved successfully",
		Data:    detail,
	})
}

// DeleteBooking handles DELETE /api/bookings/:id, an admin-only hard delete
func (bc *BookingController) DeleteBooking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid booking ID",
			Error:   services.CodeValidation,
		})
	}

	result, err := config.GetCollection(bc.DB, "bookings").DeleteOne(ctx, bson.M{"_id": bookingID})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "Booking not found",
			Error:   services.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Booking deleted successfully",
	})
}

func (bc *BookingController) findBookings(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := config.GetCollection(bc.DB, "bookings").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func propertySummary(p *models.Property) *models.PropertySummary {
	return &models.PropertySummary{
		ID:            p.ID,
		Title:         p.Title,
		Location:      p.Location,
		Price:         p.Price,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		Image:         p.Image,
		ListingStatus: p.ListingStatus,
	}
}

// attachProperties populates the property slice of each booking in one query
func (bc *BookingController) attachProperties(ctx context.Context, bookings []models.Booking) ([]models.BookingDetail, error) {
	ids := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.PropertyID)
	}

	properties := map[primitive.ObjectID]*models.PropertySummary{}
	if len(ids) > 0 {
		cursor, err := config.GetCollection(bc.DB, "properties").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var p models.Property
			if err := cursor.Decode(&p); err != nil {
				return nil, err
			}
			properties[p.ID] = propertySummary(&p)
		}
		if err := cursor.Err(); err != nil {
			return nil, err
		}
	}

	details := make([]models.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		details = append(details, models.BookingDetail{
			Booking:  b,
			Property: properties[b.PropertyID],
		})
	}
	return details, nil
}

// attachUsers populates the renter slice of each booking in one query
func (bc *BookingController) attachUsers(ctx context.Context, bookings []models.Booking) ([]models.BookingDetail, error) {
	details := make([]models.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		details = append(details, models.BookingDetail{Booking: b})
	}
	return bc.attachUsersToDetails(ctx, details)
}

func (bc *BookingController) attachUsersToDetails(ctx context.Context, details []models.BookingDetail) ([]models.BookingDetail, error) {
	ids := make([]primitive.ObjectID, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.Booking.UserID)
	}

	users := map[primitive.ObjectID]*models.UserSummary{}
	if len(ids) > 0 {
		cursor, err := config.GetCollection(bc.DB, "users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var u models.User
			if err := cursor.Decode(&u); err != nil {
				return nil, err
			}
			users[u.ID] = &models.UserSummary{
				ID:          u.ID,
				FirstName:   u.FirstName,
				LastName:    u.LastName,
				Email:       u.Email,
				PhoneNumber: u.PhoneNumber,
			}
		}
		if err := cursor.Err(); err != nil {
			return nil, err
		}
	}

	for i := range details {
		details[i].User = users[details[i].Booking.UserID]
	}
	return details, nil
}

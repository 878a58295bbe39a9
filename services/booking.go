// Package services holds the booking lifecycle core: availability, pricing,
// the status state machine, and the notification-gated status update.
package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homenest/homenest_backend/config"
	"github.com/homenest/homenest_backend/models"
)

const (
	// MinRentalDays is the shortest allowed rental period
	MinRentalDays = 30

	notifyAttempts = 3
)

// Actor identifies who is asking for a status change
type Actor struct {
	UserID primitive.ObjectID
	Email  string
	Role   string
}

// BookingService coordinates booking persistence with pricing and
// notification side effects
type BookingService struct {
	db           *mongo.Client
	mailer       Mailer
	retryBackoff time.Duration
}

// NewBookingService creates a booking service
func NewBookingService(db *mongo.Client, mailer Mailer) *BookingService {
	return &BookingService{
		db:           db,
		mailer:       mailer,
		retryBackoff: time.Second,
	}
}

func (s *BookingService) collection(name string) *mongo.Collection {
	return config.GetCollection(s.db, name)
}

// Overlaps reports whether [aStart, aEnd) intersects [bStart, bEnd).
// Half-open semantics: a booking ending on the day another starts is fine.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// RentalDays counts the days covered by [start, end), rounding partial days up
func RentalDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// DurationMonths converts a rental period into billing months, 30 days each,
// partial months charged in full
func DurationMonths(start, end time.Time) int {
	return int(math.Ceil(float64(RentalDays(start, end)) / 30))
}

// TotalPrice is the full rent for the period
func TotalPrice(start, end time.Time, monthlyPrice float64) float64 {
	return float64(DurationMonths(start, end)) * monthlyPrice
}

// Deposit is one month's rent, due at booking time
func Deposit(monthlyPrice float64) float64 {
	return monthlyPrice
}

// ParseDate accepts the date formats the frontend sends
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// ValidateDateRange enforces ordering and the minimum rental period
func ValidateDateRange(start, end time.Time) *DomainError {
	if !end.After(start) {
		return newDomainError(CodeInvalidDateRange, "End date must be after start date")
	}
	if RentalDays(start, end) < MinRentalDays {
		return newDomainError(CodeMinimumDuration, fmt.Sprintf("Minimum rental period is %d days", MinRentalDays))
	}
	return nil
}

var statusTransitions = map[string][]string{
	models.BookingStatusPending:   {models.BookingStatusConfirmed, models.BookingStatusCancelled},
	models.BookingStatusConfirmed: {models.BookingStatusCancelled, models.BookingStatusCompleted},
	models.BookingStatusCancelled: {},
	models.BookingStatusCompleted: {},
}

// ValidStatus reports whether the value is a known booking status
func ValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

// CanTransition reports whether the state machine allows from -> to.
// Cancelled and completed are terminal.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AuthorizeTransition checks the actor's right to perform from -> to.
// Admins may drive any valid transition; the renter may only cancel a pending
// booking; the property owner may confirm or cancel a pending booking.
func AuthorizeTransition(role string, isRenter, isOwner bool, from, to string) *DomainError {
	if role == models.RoleAdmin {
		return nil
	}
	if isRenter && from == models.BookingStatusPending && to == models.BookingStatusCancelled {
		return nil
	}
	if isOwner && from == models.BookingStatusPending &&
		(to == models.BookingStatusConfirmed || to == models.BookingStatusCancelled) {
		return nil
	}
	return newDomainError(CodeForbidden, "You don't have permission to update this booking")
}

func activeBookingFilter(propertyID primitive.ObjectID, start, end time.Time) bson.M {
	return bson.M{
		"propertyId": propertyID,
		"status":     bson.M{"$in": []string{models.BookingStatusPending, models.BookingStatusConfirmed}},
		"startDate":  bson.M{"$lt": end},
		"endDate":    bson.M{"$gt": start},
	}
}

// CheckAvailability runs the read-only availability check for a property and
// candidate date range
func (s *BookingService) CheckAvailability(ctx context.Context, propertyID primitive.ObjectID, start, end time.Time) (*models.AvailabilityResponse, error) {
	if derr := ValidateDateRange(start, end); derr != nil {
		return nil, derr
	}

	var property models.Property
	err := s.collection("properties").FindOne(ctx, bson.M{"_id": propertyID}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, newDomainError(CodeNotFound, "Property not found")
		}
		return nil, err
	}

	if property.ListingStatus != models.ListingStatusForRent {
		return &models.AvailabilityResponse{IsAvailable: false, Message: "This property is not available for rent"}, nil
	}
	if property.IsRejected {
		msg := "This property has been rejected"
		if property.RejectionReason != "" {
			msg = msg + ": " + property.RejectionReason
		}
		return &models.AvailabilityResponse{IsAvailable: false, Message: msg}, nil
	}
	if !property.IsApproved {
		return &models.AvailabilityResponse{IsAvailable: false, Message: "This property is not approved for booking yet"}, nil
	}

	count, err := s.collection("bookings").CountDocuments(ctx, activeBookingFilter(propertyID, start, end))
	if err != nil {
		return nil, err
	}

	if count > 0 {
		return &models.AvailabilityResponse{IsAvailable: false, Message: "Property is not available for the selected dates"}, nil
	}
	return &models.AvailabilityResponse{IsAvailable: true, Message: "Property is available for the selected dates"}, nil
}

// CreateBooking validates the request, snapshots pricing and contact details,
// and persists the booking with status pending. The overlap check is
// re-validated inside a transaction so two near-simultaneous requests cannot
// both pass the pre-check and insert.
func (s *BookingService) CreateBooking(ctx context.Context, user *models.User, req models.BookingRequest) (*models.Booking, *models.Property, error) {
	if req.PropertyID == "" || req.StartDate == "" || req.EndDate == "" {
		return nil, nil, newDomainError(CodeValidation, "Missing required fields (propertyId, startDate, endDate)")
	}

	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		return nil, nil, newDomainError(CodeValidation, "Invalid property ID")
	}

	if !user.ProfileComplete() {
		return nil, nil, newDomainError(CodeValidation,
			"Booking validation failed: first name, last name, and phone number are required in user profile.")
	}

	start, err := ParseDate(req.StartDate)
	if err != nil {
		return nil, nil, newDomainError(CodeValidation, "Invalid start date format")
	}
	end, err := ParseDate(req.EndDate)
	if err != nil {
		return nil, nil, newDomainError(CodeValidation, "Invalid end date format")
	}
	if derr := ValidateDateRange(start, end); derr != nil {
		return nil, nil, derr
	}

	var property models.Property
	err = s.collection("properties").FindOne(ctx, bson.M{"_id": propertyID}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, newDomainError(CodeNotFound, "Property not found")
		}
		return nil, nil, err
	}

	if property.ListingStatus != models.ListingStatusForRent {
		return nil, nil, newDomainError(CodePropertyNotRent, "This property is not available for rent")
	}
	if property.IsRejected {
		msg := "This property has been rejected."
		if property.RejectionReason != "" {
			msg = "This property has been rejected. " + property.RejectionReason
		}
		return nil, nil, newDomainError(CodePropertyUnapproved, msg)
	}
	if !property.IsApproved {
		return nil, nil, newDomainError(CodePropertyUnapproved, "This property is not approved for booking yet")
	}

	// Fast-path rejection before opening a transaction
	count, err := s.collection("bookings").CountDocuments(ctx, activeBookingFilter(propertyID, start, end))
	if err != nil {
		return nil, nil, err
	}
	if count > 0 {
		return nil, nil, newDomainError(CodeDateConflict, "This property is already booked for the selected dates")
	}

	now := time.Now()
	booking := &models.Booking{
		ID:              primitive.NewObjectID(),
		PropertyID:      propertyID,
		UserID:          user.ID,
		StartDate:       start,
		EndDate:         end,
		Name:            user.FullName(),
		Email:           user.Email,
		Phone:           user.PhoneNumber,
		MonthlyPrice:    property.Price,
		TotalPrice:      TotalPrice(start, end, property.Price),
		DepositAmount:   Deposit(property.Price),
		SpecialRequests: req.SpecialRequests,
		Status:          models.BookingStatusPending,
		PaymentStatus:   models.PaymentStatusUnpaid,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.insertWithOverlapGuard(ctx, booking, propertyID, start, end); err != nil {
		return nil, nil, err
	}

	return booking, &property, nil
}

// insertWithOverlapGuard re-runs the overlap check and inserts inside a
// transaction. Standalone mongod has no transactions; there we fall back to a
// plain re-check + insert, which still narrows the race window.
func (s *BookingService) insertWithOverlapGuard(ctx context.Context, booking *models.Booking, propertyID primitive.ObjectID, start, end time.Time) error {
	bookings := s.collection("bookings")

	session, err := s.db.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		count, err := bookings.CountDocuments(sc, activeBookingFilter(propertyID, start, end))
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, newDomainError(CodeDateConflict, "This property is already booked for the selected dates")
		}
		return bookings.InsertOne(sc, booking)
	})

	if err != nil {
		if _, ok := AsDomainError(err); ok {
			return err
		}
		if strings.Contains(err.Error(), "Transaction numbers are only allowed") ||
			strings.Contains(err.Error(), "IllegalOperation") {
			log.Printf("Warning: transactions unavailable, falling back to non-transactional insert")
			count, cerr := bookings.CountDocuments(ctx, activeBookingFilter(propertyID, start, end))
			if cerr != nil {
				return cerr
			}
			if count > 0 {
				return newDomainError(CodeDateConflict, "This property is already booked for the selected dates")
			}
			_, ierr := bookings.InsertOne(ctx, booking)
			return ierr
		}
		return err
	}
	return nil
}

// UpdateBookingStatus runs the canonical authorized state machine. When the
// property owner confirms or cancels, the renter email is sent first and the
// status is persisted only after delivery succeeds.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID primitive.ObjectID, newStatus string, actor Actor) (*models.Booking, error) {
	if !ValidStatus(newStatus) {
		return nil, &DomainError{
			Code:    CodeInvalidStatus,
			Message: "Invalid status. Use 'pending', 'confirmed', 'completed', or 'cancelled'",
		}
	}

	var booking models.Booking
	err := s.collection("bookings").FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, newDomainError(CodeNotFound, "Booking not found")
		}
		return nil, err
	}

	var property models.Property
	err = s.collection("properties").FindOne(ctx, bson.M{"_id": booking.PropertyID}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, newDomainError(CodeNotFound, "Associated property not found")
		}
		return nil, err
	}

	isRenter := booking.UserID == actor.UserID
	isOwner := property.UserID == actor.UserID

	if !CanTransition(booking.Status, newStatus) {
		return nil, &DomainError{
			Code:    CodeInvalidTransition,
			Message: fmt.Sprintf("Cannot change booking status from %s to %s", booking.Status, newStatus),
		}
	}

	if derr := AuthorizeTransition(actor.Role, isRenter, isOwner, booking.Status, newStatus); derr != nil {
		return nil, derr
	}

	// Owner-driven confirm/cancel is gated on renter notification. Admin and
	// renter transitions persist directly.
	ownerGated := isOwner && actor.Role != models.RoleAdmin &&
		(newStatus == models.BookingStatusConfirmed || newStatus == models.BookingStatusCancelled)

	if ownerGated {
		if err := s.notifyRenter(ctx, &booking, &property, newStatus, actor.Email); err != nil {
			return nil, err
		}
	}

	update := bson.M{"$set": bson.M{
		"status":    newStatus,
		"updatedAt": time.Now(),
	}}
	// Guard on the status read above so a concurrent transition (a renter
	// cancelling while an owner's confirm waits on email) cannot overwrite a
	// terminal state. MatchedCount 0 means someone moved the booking first.
	res, err := s.collection("bookings").UpdateOne(ctx, bson.M{"_id": bookingID, "status": booking.Status}, update)
	if err != nil {
		return nil, err
	}
	if derr := staleTransitionError(res.MatchedCount, booking.Status, newStatus); derr != nil {
		return nil, derr
	}

	booking.Status = newStatus
	booking.UpdatedAt = time.Now()

	s.recordActivity(ctx, &booking, newStatus, actor)

	return &booking, nil
}

// notifyRenter resolves the renter, renders the status email and delivers it
// with bounded retry. An error here means the status must not change.
func (s *BookingService) notifyRenter(ctx context.Context, booking *models.Booking, property *models.Property, newStatus, ownerEmail string) error {
	var renter models.User
	err := s.collection("users").FindOne(ctx, bson.M{"_id": booking.UserID}).Decode(&renter)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return newDomainError(CodeNotFound, "No user associated with this booking")
		}
		return err
	}

	if derr := missingContactError(&renter); derr != nil {
		return derr
	}

	action := "approved"
	if newStatus == models.BookingStatusCancelled {
		action = "rejected"
	}
	subject := fmt.Sprintf("Your booking has been %s", action)
	html := RenderBookingStatusEmail(booking, property, &renter, newStatus, action, ownerEmail)

	if err := s.deliverWithRetry(ctx, renter.Email, subject, html); err != nil {
		log.Printf("All email attempts failed for booking %s: %v", booking.ID.Hex(), err)
		return &DomainError{
			Code:    CodeNotificationFailed,
			Message: "Booking status not updated - failed to send notification",
			Details: map[string]interface{}{
				"email": renter.Email,
				"phone": contactFallback(renter.PhoneNumber),
			},
		}
	}
	return nil
}

// deliverWithRetry attempts delivery up to three times with linear backoff
// (1x, 2x the base gap). The whole window is capped so a notification outage
// cannot hang the request.
func (s *BookingService) deliverWithRetry(ctx context.Context, to, subject, html string) error {
	ctx, cancel := context.WithTimeout(ctx, 6*s.retryBackoff)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= notifyAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = s.sendWithContext(ctx, to, subject, html)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
		log.Printf("Email attempt %d/%d failed: %v", attempt, notifyAttempts, lastErr)

		if attempt < notifyAttempts {
			timer := time.NewTimer(time.Duration(attempt) * s.retryBackoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return lastErr
}

// sendWithContext abandons an in-flight send once the window expires. SMTP
// dials can hang far longer than the retry window allows, so the mailer call
// runs in its own goroutine and finishes in the background; its result is
// discarded once the context is done.
func (s *BookingService) sendWithContext(ctx context.Context, to, subject, html string) error {
	done := make(chan error, 1)
	go func() {
		done <- s.mailer.SendEmail(to, subject, html)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func (s *BookingService) recordActivity(ctx context.Context, booking *models.Booking, newStatus string, actor Actor) {
	activity := models.Activity{
		ID:          primitive.NewObjectID(),
		Type:        "booking_status_changed",
		Description: fmt.Sprintf("Booking %s moved to %s", booking.ID.Hex(), newStatus),
		UserID:      &actor.UserID,
		PropertyID:  &booking.PropertyID,
		CreatedAt:   time.Now(),
	}
	if _, err := s.collection("activities").InsertOne(ctx, activity); err != nil {
		log.Printf("Failed to record activity: %v", err)
	}
}

// staleTransitionError rejects a status write whose guarded filter matched
// nothing, meaning another caller moved the booking since it was read
func staleTransitionError(matched int64, from, to string) *DomainError {
	if matched > 0 {
		return nil
	}
	return &DomainError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("Booking status changed while processing; cannot move from %s to %s", from, to),
	}
}

// missingContactError reports the no-email case with the phone fallback a
// human operator needs to reach the renter manually
func missingContactError(renter *models.User) *DomainError {
	if renter.Email != "" {
		return nil
	}
	return &DomainError{
		Code:    CodeMissingContact,
		Message: "Cannot send notification - user email is missing",
		Details: map[string]interface{}{
			"phone": contactFallback(renter.PhoneNumber),
			"name":  contactName(renter),
		},
	}
}

func contactFallback(phone string) string {
	if phone == "" {
		return "Not available"
	}
	return phone
}

func contactName(u *models.User) string {
	name := strings.TrimSpace(u.FullName())
	if name == "" {
		return "Customer"
	}
	return name
}

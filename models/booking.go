package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Payment statuses
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Booking model. Contact details and monthly price are snapshots taken at
// booking time so later profile or listing edits don't rewrite history.
type Booking struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID      primitive.ObjectID `json:"propertyId" bson:"propertyId"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	StartDate       time.Time          `json:"startDate" bson:"startDate"`
	EndDate         time.Time          `json:"endDate" bson:"endDate"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	Phone           string             `json:"phone" bson:"phone"`
	MonthlyPrice    float64            `json:"monthlyPrice" bson:"monthlyPrice"`
	TotalPrice      float64            `json:"totalPrice" bson:"totalPrice"`
	DepositAmount   float64            `json:"depositAmount" bson:"depositAmount"`
	SpecialRequests string             `json:"specialRequests" bson:"specialRequests"`
	Status          string             `json:"status" bson:"status"`               // "pending", "confirmed", "cancelled", "completed"
	PaymentStatus   string             `json:"paymentStatus" bson:"paymentStatus"` // "unpaid", "partial", "paid"
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// BookingRequest model
type BookingRequest struct {
	PropertyID      string `json:"propertyId"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// BookingStatusUpdateRequest model for updating booking status
type BookingStatusUpdateRequest struct {
	Status string `json:"status"`
}

// AvailabilityResponse is the payload of the public availability check
type AvailabilityResponse struct {
	IsAvailable bool   `json:"isAvailable"`
	Message     string `json:"message"`
}

// BookingDetail is a booking enriched with its property and renter
type BookingDetail struct {
	Booking  Booking          `json:"booking"`
	Property *PropertySummary `json:"property,omitempty"`
	User     *UserSummary     `json:"user,omitempty"`
}

// PropertySummary is the populated property slice attached to booking listings
type PropertySummary struct {
	ID            primitive.ObjectID `json:"id"`
	Title         string             `json:"title"`
	Location      string             `json:"location"`
	Price         float64            `json:"price"`
	Bedrooms      int                `json:"bedrooms,omitempty"`
	Bathrooms     int                `json:"bathrooms,omitempty"`
	Image         string             `json:"image,omitempty"`
	ListingStatus string             `json:"listingStatus,omitempty"`
}

// UserSummary is the populated renter slice attached to booking listings
type UserSummary struct {
	ID          primitive.ObjectID `json:"id"`
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	Email       string             `json:"email"`
	PhoneNumber string             `json:"phoneNumber"`
}

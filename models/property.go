package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing statuses
const (
	ListingStatusForSale = "For Sale"
	ListingStatusForRent = "For Rent"
)

// Approval statuses
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// Property model
type Property struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	Price           float64            `json:"price" bson:"price"`
	Location        string             `json:"location" bson:"location"`
	Bedrooms        int                `json:"bedrooms" bson:"bedrooms"`
	Bathrooms       int                `json:"bathrooms" bson:"bathrooms"`
	Type            string             `json:"type" bson:"type"`
	ListingStatus   string             `json:"listingStatus" bson:"listingStatus"` // "For Sale", "For Rent"
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	OwnerEmail      string             `json:"ownerEmail" bson:"ownerEmail"`
	Image           string             `json:"image,omitempty" bson:"image,omitempty"`
	Thumbnail       string             `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	IsApproved      bool               `json:"isApproved" bson:"isApproved"`
	IsRejected      bool               `json:"isRejected" bson:"isRejected"`
	RejectedAt      *time.Time         `json:"rejectedAt,omitempty" bson:"rejectedAt,omitempty"`
	RejectionReason string             `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	ApprovalStatus  string             `json:"approvalStatus" bson:"approvalStatus"` // "pending", "approved", "rejected"
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// Rentable reports whether bookings may be created against the property.
func (p *Property) Rentable() bool {
	return p.ListingStatus == ListingStatusForRent && p.IsApproved && !p.IsRejected
}

// PropertyUpdateRequest carries the owner-editable listing fields
type PropertyUpdateRequest struct {
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Location      string   `json:"location,omitempty"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *int     `json:"bathrooms,omitempty"`
	Type          string   `json:"type,omitempty"`
	ListingStatus string   `json:"listingStatus,omitempty"`
}

// PropertyOwnerInfo is the public contact card shown for a listing's owner
type PropertyOwnerInfo struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	PropertiesCount int64  `json:"propertiesCount"`
	Locality        string `json:"locality"`
}

// RejectPropertyRequest model
type RejectPropertyRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

// Inquiry is a buyer's contact-owner message about a property
type Inquiry struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID primitive.ObjectID `json:"propertyId" bson:"propertyId"`
	BuyerName  string             `json:"buyerName" bson:"buyerName"`
	BuyerEmail string             `json:"buyerEmail" bson:"buyerEmail"`
	BuyerPhone string             `json:"buyerPhone,omitempty" bson:"buyerPhone,omitempty"`
	Message    string             `json:"message" bson:"message"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// InquiryRequest model
type InquiryRequest struct {
	BuyerName  string `json:"buyerName" validate:"required"`
	BuyerEmail string `json:"buyerEmail" validate:"required,email"`
	BuyerPhone string `json:"buyerPhone,omitempty"`
	Message    string `json:"message" validate:"required"`
}

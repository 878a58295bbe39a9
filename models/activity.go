package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity records an admin-visible audit trail entry
type Activity struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Type        string              `json:"type" bson:"type"` // "property_approved", "property_rejected", "booking_status_changed"
	Description string              `json:"description" bson:"description"`
	UserID      *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	PropertyID  *primitive.ObjectID `json:"propertyId,omitempty" bson:"propertyId,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
}

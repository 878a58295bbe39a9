package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wishlist model. A unique compound index on (userId, propertyId) keeps
// entries one-per-property.
type Wishlist struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"userId" bson:"userId"`
	PropertyID primitive.ObjectID `json:"propertyId" bson:"propertyId"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// WishlistRequest model
type WishlistRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
}

// WishlistEntry is a wishlist item with its property populated
type WishlistEntry struct {
	ID        primitive.ObjectID `json:"id"`
	Property  *Property          `json:"property,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

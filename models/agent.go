package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Agent model
type Agent struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Phone     string             `json:"phone" bson:"phone"`
	Img       string             `json:"img,omitempty" bson:"img,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

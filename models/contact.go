package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactMessage model
type ContactMessage struct {
	ID      primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name    string             `json:"name" bson:"name"`
	Email   string             `json:"email" bson:"email"`
	Message string             `json:"message" bson:"message"`
	Date    time.Time          `json:"date" bson:"date"`
	Replied bool               `json:"replied" bson:"replied"`
	Reply   string             `json:"reply" bson:"reply"`
}

// ContactRequest model
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// ReplyRequest model
type ReplyRequest struct {
	ReplyMessage string `json:"replyMessage" validate:"required"`
}

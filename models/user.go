package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User model
type User struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FirstName     string             `json:"firstName" bson:"firstName"`
	LastName      string             `json:"lastName" bson:"lastName"`
	Email         string             `json:"email" bson:"email"`
	Password      string             `json:"-" bson:"password"`
	ProfileImage  string             `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	PhoneNumber   string             `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Address       string             `json:"address,omitempty" bson:"address,omitempty"`
	Role          string             `json:"role" bson:"role"` // "user", "admin"
	Notifications []UserNotification `json:"notifications,omitempty" bson:"notifications,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// FullName joins first and last name for display and snapshots.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// ProfileComplete reports whether the contact fields required for booking
// creation are all populated.
func (u *User) ProfileComplete() bool {
	return u.FirstName != "" && u.LastName != "" && u.PhoneNumber != "" && u.Email != ""
}

// UserNotification is an in-app notification embedded on the user document
type UserNotification struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Type       string              `json:"type" bson:"type"` // "property_approved", "property_rejected", "booking_update", "general"
	Message    string              `json:"message" bson:"message"`
	PropertyID *primitive.ObjectID `json:"propertyId,omitempty" bson:"propertyId,omitempty"`
	Read       bool                `json:"read" bson:"read"`
	CreatedAt  time.Time           `json:"createdAt" bson:"createdAt"`
}

// SignupRequest model
type SignupRequest struct {
	FirstName   string `json:"firstName" form:"firstName" validate:"required"`
	LastName    string `json:"lastName" form:"lastName" validate:"required"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	Password    string `json:"password" form:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Address     string `json:"address" form:"address"`
}

// LoginRequest model
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginData is returned alongside the token on successful login
type LoginData struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateUserRequest carries the profile fields a user may edit
type UpdateUserRequest struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}

// ForgotPasswordRequest model
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest model
type ResetPasswordRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Code      string `json:"code" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
	CPassword string `json:"cpassword" validate:"required"`
}

// PasswordReset is a pending reset code stored server side
type PasswordReset struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Code      string             `bson:"code"`
	ExpiresAt time.Time          `bson:"expiresAt"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// Response is the envelope every endpoint replies with
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound = errors.New("user not found")
)

// User is the local record of an identity verified by the external identity provider.
// swagger:model User
type User struct {
	ID          string    `json:"id" bson:"id"`
	FirebaseUID string    `json:"firebaseUid" bson:"firebaseUid"`
	Email       string    `json:"email" bson:"email"`
	DisplayName *string   `json:"displayName,omitempty" bson:"displayName,omitempty"`
	PhotoURL    *string   `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// NewUser returns a new User for the given external subject. ID is set by the repository on create.
func NewUser(firebaseUID, email string, displayName, photoURL *string, createdAt time.Time) *User {
	return &User{
		FirebaseUID: firebaseUID,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
		CreatedAt:   createdAt,
	}
}

// UserRepository defines the interface for user storage.
// Create returns ErrConflict when a user with the same FirebaseUID already exists.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByExternalID(ctx context.Context, firebaseUID string) (*User, error)
}

// IdentityResolver maps a verified external subject to the local user record.
type IdentityResolver interface {
	GetByExternalID(ctx context.Context, firebaseUID string) (*User, error)
}

// UserService defines user registration and lookup.
type UserService interface {
	IdentityResolver
	// Register creates the user for a new subject, or returns the existing one. created reports which.
	Register(ctx context.Context, user *User) (*User, bool, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

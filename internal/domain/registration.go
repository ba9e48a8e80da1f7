package domain

import (
	"context"
	"time"
)

// Registration is a runner's enrollment in one marathon.
// swagger:model Registration
type Registration struct {
	ID             string    `json:"id" bson:"id"`
	UserID         string    `json:"userId" bson:"userId"`
	MarathonID     string    `json:"marathonId" bson:"marathonId"`
	FirstName      string    `json:"firstName" bson:"firstName"`
	LastName       string    `json:"lastName" bson:"lastName"`
	Email          string    `json:"email" bson:"email"`
	Contact        string    `json:"contact" bson:"contact"`
	AdditionalInfo *string   `json:"additionalInfo,omitempty" bson:"additionalInfo,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// RegistrationWithMarathon bundles a registration with its marathon.
// Marathon is nil when the marathon no longer exists.
// swagger:model RegistrationWithMarathon
type RegistrationWithMarathon struct {
	Registration `bson:",inline"`
	Marathon     *Marathon `json:"marathon" bson:"marathon,omitempty"`
}

// RegistrationUpdate holds the fields a registrant may change. Nil fields are left untouched.
type RegistrationUpdate struct {
	FirstName      *string
	LastName       *string
	Contact        *string
	AdditionalInfo *string
}

// IsEmpty reports whether the update changes nothing.
func (u RegistrationUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Contact == nil && u.AdditionalInfo == nil
}

// Apply copies the set fields of u onto r.
func (u RegistrationUpdate) Apply(r *Registration) {
	if u.FirstName != nil {
		r.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		r.LastName = *u.LastName
	}
	if u.Contact != nil {
		r.Contact = *u.Contact
	}
	if u.AdditionalInfo != nil {
		info := *u.AdditionalInfo
		r.AdditionalInfo = &info
	}
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// Create returns ErrConflict if the user is already registered for the marathon.
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByUserAndMarathon(ctx context.Context, userID, marathonID string) (*Registration, error)
	// ListByUser returns the user's registrations joined with their marathons, newest first.
	// A non-empty search keeps rows whose marathon title contains it, ignoring case.
	ListByUser(ctx context.Context, userID, search string) ([]*RegistrationWithMarathon, error)
	Update(ctx context.Context, id string, update RegistrationUpdate) (*Registration, error)
	Delete(ctx context.Context, id string) error
	DeleteByMarathon(ctx context.Context, marathonID string) (int64, error)
}

// RegistrationService defines the registration lifecycle for runners.
type RegistrationService interface {
	// Register enrolls the user and bumps the marathon's participant count.
	Register(ctx context.Context, reg *Registration) (*Registration, error)
	GetRegistration(ctx context.Context, id, callerID string) (*Registration, error)
	ListByUser(ctx context.Context, userID, callerID, search string) ([]*RegistrationWithMarathon, error)
	UpdateRegistration(ctx context.Context, id, callerID string, update RegistrationUpdate) (*Registration, error)
	// DeleteRegistration removes the registration and decrements the marathon's participant count.
	DeleteRegistration(ctx context.Context, id, callerID string) error
}

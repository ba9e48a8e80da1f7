package domain

import (
	"context"
	"fmt"
	"time"
)

// Distance is the race length of a marathon.
type Distance string

// Supported race distances.
const (
	Distance3K  Distance = "3k"
	Distance10K Distance = "10k"
	Distance25K Distance = "25k"
	Distance42K Distance = "42k"
)

// Valid reports whether d is one of the supported distances.
func (d Distance) Valid() bool {
	switch d {
	case Distance3K, Distance10K, Distance25K, Distance42K:
		return true
	}
	return false
}

// Marathon is an organized race with a registration window.
// swagger:model Marathon
type Marathon struct {
	ID                string    `json:"id" bson:"id"`
	Title             string    `json:"title" bson:"title"`
	Description       string    `json:"description" bson:"description"`
	Location          string    `json:"location" bson:"location"`
	Distance          Distance  `json:"distance" bson:"distance"`
	RegStartDate      time.Time `json:"regStartDate" bson:"regStartDate"`
	RegEndDate        time.Time `json:"regEndDate" bson:"regEndDate"`
	StartDate         time.Time `json:"startDate" bson:"startDate"`
	ImageURL          string    `json:"imageURL" bson:"imageURL"`
	CreatedBy         string    `json:"createdBy" bson:"createdBy"`
	TotalRegistration int       `json:"totalRegistration" bson:"totalRegistration"`
	CreatedAt         time.Time `json:"createdAt" bson:"createdAt"`
}

// ValidateSchedule checks that registration opens before it closes and closes before the race starts.
func (m *Marathon) ValidateSchedule() error {
	if !m.RegStartDate.Before(m.RegEndDate) {
		return fmt.Errorf("%w: regStartDate must be before regEndDate", ErrInvalidInput)
	}
	if !m.RegEndDate.Before(m.StartDate) {
		return fmt.Errorf("%w: regEndDate must be before startDate", ErrInvalidInput)
	}
	return nil
}

// MarathonUpdate holds the fields an owner may change. Nil fields are left untouched.
type MarathonUpdate struct {
	Title        *string
	Description  *string
	Location     *string
	Distance     *Distance
	RegStartDate *time.Time
	RegEndDate   *time.Time
	StartDate    *time.Time
	ImageURL     *string
}

// IsEmpty reports whether the update changes nothing.
func (u MarathonUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Location == nil && u.Distance == nil &&
		u.RegStartDate == nil && u.RegEndDate == nil && u.StartDate == nil && u.ImageURL == nil
}

// Apply copies the set fields of u onto m.
func (u MarathonUpdate) Apply(m *Marathon) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Location != nil {
		m.Location = *u.Location
	}
	if u.Distance != nil {
		m.Distance = *u.Distance
	}
	if u.RegStartDate != nil {
		m.RegStartDate = *u.RegStartDate
	}
	if u.RegEndDate != nil {
		m.RegEndDate = *u.RegEndDate
	}
	if u.StartDate != nil {
		m.StartDate = *u.StartDate
	}
	if u.ImageURL != nil {
		m.ImageURL = *u.ImageURL
	}
}

// MarathonRepository defines the interface for marathon storage.
type MarathonRepository interface {
	Create(ctx context.Context, marathon *Marathon) error
	GetByID(ctx context.Context, id string) (*Marathon, error)
	List(ctx context.Context, params ListParams) ([]*Marathon, error)
	// ListByOwner returns the owner's marathons, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*Marathon, error)
	Update(ctx context.Context, id string, update MarathonUpdate) (*Marathon, error)
	Delete(ctx context.Context, id string) error
	// AdjustRegistrationCount atomically adds delta to TotalRegistration. Decrements never go below zero.
	// Returns ErrNotFound when incrementing a marathon that does not exist.
	AdjustRegistrationCount(ctx context.Context, id string, delta int) error
}

// MarathonService defines event management for organizers and browsing for runners.
type MarathonService interface {
	CreateMarathon(ctx context.Context, marathon *Marathon) error
	GetMarathon(ctx context.Context, id string) (*Marathon, error)
	ListMarathons(ctx context.Context, params ListParams) ([]*Marathon, error)
	// ListByOwner returns ownerID's marathons; callerID must be the owner.
	ListByOwner(ctx context.Context, ownerID, callerID string) ([]*Marathon, error)
	UpdateMarathon(ctx context.Context, id, callerID string, update MarathonUpdate) (*Marathon, error)
	// DeleteMarathon removes the marathon and every registration for it.
	DeleteMarathon(ctx context.Context, id, callerID string) error
}

package domain

import "errors"

// ErrNotFound is returned when a requested marathon or registration does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write would break a uniqueness rule,
// e.g. a second registration of the same user for the same marathon.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when the caller does not own the resource it tries to change.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidInput is returned when the request is invalid (e.g. registration window after the race).
var ErrInvalidInput = errors.New("invalid input")

// CanMutate reports whether actorID may change a resource owned by ownerID.
func CanMutate(actorID, ownerID string) bool {
	return actorID != "" && actorID == ownerID
}

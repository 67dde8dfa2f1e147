package domain

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned when a referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// User is the minimal user record the group domain needs. Authentication
// and profile management live with the external identity collaborator.
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserProvisioning guarantees a user record exists before a mutating group
// operation references it. The identity layer has already verified the id.
type UserProvisioning interface {
	EnsureExists(ctx context.Context, userID string) error
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for invitation operations.
var (
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationNotActive = errors.New("invitation not active")
	ErrDuplicateInvitation = errors.New("an active invitation already exists for this email")
	ErrTokenExhausted      = errors.New("could not generate unique invitation token")
)

// InvitationStatus is the stored lifecycle state of an invitation. Expiry is
// deliberately not a stored state; it is computed from ExpiresAt at the
// point of use.
type InvitationStatus string

const (
	InvitationActive  InvitationStatus = "active"
	InvitationRevoked InvitationStatus = "revoked"
)

// Invitation is a time-boxed, token-bearing offer for an email address to
// join a group.
// swagger:model Invitation
type Invitation struct {
	ID        string           `json:"id"`
	GroupID   string           `json:"group_id"`
	Email     string           `json:"email"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Status    InvitationStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewInvitation returns a new active Invitation. ID is typically set by the repository on create.
func NewInvitation(groupID, email, token string, expiresAt, createdAt time.Time) *Invitation {
	return &Invitation{
		GroupID:   groupID,
		Email:     email,
		Token:     token,
		ExpiresAt: expiresAt,
		Status:    InvitationActive,
		CreatedAt: createdAt,
	}
}

// IsAcceptable reports whether the invitation can still be accepted at the
// given instant: it must be active and not yet expired (now < ExpiresAt).
func (i *Invitation) IsAcceptable(now time.Time) bool {
	return i.Status == InvitationActive && now.Before(i.ExpiresAt)
}

// AcceptResult is the outcome of accepting an invitation. AlreadyMember is
// true when the accept was an idempotent repeat for an existing member.
type AcceptResult struct {
	GroupID       string `json:"group_id"`
	UserID        string `json:"user_id"`
	AlreadyMember bool   `json:"already_member"`
}

// TokenGenerator produces opaque invitation tokens. Uniqueness is not the
// generator's concern; callers check for collisions and retry.
type TokenGenerator interface {
	Generate() (string, error)
}

// InvitationService defines the invitation lifecycle. Callers supply the
// current time so expiry stays a pure function of the clock.
type InvitationService interface {
	Create(ctx context.Context, groupID, email string, now time.Time, ttl time.Duration) (*Invitation, error)
	Accept(ctx context.Context, token, userID string, now time.Time) (*AcceptResult, error)
	// Revoke reports whether the invitation was transitioned to revoked.
	// Missing, cross-group and already-revoked invitations are a no-op false.
	Revoke(ctx context.Context, groupID, invitationID string) (bool, error)
	// CountExpired counts active invitations whose expiry has passed,
	// without mutating them.
	CountExpired(ctx context.Context, now time.Time) (int, error)
}

// InvitationRepository defines storage operations for invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id string) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	// FindActiveByGroupAndEmail returns the active invitation for the
	// (group, email) pair, or ErrNotFound. Expiry is not filtered here;
	// callers decide with IsAcceptable.
	FindActiveByGroupAndEmail(ctx context.Context, groupID, email string) (*Invitation, error)
	ExistsByToken(ctx context.Context, token string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status InvitationStatus) error
	// CountActiveExpired counts active invitations whose expiry has passed.
	// Read-only; it never transitions status.
	CountActiveExpired(ctx context.Context, now time.Time) (int, error)
}

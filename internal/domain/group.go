package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAmbiguousGroup is returned when a single group context was required but
// the user belongs to more than one group.
var ErrAmbiguousGroup = errors.New("user belongs to more than one group")

// Group represents a household group of collaborating users.
// swagger:model Group
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGroup returns a new Group with the given fields. ID is typically set by the repository on create.
func NewGroup(name string, createdAt, updatedAt time.Time) *Group {
	return &Group{
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// GroupRepository defines the interface for group storage.
type GroupRepository interface {
	Create(ctx context.Context, group *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	Rename(ctx context.Context, id, name string, updatedAt time.Time) error
	// Delete removes the group row. Callers must ensure the group has no
	// memberships left; there is no cascading behavior here.
	Delete(ctx context.Context, id string) error
}

// GroupService defines the transactional facade over groups, memberships and
// invitations. It is the contract the API layer consumes.
type GroupService interface {
	CreateGroup(ctx context.Context, name, ownerUserID string) (groupID string, err error)
	RenameGroup(ctx context.Context, groupID, actorUserID, name string) error
	CreateInvitation(ctx context.Context, groupID, actorUserID, email string, ttl time.Duration) (*Invitation, error)
	AcceptInvitation(ctx context.Context, token, userID string) (*AcceptResult, error)
	RevokeInvitation(ctx context.Context, groupID, actorUserID, invitationID string) (bool, error)
	AddMember(ctx context.Context, groupID, actorUserID, targetUserID string) error
	RemoveMember(ctx context.Context, groupID, actorUserID, targetUserID string) error
	ListMembers(ctx context.Context, groupID string) ([]*Membership, error)
	ResolveGroupForUser(ctx context.Context, userID string) (*Group, error)
	CountExpiredInvitations(ctx context.Context) (int, error)
}

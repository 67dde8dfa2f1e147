package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyMember is returned when adding a user who is already a member of the group.
var ErrAlreadyMember = errors.New("already a group member")

// ErrLastAdministrator is returned when a removal would leave a non-empty
// group without any administrator.
var ErrLastAdministrator = errors.New("cannot remove the last administrator of a group")

// ErrAdministratorConflict is returned when an administrator attempts to
// remove another administrator.
var ErrAdministratorConflict = errors.New("administrator cannot remove another administrator")

// Role is the authority a membership grants within its group.
type Role string

const (
	// RoleAdministrator may invite, add and remove other members.
	RoleAdministrator Role = "administrator"
	// RoleMember has no administrative authority.
	RoleMember Role = "member"
)

// Membership represents the fact that a user belongs to a group, with a role.
// It is keyed by (GroupID, UserID); it has no identity of its own.
// swagger:model Membership
type Membership struct {
	GroupID   string    `json:"group_id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMembership returns a new Membership with the given fields.
func NewMembership(groupID, userID string, role Role, createdAt time.Time) *Membership {
	return &Membership{
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		CreatedAt: createdAt,
	}
}

// IsAdministrator reports whether the membership carries administrative authority.
func (m *Membership) IsAdministrator() bool {
	return m.Role == RoleAdministrator
}

// MembershipRepository defines the interface for membership storage.
// Implementations must enforce (group_id, user_id) uniqueness.
type MembershipRepository interface {
	Create(ctx context.Context, m *Membership) error
	GetByGroupAndUser(ctx context.Context, groupID, userID string) (*Membership, error)
	ListByGroupID(ctx context.Context, groupID string) ([]*Membership, error)
	ListByUserID(ctx context.Context, userID string) ([]*Membership, error)
	Remove(ctx context.Context, groupID, userID string) error
	// DeleteByUserID removes every membership of the user and returns the
	// ids of the groups that were affected.
	DeleteByUserID(ctx context.Context, userID string) ([]string, error)
	CountByGroupID(ctx context.Context, groupID string) (int, error)
}

// GroupMembershipSnapshot is the per-group view handed to the account
// deletion workflow: the user's authority plus the group's member counts.
type GroupMembershipSnapshot struct {
	GroupID            string `json:"group_id"`
	IsAdministrator    bool   `json:"is_administrator"`
	MemberCount        int    `json:"member_count"`
	AdministratorCount int    `json:"administrator_count"`
}

// AccountDeletionService guards and performs the membership side of deleting
// a user account.
type AccountDeletionService interface {
	MembershipsForUser(ctx context.Context, userID string) ([]*GroupMembershipSnapshot, error)
	// RemoveUserFromAllGroups deletes the user's memberships and any group
	// left empty as a result. It fails with ErrLastAdministrator if the user
	// is the sole administrator of a group that still has other members.
	RemoveUserFromAllGroups(ctx context.Context, userID string) error
}

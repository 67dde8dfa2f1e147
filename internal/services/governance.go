package services

import (
	"fmt"

	"householdhub/internal/domain"
)

// Governance rules are evaluated against a membership snapshot loaded once
// per operation, so the decision and the mutation see the same state.

func findMembership(memberships []*domain.Membership, userID string) *domain.Membership {
	for _, m := range memberships {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}

func countAdministrators(memberships []*domain.Membership) int {
	n := 0
	for _, m := range memberships {
		if m.IsAdministrator() {
			n++
		}
	}
	return n
}

// requireMember authorizes the user as a member of the group the snapshot
// belongs to.
func requireMember(memberships []*domain.Membership, userID string) (*domain.Membership, error) {
	m := findMembership(memberships, userID)
	if m == nil {
		return nil, fmt.Errorf("%w: user %s is not a member of the group", domain.ErrForbidden, userID)
	}
	return m, nil
}

// requireAdministrator authorizes the user as an administrator of the group.
func requireAdministrator(memberships []*domain.Membership, userID string) (*domain.Membership, error) {
	m, err := requireMember(memberships, userID)
	if err != nil {
		return nil, err
	}
	if !m.IsAdministrator() {
		return nil, fmt.Errorf("%w: user %s is not an administrator of the group", domain.ErrForbidden, userID)
	}
	return m, nil
}

// checkRemoval decides whether actor may remove target from the group.
// Administrators cannot remove each other, and the last administrator of a
// group with other members cannot be removed by anyone. The sole
// administrator may remove themself only when they are also the sole member.
func checkRemoval(memberships []*domain.Membership, actor, target *domain.Membership) error {
	if !target.IsAdministrator() {
		return nil
	}
	if actor.IsAdministrator() && actor.UserID != target.UserID {
		return domain.ErrAdministratorConflict
	}
	if countAdministrators(memberships) == 1 && len(memberships) > 1 {
		return domain.ErrLastAdministrator
	}
	return nil
}

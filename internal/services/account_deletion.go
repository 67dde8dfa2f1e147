package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"householdhub/internal/domain"
)

type accountDeletionService struct {
	groupRepo      domain.GroupRepository
	membershipRepo domain.MembershipRepository
	contextTimeout time.Duration
}

// NewAccountDeletionService creates the service the user-deletion workflow
// consults before and during account removal.
func NewAccountDeletionService(
	groupRepo domain.GroupRepository,
	membershipRepo domain.MembershipRepository,
	timeout time.Duration,
) domain.AccountDeletionService {
	return &accountDeletionService{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		contextTimeout: timeout,
	}
}

func (s *accountDeletionService) MembershipsForUser(ctx context.Context, userID string) ([]*domain.GroupMembershipSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	own, err := s.membershipRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	snapshots := make([]*domain.GroupMembershipSnapshot, 0, len(own))
	for _, m := range own {
		peers, err := s.membershipRepo.ListByGroupID(ctx, m.GroupID)
		if err != nil {
			return nil, fmt.Errorf("list group memberships: %w", err)
		}
		snapshots = append(snapshots, &domain.GroupMembershipSnapshot{
			GroupID:            m.GroupID,
			IsAdministrator:    m.IsAdministrator(),
			MemberCount:        len(peers),
			AdministratorCount: countAdministrators(peers),
		})
	}
	return snapshots, nil
}

func (s *accountDeletionService) RemoveUserFromAllGroups(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	snapshots, err := s.MembershipsForUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, snap := range snapshots {
		if snap.IsAdministrator && snap.AdministratorCount == 1 && snap.MemberCount > 1 {
			return fmt.Errorf("%w: group %s", domain.ErrLastAdministrator, snap.GroupID)
		}
	}

	groupIDs, err := s.membershipRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}

	// Groups are re-checked after the deletions; only then is "empty" known.
	seen := make(map[string]struct{}, len(groupIDs))
	for _, groupID := range groupIDs {
		if _, ok := seen[groupID]; ok {
			continue
		}
		seen[groupID] = struct{}{}
		remaining, err := s.membershipRepo.CountByGroupID(ctx, groupID)
		if err != nil {
			return fmt.Errorf("count memberships: %w", err)
		}
		if remaining > 0 {
			continue
		}
		if err := s.groupRepo.Delete(ctx, groupID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete empty group: %w", err)
		}
	}
	return nil
}

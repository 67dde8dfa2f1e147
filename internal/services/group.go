package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"householdhub/internal/domain"
)

type groupService struct {
	groupRepo      domain.GroupRepository
	membershipRepo domain.MembershipRepository
	invitations    domain.InvitationService
	users          domain.UserProvisioning
	invitationTTL  time.Duration
	contextTimeout time.Duration
	now            func() time.Time
}

// NewGroupService creates the group orchestration service. invitationTTL is
// the default lifetime applied when CreateInvitation receives a non-positive
// ttl. now may be nil, in which case time.Now is used.
func NewGroupService(
	groupRepo domain.GroupRepository,
	membershipRepo domain.MembershipRepository,
	invitations domain.InvitationService,
	users domain.UserProvisioning,
	invitationTTL time.Duration,
	timeout time.Duration,
	now func() time.Time,
) domain.GroupService {
	if now == nil {
		now = time.Now
	}
	return &groupService{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		invitations:    invitations,
		users:          users,
		invitationTTL:  invitationTTL,
		contextTimeout: timeout,
		now:            now,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, name, ownerUserID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: group name is required", domain.ErrInvalidInput)
	}
	if ownerUserID == "" {
		return "", fmt.Errorf("%w: owner user id is required", domain.ErrInvalidInput)
	}

	if err := s.users.EnsureExists(ctx, ownerUserID); err != nil {
		return "", fmt.Errorf("ensure owner exists: %w", err)
	}

	now := s.now()
	group := domain.NewGroup(name, now, now)
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return "", fmt.Errorf("create group: %w", err)
	}
	owner := domain.NewMembership(group.ID, ownerUserID, domain.RoleAdministrator, now)
	if err := s.membershipRepo.Create(ctx, owner); err != nil {
		return "", fmt.Errorf("create owner membership: %w", err)
	}
	return group.ID, nil
}

func (s *groupService) RenameGroup(ctx context.Context, groupID, actorUserID, name string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: group name is required", domain.ErrInvalidInput)
	}

	if err := s.users.EnsureExists(ctx, actorUserID); err != nil {
		return fmt.Errorf("ensure actor exists: %w", err)
	}
	memberships, err := s.membershipRepo.ListByGroupID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("list memberships: %w", err)
	}
	if _, err := requireAdministrator(memberships, actorUserID); err != nil {
		return err
	}
	if err := s.groupRepo.Rename(ctx, groupID, name, s.now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("rename group: %w", err)
	}
	return nil
}

func (s *groupService) CreateInvitation(ctx context.Context, groupID, actorUserID, email string, ttl time.Duration) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.users.EnsureExists(ctx, actorUserID); err != nil {
		return nil, fmt.Errorf("ensure actor exists: %w", err)
	}
	memberships, err := s.membershipRepo.ListByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	if _, err := requireAdministrator(memberships, actorUserID); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = s.invitationTTL
	}
	return s.invitations.Create(ctx, groupID, email, s.now(), ttl)
}

func (s *groupService) AcceptInvitation(ctx context.Context, token, userID string) (*domain.AcceptResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if err := s.users.EnsureExists(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensure user exists: %w", err)
	}
	return s.invitations.Accept(ctx, token, userID, s.now())
}

func (s *groupService) RevokeInvitation(ctx context.Context, groupID, actorUserID, invitationID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.users.EnsureExists(ctx, actorUserID); err != nil {
		return false, fmt.Errorf("ensure actor exists: %w", err)
	}
	memberships, err := s.membershipRepo.ListByGroupID(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("list memberships: %w", err)
	}
	if _, err := requireAdministrator(memberships, actorUserID); err != nil {
		return false, err
	}
	return s.invitations.Revoke(ctx, groupID, invitationID)
}

func (s *groupService) AddMember(ctx context.Context, groupID, actorUserID, targetUserID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if targetUserID == "" {
		return fmt.Errorf("%w: target user id is required", domain.ErrInvalidInput)
	}
	if err := s.users.EnsureExists(ctx, actorUserID); err != nil {
		return fmt.Errorf("ensure actor exists: %w", err)
	}
	memberships, err := s.membershipRepo.ListByGroupID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("list memberships: %w", err)
	}
	if _, err := requireAdministrator(memberships, actorUserID); err != nil {
		return err
	}
	if err := s.users.EnsureExists(ctx, targetUserID); err != nil {
		return fmt.Errorf("ensure target exists: %w", err)
	}
	membership := domain.NewMembership(groupID, targetUserID, domain.RoleMember, s.now())
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (s *groupService) RemoveMember(ctx context.Context, groupID, actorUserID, targetUserID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.users.EnsureExists(ctx, actorUserID); err != nil {
		return fmt.Errorf("ensure actor exists: %w", err)
	}
	// Load the group's memberships once; authorization, governance and the
	// mutation all work from this snapshot.
	memberships, err := s.membershipRepo.ListByGroupID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("list memberships: %w", err)
	}
	actor, err := requireMember(memberships, actorUserID)
	if err != nil {
		return err
	}
	target := findMembership(memberships, targetUserID)
	if target == nil {
		return domain.ErrNotFound
	}
	if err := checkRemoval(memberships, actor, target); err != nil {
		return err
	}
	if err := s.membershipRepo.Remove(ctx, groupID, targetUserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *groupService) ListMembers(ctx context.Context, groupID string) ([]*domain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	members, err := s.membershipRepo.ListByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if members == nil {
		members = []*domain.Membership{}
	}
	return members, nil
}

func (s *groupService) ResolveGroupForUser(ctx context.Context, userID string) (*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	memberships, err := s.membershipRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	switch len(memberships) {
	case 0:
		return nil, nil
	case 1:
		group, err := s.groupRepo.GetByID(ctx, memberships[0].GroupID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get group: %w", err)
		}
		return group, nil
	default:
		return nil, domain.ErrAmbiguousGroup
	}
}

func (s *groupService) CountExpiredInvitations(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.invitations.CountExpired(ctx, s.now())
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"householdhub/internal/domain"
)

// tokenGenerationAttempts bounds the collision retry loop when creating an
// invitation token.
const tokenGenerationAttempts = 5

type invitationService struct {
	invitationRepo domain.InvitationRepository
	membershipRepo domain.MembershipRepository
	tokens         domain.TokenGenerator
}

// NewInvitationService creates an InvitationService with the given
// repositories and token generator.
func NewInvitationService(
	invitationRepo domain.InvitationRepository,
	membershipRepo domain.MembershipRepository,
	tokens domain.TokenGenerator,
) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		membershipRepo: membershipRepo,
		tokens:         tokens,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *invitationService) Create(ctx context.Context, groupID, email string, now time.Time, ttl time.Duration) (*domain.Invitation, error) {
	if groupID == "" {
		return nil, fmt.Errorf("%w: group id is required", domain.ErrInvalidInput)
	}
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: invitee email is required", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: invitation ttl must be positive", domain.ErrInvalidInput)
	}

	existing, err := s.invitationRepo.FindActiveByGroupAndEmail(ctx, groupID, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find active invitation: %w", err)
	}
	if existing != nil && existing.IsAcceptable(now) {
		return nil, domain.ErrDuplicateInvitation
	}

	token, err := s.uniqueToken(ctx)
	if err != nil {
		return nil, err
	}

	inv := domain.NewInvitation(groupID, email, token, now.Add(ttl), now)
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return inv, nil
}

// uniqueToken asks the generator for candidates until one is unused.
// Collisions are expected to be rare; the bounded loop guards against a
// misbehaving generator.
func (s *invitationService) uniqueToken(ctx context.Context) (string, error) {
	for attempt := 0; attempt < tokenGenerationAttempts; attempt++ {
		token, err := s.tokens.Generate()
		if err != nil {
			return "", fmt.Errorf("generate invitation token: %w", err)
		}
		taken, err := s.invitationRepo.ExistsByToken(ctx, token)
		if err != nil {
			return "", fmt.Errorf("check invitation token: %w", err)
		}
		if !taken {
			return token, nil
		}
	}
	return "", domain.ErrTokenExhausted
}

func (s *invitationService) Accept(ctx context.Context, token, userID string, now time.Time) (*domain.AcceptResult, error) {
	inv, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("get invitation by token: %w", err)
	}

	// A repeat accept from an existing member succeeds without creating a
	// second membership; a still-active invitation is cleaned up on the way.
	existing, err := s.membershipRepo.GetByGroupAndUser(ctx, inv.GroupID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	if existing != nil {
		if inv.Status == domain.InvitationActive {
			if err := s.invitationRepo.UpdateStatus(ctx, inv.ID, domain.InvitationRevoked); err != nil {
				return nil, fmt.Errorf("revoke accepted invitation: %w", err)
			}
		}
		return &domain.AcceptResult{GroupID: inv.GroupID, UserID: userID, AlreadyMember: true}, nil
	}

	if !inv.IsAcceptable(now) {
		return nil, domain.ErrInvitationNotActive
	}

	if err := s.invitationRepo.UpdateStatus(ctx, inv.ID, domain.InvitationRevoked); err != nil {
		return nil, fmt.Errorf("revoke invitation: %w", err)
	}
	membership := domain.NewMembership(inv.GroupID, userID, domain.RoleMember, now)
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, fmt.Errorf("create membership: %w", err)
	}
	return &domain.AcceptResult{GroupID: inv.GroupID, UserID: userID}, nil
}

func (s *invitationService) Revoke(ctx context.Context, groupID, invitationID string) (bool, error) {
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get invitation: %w", err)
	}
	// Ids from another group never leak state across groups.
	if inv.GroupID != groupID {
		return false, nil
	}
	if inv.Status != domain.InvitationActive {
		return false, nil
	}
	if err := s.invitationRepo.UpdateStatus(ctx, inv.ID, domain.InvitationRevoked); err != nil {
		return false, fmt.Errorf("revoke invitation: %w", err)
	}
	return true, nil
}

func (s *invitationService) CountExpired(ctx context.Context, now time.Time) (int, error) {
	count, err := s.invitationRepo.CountActiveExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("count expired invitations: %w", err)
	}
	return count, nil
}

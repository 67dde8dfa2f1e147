package services

import (
	"context"
	"fmt"
	"time"

	"householdhub/internal/domain"
)

// fakeGroupRepo implements domain.GroupRepository for tests.
type fakeGroupRepo struct {
	byID      map[string]*domain.Group
	nextID    int
	createErr error
	deleted   []string
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{byID: make(map[string]*domain.Group)}
}

func (f *fakeGroupRepo) Create(ctx context.Context, g *domain.Group) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	g.ID = fmt.Sprintf("group-%d", f.nextID)
	f.byID[g.ID] = g
	return nil
}

func (f *fakeGroupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	if g, ok := f.byID[id]; ok {
		return g, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGroupRepo) Rename(ctx context.Context, id, name string, updatedAt time.Time) error {
	g, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	g.Name = name
	g.UpdatedAt = updatedAt
	return nil
}

func (f *fakeGroupRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeMembershipRepo implements domain.MembershipRepository for tests.
type fakeMembershipRepo struct {
	memberships []*domain.Membership
	createErr   error
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{}
}

func (f *fakeMembershipRepo) add(groupID, userID string, role domain.Role) {
	f.memberships = append(f.memberships, domain.NewMembership(groupID, userID, role, time.Now()))
}

func (f *fakeMembershipRepo) Create(ctx context.Context, m *domain.Membership) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.memberships {
		if existing.GroupID == m.GroupID && existing.UserID == m.UserID {
			return domain.ErrAlreadyMember
		}
	}
	f.memberships = append(f.memberships, m)
	return nil
}

func (f *fakeMembershipRepo) GetByGroupAndUser(ctx context.Context, groupID, userID string) (*domain.Membership, error) {
	for _, m := range f.memberships {
		if m.GroupID == groupID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMembershipRepo) ListByGroupID(ctx context.Context, groupID string) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for _, m := range f.memberships {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for _, m := range f.memberships {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) Remove(ctx context.Context, groupID, userID string) error {
	for i, m := range f.memberships {
		if m.GroupID == groupID && m.UserID == userID {
			f.memberships = append(f.memberships[:i], f.memberships[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeMembershipRepo) DeleteByUserID(ctx context.Context, userID string) ([]string, error) {
	var groupIDs []string
	var kept []*domain.Membership
	for _, m := range f.memberships {
		if m.UserID == userID {
			groupIDs = append(groupIDs, m.GroupID)
			continue
		}
		kept = append(kept, m)
	}
	f.memberships = kept
	return groupIDs, nil
}

func (f *fakeMembershipRepo) CountByGroupID(ctx context.Context, groupID string) (int, error) {
	count := 0
	for _, m := range f.memberships {
		if m.GroupID == groupID {
			count++
		}
	}
	return count, nil
}

// fakeInvitationRepo implements domain.InvitationRepository for tests.
type fakeInvitationRepo struct {
	byID      map[string]*domain.Invitation
	nextID    int
	createErr error
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{byID: make(map[string]*domain.Invitation)}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	inv.ID = fmt.Sprintf("inv-%d", f.nextID)
	f.byID[inv.ID] = inv
	return nil
}

func (f *fakeInvitationRepo) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	if inv, ok := f.byID[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	for _, inv := range f.byID {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) FindActiveByGroupAndEmail(ctx context.Context, groupID, email string) (*domain.Invitation, error) {
	for _, inv := range f.byID {
		if inv.GroupID == groupID && inv.Email == email && inv.Status == domain.InvitationActive {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) ExistsByToken(ctx context.Context, token string) (bool, error) {
	for _, inv := range f.byID {
		if inv.Token == token {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvitationRepo) UpdateStatus(ctx context.Context, id string, status domain.InvitationStatus) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	return nil
}

func (f *fakeInvitationRepo) CountActiveExpired(ctx context.Context, now time.Time) (int, error) {
	count := 0
	for _, inv := range f.byID {
		if inv.Status == domain.InvitationActive && !now.Before(inv.ExpiresAt) {
			count++
		}
	}
	return count, nil
}

// fakeUserProvisioning implements domain.UserProvisioning for tests.
type fakeUserProvisioning struct {
	ensured []string
	err     error
}

func (f *fakeUserProvisioning) EnsureExists(ctx context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.ensured = append(f.ensured, userID)
	return nil
}

// fakeTokenGenerator implements domain.TokenGenerator for tests. It returns
// queued tokens first, then falls back to a counter.
type fakeTokenGenerator struct {
	queue []string
	calls int
	err   error
}

func (f *fakeTokenGenerator) Generate() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls++
	if len(f.queue) > 0 {
		tok := f.queue[0]
		f.queue = f.queue[1:]
		return tok, nil
	}
	return fmt.Sprintf("tok-gen-%d", f.calls), nil
}

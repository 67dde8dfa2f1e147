package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"householdhub/internal/domain"
)

type membershipRepository struct {
	DB *sql.DB
}

func NewMembershipRepository(db *sql.DB) domain.MembershipRepository {
	return &membershipRepository{
		DB: db,
	}
}

func (r *membershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	query := `
		INSERT INTO group_memberships (group_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.DB.ExecContext(ctx, query, m.GroupID, m.UserID, string(m.Role), m.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *membershipRepository) GetByGroupAndUser(ctx context.Context, groupID, userID string) (*domain.Membership, error) {
	query := `
		SELECT group_id, user_id, role, created_at
		FROM group_memberships
		WHERE group_id = $1 AND user_id = $2
	`
	m := &domain.Membership{}
	var role string
	err := r.DB.QueryRowContext(ctx, query, groupID, userID).
		Scan(&m.GroupID, &m.UserID, &role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	m.Role = domain.Role(role)
	return m, nil
}

func (r *membershipRepository) ListByGroupID(ctx context.Context, groupID string) ([]*domain.Membership, error) {
	query := `
		SELECT group_id, user_id, role, created_at
		FROM group_memberships
		WHERE group_id = $1
		ORDER BY created_at, user_id
	`
	return r.list(ctx, query, groupID)
}

func (r *membershipRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Membership, error) {
	query := `
		SELECT group_id, user_id, role, created_at
		FROM group_memberships
		WHERE user_id = $1
		ORDER BY created_at, group_id
	`
	return r.list(ctx, query, userID)
}

func (r *membershipRepository) list(ctx context.Context, query string, arg any) ([]*domain.Membership, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	memberships := make([]*domain.Membership, 0)
	for rows.Next() {
		m := &domain.Membership{}
		var role string
		if err := rows.Scan(&m.GroupID, &m.UserID, &role, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = domain.Role(role)
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *membershipRepository) Remove(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM group_memberships WHERE group_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *membershipRepository) DeleteByUserID(ctx context.Context, userID string) ([]string, error) {
	query := `DELETE FROM group_memberships WHERE user_id = $1 RETURNING group_id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	groupIDs := make([]string, 0)
	for rows.Next() {
		var groupID string
		if err := rows.Scan(&groupID); err != nil {
			return nil, err
		}
		groupIDs = append(groupIDs, groupID)
	}
	return groupIDs, rows.Err()
}

func (r *membershipRepository) CountByGroupID(ctx context.Context, groupID string) (int, error) {
	query := `SELECT COUNT(*) FROM group_memberships WHERE group_id = $1`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, groupID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

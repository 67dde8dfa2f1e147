package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"householdhub/internal/domain"
)

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO group_invitations (group_id, email, token, expires_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		inv.GroupID, inv.Email, inv.Token, inv.ExpiresAt, string(inv.Status), inv.CreatedAt).
		Scan(&inv.ID)
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	query := `
		SELECT id, group_id, email, token, expires_at, status, created_at
		FROM group_invitations
		WHERE id = $1
	`
	return r.get(ctx, query, id)
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `
		SELECT id, group_id, email, token, expires_at, status, created_at
		FROM group_invitations
		WHERE token = $1
	`
	return r.get(ctx, query, token)
}

func (r *invitationRepository) FindActiveByGroupAndEmail(ctx context.Context, groupID, email string) (*domain.Invitation, error) {
	query := `
		SELECT id, group_id, email, token, expires_at, status, created_at
		FROM group_invitations
		WHERE group_id = $1 AND email = $2 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.DB.QueryRowContext(ctx, query, groupID, email)
	return scanInvitation(row)
}

func (r *invitationRepository) get(ctx context.Context, query string, arg any) (*domain.Invitation, error) {
	row := r.DB.QueryRowContext(ctx, query, arg)
	return scanInvitation(row)
}

func scanInvitation(row *sql.Row) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var status string
	err := row.Scan(&inv.ID, &inv.GroupID, &inv.Email, &inv.Token, &inv.ExpiresAt, &status, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	inv.Status = domain.InvitationStatus(status)
	return inv, nil
}

func (r *invitationRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM group_invitations WHERE token = $1)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, token).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, id string, status domain.InvitationStatus) error {
	query := `UPDATE group_invitations SET status = $1 WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *invitationRepository) CountActiveExpired(ctx context.Context, now time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM group_invitations WHERE status = 'active' AND expires_at <= $1`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, now).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

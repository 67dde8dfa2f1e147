package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"householdhub/internal/domain"
)

type groupRepository struct {
	DB *sql.DB
}

func NewGroupRepository(db *sql.DB) domain.GroupRepository {
	return &groupRepository{
		DB: db,
	}
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) error {
	query := `
		INSERT INTO groups (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, group.Name, group.CreatedAt, group.UpdatedAt).
		Scan(&group.ID)
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM groups
		WHERE id = $1
	`
	group := &domain.Group{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&group.ID, &group.Name, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return group, nil
}

func (r *groupRepository) Rename(ctx context.Context, id, name string, updatedAt time.Time) error {
	query := `UPDATE groups SET name = $1, updated_at = $2 WHERE id = $3`
	result, err := r.DB.ExecContext(ctx, query, name, updatedAt, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM groups WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"householdhub/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{
		DB: db,
	}
}

// NewUserProvisioning returns the provisioning collaborator backed by the
// users table. EnsureExists is an idempotent upsert.
func NewUserProvisioning(db *sql.DB) domain.UserProvisioning {
	return &userRepository{
		DB: db,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, created_at
		FROM users
		WHERE id = $1
	`
	user := &domain.User{}
	var email sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	user.Email = email.String
	return user, nil
}

func (r *userRepository) EnsureExists(ctx context.Context, userID string) error {
	query := `
		INSERT INTO users (id, created_at)
		VALUES ($1, NOW())
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, userID)
	return err
}

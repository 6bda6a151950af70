package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/TanasubRat/travel-match-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, display_name, group_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.DisplayName, user.GroupID, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, group_id, created_at
		FROM users
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, group_id, created_at
		FROM users
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.GroupID, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdateProfile updates the mutable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, displayName *string, groupID *string, clearGroup bool) error {
	query := `
		UPDATE users
		SET display_name = COALESCE($1, display_name),
		    group_id = CASE WHEN $2 THEN NULL WHEN $3::text IS NOT NULL THEN $3 ELSE group_id END
		WHERE id = $4
	`
	result, err := r.db.Exec(ctx, query, displayName, clearGroup, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user: %w", models.ErrNotFound)
	}
	return nil
}

// SetGroupID points a user at a group, or detaches them when groupID is nil
func (r *UserRepository) SetGroupID(ctx context.Context, userID string, groupID *string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET group_id = $1 WHERE id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to set user group: %w", err)
	}
	return nil
}

// ClearGroupID detaches every user still pointing at the group
func (r *UserRepository) ClearGroupID(ctx context.Context, groupID string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET group_id = NULL WHERE group_id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("failed to clear user group: %w", err)
	}
	return nil
}

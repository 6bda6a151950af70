package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/TanasubRat/travel-match-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GroupRepository handles database operations for groups
type GroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create creates a new group together with its initial member rows.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	filters, err := json.Marshal(group.Filters)
	if err != nil {
		return fmt.Errorf("failed to encode filters: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO groups (id, name, city, host_id, join_code, status, max_members, filters, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, query,
		group.ID, group.Name, group.City, group.HostID, group.JoinCode,
		group.Status, group.MaxMembers, filters, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	for _, m := range group.Members {
		_, err = tx.Exec(ctx,
			`INSERT INTO group_members (group_id, user_id, role, joined_at, is_active) VALUES ($1, $2, $3, $4, $5)`,
			group.ID, m.UserID, m.Role, m.JoinedAt, m.IsActive,
		)
		if err != nil {
			return fmt.Errorf("failed to add group member: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit group: %w", err)
	}
	return nil
}

const groupColumns = `id, name, city, host_id, join_code, status, max_members, filters,
		final_place_id, final_confirmed_by, final_confirmed_at,
		created_at, started_at, completed_at`

// GetByID retrieves a group with its member list
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByJoinCode retrieves a group by its join code
func (r *GroupRepository) GetByJoinCode(ctx context.Context, joinCode string) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE join_code = $1`
	return r.getOne(ctx, query, joinCode)
}

func (r *GroupRepository) getOne(ctx context.Context, query string, arg any) (*models.Group, error) {
	var g models.Group
	var filters []byte
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&g.ID, &g.Name, &g.City, &g.HostID, &g.JoinCode, &g.Status, &g.MaxMembers, &filters,
		&g.FinalPlaceID, &g.FinalConfirmedBy, &g.FinalConfirmedAt,
		&g.CreatedAt, &g.StartedAt, &g.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("group: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if len(filters) > 0 {
		if err := json.Unmarshal(filters, &g.Filters); err != nil {
			return nil, fmt.Errorf("failed to decode filters: %w", err)
		}
	}

	if err := r.loadMembers(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) loadMembers(ctx context.Context, g *models.Group) error {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, role, joined_at, is_active FROM group_members WHERE group_id = $1 ORDER BY joined_at`,
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.UserID, &m.Role, &m.JoinedAt, &m.IsActive); err != nil {
			return fmt.Errorf("failed to scan member: %w", err)
		}
		g.Members = append(g.Members, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating members: %w", err)
	}
	return nil
}

// JoinCodeExists checks if a join code is already taken
func (r *GroupRepository) JoinCodeExists(ctx context.Context, joinCode string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM groups WHERE join_code = $1)`, joinCode,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check join code: %w", err)
	}
	return exists, nil
}

// AddMember appends a member to the group
func (r *GroupRepository) AddMember(ctx context.Context, groupID string, m models.GroupMember) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO group_members (group_id, user_id, role, joined_at, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (group_id, user_id) DO NOTHING`,
		groupID, m.UserID, m.Role, m.JoinedAt, m.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember removes a member from the group
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// Start marks the group as in progress
func (r *GroupRepository) Start(ctx context.Context, groupID string, at time.Time) error {
	result, err := r.db.Exec(ctx,
		`UPDATE groups SET status = $1, started_at = $2 WHERE id = $3`,
		models.GroupStatusInProgress, at, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to start group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("group: %w", models.ErrNotFound)
	}
	return nil
}

// Confirm records the final place choice and completes the group
func (r *GroupRepository) Confirm(ctx context.Context, groupID, placeID, userID string, at time.Time) error {
	result, err := r.db.Exec(ctx,
		`UPDATE groups
		 SET final_place_id = $1, final_confirmed_by = $2, final_confirmed_at = $3,
		     status = $4, completed_at = $3
		 WHERE id = $5`,
		placeID, userID, at, models.GroupStatusCompleted, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to confirm group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("group: %w", models.ErrNotFound)
	}
	return nil
}

// Delete removes a group. Members and swipes go with it via ON DELETE CASCADE.
func (r *GroupRepository) Delete(ctx context.Context, groupID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("group: %w", models.ErrNotFound)
	}
	return nil
}

package services

import (
	"context"
	"time"

	"github.com/TanasubRat/travel-match-backend/internal/matching"
	"github.com/TanasubRat/travel-match-backend/internal/models"
)

// Store interfaces consumed by the services. The repository package provides
// the pgx-backed implementations; tests substitute hand-written doubles.

// UserStore is the persistence surface for users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, userID string, displayName *string, groupID *string, clearGroup bool) error
	SetGroupID(ctx context.Context, userID string, groupID *string) error
	ClearGroupID(ctx context.Context, groupID string) error
}

// GroupStore is the persistence surface for groups
type GroupStore interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id string) (*models.Group, error)
	GetByJoinCode(ctx context.Context, joinCode string) (*models.Group, error)
	JoinCodeExists(ctx context.Context, joinCode string) (bool, error)
	AddMember(ctx context.Context, groupID string, m models.GroupMember) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	Start(ctx context.Context, groupID string, at time.Time) error
	Confirm(ctx context.Context, groupID, placeID, userID string, at time.Time) error
	Delete(ctx context.Context, groupID string) error
}

// PlaceStore is the persistence surface for places
type PlaceStore interface {
	GetByID(ctx context.Context, id string) (*models.Place, error)
	ListActiveByCity(ctx context.Context, city string) ([]models.Place, error)
	ListActiveByCityExact(ctx context.Context, city string) ([]models.Place, error)
}

// SwipeStore is the persistence surface for swipes
type SwipeStore interface {
	Upsert(ctx context.Context, swipe *models.Swipe) error
	CountLikesByGroup(ctx context.Context, groupID string) ([]matching.LikeRow, error)
}

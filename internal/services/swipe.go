package services

import (
	"context"
	"fmt"
	"time"

	"github.com/TanasubRat/travel-match-backend/internal/models"

	"github.com/google/uuid"
)

// SwipeService records like/dislike judgments
type SwipeService struct {
	swipes SwipeStore
	groups GroupStore
	places PlaceStore
}

// NewSwipeService creates a new swipe service
func NewSwipeService(swipes SwipeStore, groups GroupStore, places PlaceStore) *SwipeService {
	return &SwipeService{
		swipes: swipes,
		groups: groups,
		places: places,
	}
}

// Record stores a swipe for the (group, user, place) triple. A member
// changing their mind overwrites the earlier judgment; there is no conflict
// to resolve and no history kept.
func (s *SwipeService) Record(ctx context.Context, userID, groupID, placeID string, liked bool) (*models.Swipe, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, fmt.Errorf("user not in this group: %w", models.ErrForbidden)
	}

	if _, err := s.places.GetByID(ctx, placeID); err != nil {
		return nil, err
	}

	swipe := &models.Swipe{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		UserID:    userID,
		PlaceID:   placeID,
		Liked:     liked,
		CreatedAt: time.Now(),
	}
	if err := s.swipes.Upsert(ctx, swipe); err != nil {
		return nil, err
	}
	return swipe, nil
}

package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/TanasubRat/travel-match-backend/internal/matching"
	"github.com/TanasubRat/travel-match-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	joinCodeLength = 6
	joinCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	defaultMaxSize = 10
)

// GroupService handles group lifecycle and consensus matching
type GroupService struct {
	groups GroupStore
	users  UserStore
	places PlaceStore
	swipes SwipeStore
}

// NewGroupService creates a new group service
func NewGroupService(groups GroupStore, users UserStore, places PlaceStore, swipes SwipeStore) *GroupService {
	return &GroupService{
		groups: groups,
		users:  users,
		places: places,
		swipes: swipes,
	}
}

// Create creates a group with the caller as host
func (s *GroupService) Create(ctx context.Context, hostID, name, city string, maxMembers int, filters models.GroupFilters) (*models.Group, error) {
	name = strings.TrimSpace(name)
	city = strings.TrimSpace(city)
	if name == "" || city == "" {
		return nil, fmt.Errorf("name and city are required: %w", models.ErrValidation)
	}

	if maxMembers <= 0 {
		maxMembers = defaultMaxSize
	}

	joinCode, err := s.generateUniqueJoinCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	group := &models.Group{
		ID:         uuid.New().String(),
		Name:       name,
		City:       city,
		HostID:     hostID,
		JoinCode:   joinCode,
		Status:     models.GroupStatusPending,
		MaxMembers: maxMembers,
		Filters:    filters,
		CreatedAt:  now,
		Members: []models.GroupMember{
			{UserID: hostID, Role: models.RoleHost, JoinedAt: now, IsActive: true},
		},
	}

	if err := s.groups.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	// Attaching the user to the group is best effort; the group exists
	// either way.
	if err := s.users.SetGroupID(ctx, hostID, &group.ID); err != nil {
		log.Warn().Err(err).Str("user_id", hostID).Msg("Failed to attach host to group")
	}

	return group, nil
}

// generateUniqueJoinCode generates a 6-character code not yet taken by any group
func (s *GroupService) generateUniqueJoinCode(ctx context.Context) (string, error) {
	maxAttempts := 10
	for i := 0; i < maxAttempts; i++ {
		code := generateJoinCode()
		exists, err := s.groups.JoinCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check join code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique join code after %d attempts", maxAttempts)
}

func generateJoinCode() string {
	code := make([]byte, joinCodeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(joinCodeChars))))
		code[i] = joinCodeChars[n.Int64()]
	}
	return string(code)
}

// GetByID returns a group with its member list
func (s *GroupService) GetByID(ctx context.Context, groupID string) (*models.Group, error) {
	return s.groups.GetByID(ctx, groupID)
}

// GetByJoinCode returns a group preview for a join code
func (s *GroupService) GetByJoinCode(ctx context.Context, joinCode string) (*models.Group, error) {
	return s.groups.GetByJoinCode(ctx, strings.ToUpper(strings.TrimSpace(joinCode)))
}

// Join adds the user to the group behind a join code. Joining a group you
// are already in is not an error.
func (s *GroupService) Join(ctx context.Context, userID, joinCode string) (*models.Group, error) {
	group, err := s.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, err
	}

	if group.HasMember(userID) {
		return group, nil
	}

	if len(group.Members) >= group.MaxMembers {
		return nil, fmt.Errorf("group is full: %w", models.ErrConflict)
	}

	member := models.GroupMember{
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
		IsActive: true,
	}
	if err := s.groups.AddMember(ctx, group.ID, member); err != nil {
		return nil, fmt.Errorf("failed to join group: %w", err)
	}
	group.Members = append(group.Members, member)

	if err := s.users.SetGroupID(ctx, userID, &group.ID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to attach user to group")
	}

	return group, nil
}

// Invite adds a registered user to the inviter's current group by email
func (s *GroupService) Invite(ctx context.Context, inviterID, email string) (*models.Group, error) {
	inviter, err := s.users.GetByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	if inviter.GroupID == nil {
		return nil, fmt.Errorf("you must create or join a group first: %w", models.ErrValidation)
	}

	group, err := s.groups.GetByID(ctx, *inviter.GroupID)
	if err != nil {
		return nil, err
	}

	target, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	if group.HasMember(target.ID) {
		return nil, fmt.Errorf("user is already in the group: %w", models.ErrConflict)
	}
	if len(group.Members) >= group.MaxMembers {
		return nil, fmt.Errorf("group is full: %w", models.ErrConflict)
	}

	member := models.GroupMember{
		UserID:   target.ID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
		IsActive: true,
	}
	if err := s.groups.AddMember(ctx, group.ID, member); err != nil {
		return nil, fmt.Errorf("failed to invite user: %w", err)
	}
	group.Members = append(group.Members, member)

	if err := s.users.SetGroupID(ctx, target.ID, &group.ID); err != nil {
		log.Warn().Err(err).Str("user_id", target.ID).Msg("Failed to attach invited user to group")
	}

	return group, nil
}

// Start moves the group to IN_PROGRESS. Host only.
func (s *GroupService) Start(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.HostID != userID {
		return nil, fmt.Errorf("only host can start session: %w", models.ErrForbidden)
	}

	now := time.Now()
	if err := s.groups.Start(ctx, groupID, now); err != nil {
		return nil, err
	}
	group.Status = models.GroupStatusInProgress
	group.StartedAt = &now
	return group, nil
}

// Confirm records the final place choice and completes the group.
// Any member may confirm.
func (s *GroupService) Confirm(ctx context.Context, groupID, userID, placeID string) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, fmt.Errorf("not a group member: %w", models.ErrForbidden)
	}

	if _, err := s.places.GetByID(ctx, placeID); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.groups.Confirm(ctx, groupID, placeID, userID, now); err != nil {
		return nil, err
	}
	group.FinalPlaceID = &placeID
	group.FinalConfirmedBy = &userID
	group.FinalConfirmedAt = &now
	group.Status = models.GroupStatusCompleted
	group.CompletedAt = &now
	return group, nil
}

// Leave removes the user from the group. A leaving host deletes the whole
// group and its swipes; deleted reports which happened.
func (s *GroupService) Leave(ctx context.Context, groupID, userID string) (deleted bool, err error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return false, err
	}

	if group.HostID == userID {
		if err := s.deleteGroup(ctx, group); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		return false, err
	}
	if err := s.users.SetGroupID(ctx, userID, nil); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to detach user from group")
	}
	return false, nil
}

// Delete removes the group entirely. Host only.
func (s *GroupService) Delete(ctx context.Context, groupID, userID string) error {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.HostID != userID {
		return fmt.Errorf("only host can delete group: %w", models.ErrForbidden)
	}
	return s.deleteGroup(ctx, group)
}

func (s *GroupService) deleteGroup(ctx context.Context, group *models.Group) error {
	if err := s.groups.Delete(ctx, group.ID); err != nil {
		return err
	}
	if err := s.users.ClearGroupID(ctx, group.ID); err != nil {
		log.Warn().Err(err).Str("group_id", group.ID).Msg("Failed to detach users from deleted group")
	}
	return nil
}

// Matches computes the consensus match list for a group: aggregate liked
// swipes per place, keep the places every active member liked, and order
// them with the deterministic consensus score. Zero swipes and zero
// unanimous places both come back as hasMatch=false with an empty list.
func (s *GroupService) Matches(ctx context.Context, groupID, userID string) (matching.MatchResult, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return matching.MatchResult{}, err
	}
	if !group.HasMember(userID) {
		return matching.MatchResult{}, fmt.Errorf("not a group member: %w", models.ErrForbidden)
	}

	totalMembers := group.ActiveMemberCount()

	rows, err := s.swipes.CountLikesByGroup(ctx, groupID)
	if err != nil {
		return matching.MatchResult{}, fmt.Errorf("failed to aggregate swipes: %w", err)
	}

	unanimous := matching.UnanimousMatches(rows, totalMembers)
	result := matching.RankMatches(unanimous, totalMembers)

	log.Debug().
		Str("group_id", groupID).
		Int("total_members", totalMembers).
		Int("liked_places", len(rows)).
		Int("matches", len(result.Matches)).
		Msg("Computed consensus matches")

	return result, nil
}

// IsMember reports membership for callers outside the service, e.g. the
// websocket lobby handshake.
func (s *GroupService) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return false, err
	}
	return group.HasMember(userID), nil
}

package services_test

import (
	"context"
	"time"

	"github.com/TanasubRat/travel-match-backend/internal/matching"
	"github.com/TanasubRat/travel-match-backend/internal/models"
	"github.com/TanasubRat/travel-match-backend/internal/services"
)

// Hand-written test doubles for the store interfaces. Each method delegates
// to a function field; unset fields mean the test does not expect the call.

type mockUserStore struct {
	create        func(ctx context.Context, user *models.User) error
	getByID       func(ctx context.Context, id string) (*models.User, error)
	getByEmail    func(ctx context.Context, email string) (*models.User, error)
	emailExists   func(ctx context.Context, email string) (bool, error)
	updateProfile func(ctx context.Context, userID string, displayName *string, groupID *string, clearGroup bool) error
	setGroupID    func(ctx context.Context, userID string, groupID *string) error
	clearGroupID  func(ctx context.Context, groupID string) error
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	return m.create(ctx, user)
}
func (m *mockUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return m.emailExists(ctx, email)
}
func (m *mockUserStore) UpdateProfile(ctx context.Context, userID string, displayName *string, groupID *string, clearGroup bool) error {
	return m.updateProfile(ctx, userID, displayName, groupID, clearGroup)
}
func (m *mockUserStore) SetGroupID(ctx context.Context, userID string, groupID *string) error {
	if m.setGroupID != nil {
		return m.setGroupID(ctx, userID, groupID)
	}
	return nil
}
func (m *mockUserStore) ClearGroupID(ctx context.Context, groupID string) error {
	if m.clearGroupID != nil {
		return m.clearGroupID(ctx, groupID)
	}
	return nil
}

var _ services.UserStore = (*mockUserStore)(nil)

type mockGroupStore struct {
	create         func(ctx context.Context, group *models.Group) error
	getByID        func(ctx context.Context, id string) (*models.Group, error)
	getByJoinCode  func(ctx context.Context, joinCode string) (*models.Group, error)
	joinCodeExists func(ctx context.Context, joinCode string) (bool, error)
	addMember      func(ctx context.Context, groupID string, m models.GroupMember) error
	removeMember   func(ctx context.Context, groupID, userID string) error
	start          func(ctx context.Context, groupID string, at time.Time) error
	confirm        func(ctx context.Context, groupID, placeID, userID string, at time.Time) error
	delete         func(ctx context.Context, groupID string) error
}

func (m *mockGroupStore) Create(ctx context.Context, group *models.Group) error {
	return m.create(ctx, group)
}
func (m *mockGroupStore) GetByID(ctx context.Context, id string) (*models.Group, error) {
	return m.getByID(ctx, id)
}
func (m *mockGroupStore) GetByJoinCode(ctx context.Context, joinCode string) (*models.Group, error) {
	return m.getByJoinCode(ctx, joinCode)
}
func (m *mockGroupStore) JoinCodeExists(ctx context.Context, joinCode string) (bool, error) {
	if m.joinCodeExists != nil {
		return m.joinCodeExists(ctx, joinCode)
	}
	return false, nil
}
func (m *mockGroupStore) AddMember(ctx context.Context, groupID string, member models.GroupMember) error {
	return m.addMember(ctx, groupID, member)
}
func (m *mockGroupStore) RemoveMember(ctx context.Context, groupID, userID string) error {
	return m.removeMember(ctx, groupID, userID)
}
func (m *mockGroupStore) Start(ctx context.Context, groupID string, at time.Time) error {
	return m.start(ctx, groupID, at)
}
func (m *mockGroupStore) Confirm(ctx context.Context, groupID, placeID, userID string, at time.Time) error {
	return m.confirm(ctx, groupID, placeID, userID, at)
}
func (m *mockGroupStore) Delete(ctx context.Context, groupID string) error {
	return m.delete(ctx, groupID)
}

var _ services.GroupStore = (*mockGroupStore)(nil)

type mockPlaceStore struct {
	getByID               func(ctx context.Context, id string) (*models.Place, error)
	listActiveByCity      func(ctx context.Context, city string) ([]models.Place, error)
	listActiveByCityExact func(ctx context.Context, city string) ([]models.Place, error)
}

func (m *mockPlaceStore) GetByID(ctx context.Context, id string) (*models.Place, error) {
	return m.getByID(ctx, id)
}
func (m *mockPlaceStore) ListActiveByCity(ctx context.Context, city string) ([]models.Place, error) {
	return m.listActiveByCity(ctx, city)
}
func (m *mockPlaceStore) ListActiveByCityExact(ctx context.Context, city string) ([]models.Place, error) {
	return m.listActiveByCityExact(ctx, city)
}

var _ services.PlaceStore = (*mockPlaceStore)(nil)

type mockSwipeStore struct {
	upsert            func(ctx context.Context, swipe *models.Swipe) error
	countLikesByGroup func(ctx context.Context, groupID string) ([]matching.LikeRow, error)
}

func (m *mockSwipeStore) Upsert(ctx context.Context, swipe *models.Swipe) error {
	return m.upsert(ctx, swipe)
}
func (m *mockSwipeStore) CountLikesByGroup(ctx context.Context, groupID string) ([]matching.LikeRow, error) {
	return m.countLikesByGroup(ctx, groupID)
}

var _ services.SwipeStore = (*mockSwipeStore)(nil)

// ---- shared fixtures -------------------------------------------------------

func testGroup(hostID string, memberIDs ...string) *models.Group {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	members := []models.GroupMember{
		{UserID: hostID, Role: models.RoleHost, JoinedAt: now, IsActive: true},
	}
	for _, id := range memberIDs {
		members = append(members, models.GroupMember{
			UserID: id, Role: models.RoleMember, JoinedAt: now, IsActive: true,
		})
	}
	return &models.Group{
		ID:         "group-1",
		Name:       "Friday dinner",
		City:       "Bangkok",
		HostID:     hostID,
		Members:    members,
		JoinCode:   "ABC123",
		Status:     models.GroupStatusPending,
		MaxMembers: 10,
		CreatedAt:  now,
	}
}

func groupStoreReturning(group *models.Group) *mockGroupStore {
	return &mockGroupStore{
		getByID: func(_ context.Context, _ string) (*models.Group, error) {
			return group, nil
		},
	}
}

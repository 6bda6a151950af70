package models

import "time"

// Group status lifecycle
const (
	GroupStatusPending    = "PENDING"
	GroupStatusReady      = "READY"
	GroupStatusInProgress = "IN_PROGRESS"
	GroupStatusCompleted  = "COMPLETED"
)

// Member roles
const (
	RoleHost   = "host"
	RoleMember = "member"
)

// User represents a registered user
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	GroupID      *string   `json:"group_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Place represents a candidate venue imported from an external source.
// Read-only to the matching core; only is_active is toggled administratively.
type Place struct {
	ID               string    `json:"id"`
	ExternalID       *string   `json:"external_id,omitempty"`
	Name             string    `json:"name"`
	City             string    `json:"city"`
	Address          *string   `json:"address,omitempty"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	PriceLevel       *int      `json:"price_level,omitempty"`
	Rating           *float64  `json:"rating,omitempty"`
	UserRatingsTotal int       `json:"user_ratings_total"`
	Categories       []string  `json:"categories"`
	IsOpenNow        bool      `json:"is_open_now"`
	Image            *string   `json:"image,omitempty"`
	MapsURL          *string   `json:"maps_url,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// GroupMember is one entry in a group's member list
type GroupMember struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
	IsActive bool      `json:"is_active"`
}

// GroupFilters is the raw filter configuration attached to a group.
// Fields may be absent; normalization happens in the matching package.
type GroupFilters struct {
	MinPriceLevel *int     `json:"min_price_level,omitempty"`
	MaxPriceLevel *int     `json:"max_price_level,omitempty"`
	MinRating     *float64 `json:"min_rating,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	CustomOptions []string `json:"custom_options,omitempty"`
	MaxDistanceKm *float64 `json:"max_distance_km,omitempty"`
	OpenNow       *bool    `json:"open_now,omitempty"`
}

// Group represents a decision-making session
type Group struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	City             string        `json:"city"`
	HostID           string        `json:"host_id"`
	Members          []GroupMember `json:"members"`
	JoinCode         string        `json:"join_code"`
	Status           string        `json:"status"`
	MaxMembers       int           `json:"max_members"`
	Filters          GroupFilters  `json:"filters"`
	FinalPlaceID     *string       `json:"final_place_id,omitempty"`
	FinalConfirmedBy *string       `json:"final_confirmed_by,omitempty"`
	FinalConfirmedAt *time.Time    `json:"final_confirmed_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	StartedAt        *time.Time    `json:"started_at,omitempty"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
}

// ActiveMemberCount returns the number of members whose active flag is set,
// never less than 1 so consensus math cannot divide by zero.
func (g *Group) ActiveMemberCount() int {
	n := 0
	for _, m := range g.Members {
		if m.IsActive {
			n++
		}
	}
	if n < 1 {
		return 1
	}
	return n
}

// HasMember reports whether the user belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Swipe records a single like/dislike judgment.
// At most one swipe exists per (group, user, place); re-swiping overwrites.
type Swipe struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	UserID    string    `json:"user_id"`
	PlaceID   string    `json:"place_id"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
}

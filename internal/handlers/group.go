package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/TanasubRat/travel-match-backend/internal/matching"
	"github.com/TanasubRat/travel-match-backend/internal/middleware"
	"github.com/TanasubRat/travel-match-backend/internal/models"
	"github.com/TanasubRat/travel-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// GroupHandler handles group-related HTTP requests
type GroupHandler struct {
	groupService *services.GroupService
	placeService *services.PlaceService
	wsHub        *services.WSHub
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groupService *services.GroupService, placeService *services.PlaceService, wsHub *services.WSHub) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		placeService: placeService,
		wsHub:        wsHub,
	}
}

// CreateGroupRequest is the request body for creating a group
type CreateGroupRequest struct {
	Name       string              `json:"name"`
	City       string              `json:"city"`
	MaxMembers int                 `json:"max_members"`
	Filters    models.GroupFilters `json:"filters"`
	Options    []string            `json:"options"`
}

// Create handles POST /api/v1/groups
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Clients send the explicit place allow-list as top-level "options".
	if len(req.Options) > 0 {
		req.Filters.CustomOptions = req.Options
	}

	group, err := h.groupService.Create(r.Context(), userID, req.Name, req.City, req.MaxMembers, req.Filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create group")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("group_id", group.ID).
		Str("join_code", group.JoinCode).
		Msg("Group created")

	respondJSON(w, http.StatusCreated, group)
}

// Get handles GET /api/v1/groups/{group_id}
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "group_id")

	group, err := h.groupService.GetByID(r.Context(), groupID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

// Preview handles GET /api/v1/groups/code/{join_code}
func (h *GroupHandler) Preview(w http.ResponseWriter, r *http.Request) {
	joinCode := chi.URLParam(r, "join_code")

	group, err := h.groupService.GetByJoinCode(r.Context(), joinCode)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

// JoinGroupRequest is the request body for joining by code
type JoinGroupRequest struct {
	JoinCode string `json:"join_code"`
}

// Join handles POST /api/v1/groups/join
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req JoinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.JoinCode == "" {
		respondError(w, "join_code is required", http.StatusBadRequest)
		return
	}

	group, err := h.groupService.Join(r.Context(), userID, req.JoinCode)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("join_code", req.JoinCode).Msg("Failed to join group")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("group_id", group.ID).Msg("User joined group")
	respondJSON(w, http.StatusOK, group)
}

// InviteRequest is the request body for inviting a friend by email
type InviteRequest struct {
	Email string `json:"email"`
}

// Invite handles POST /api/v1/groups/invite
func (h *GroupHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		respondError(w, "email is required", http.StatusBadRequest)
		return
	}

	group, err := h.groupService.Invite(r.Context(), userID, req.Email)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to invite user")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("group_id", group.ID).Msg("User invited to group")
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "group": group})
}

// Start handles POST /api/v1/groups/{group_id}/start
func (h *GroupHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID := chi.URLParam(r, "group_id")

	group, err := h.groupService.Start(r.Context(), groupID, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("group_id", groupID).Msg("Failed to start session")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("group_id", groupID).Msg("Session started")
	h.wsHub.NotifySessionStarted(groupID)

	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "group": group})
}

// Candidates handles GET /api/v1/groups/{group_id}/places
func (h *GroupHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID := chi.URLParam(r, "group_id")

	var loc *matching.LatLng
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr == nil && lngErr == nil {
			loc = &matching.LatLng{Lat: lat, Lng: lng}
		}
	}

	ranked, err := h.placeService.Candidates(r.Context(), groupID, userID, loc)
	if err != nil {
		log.Error().Err(err).Str("group_id", groupID).Msg("Failed to compute candidates")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("group_id", groupID).
		Int("results", len(ranked)).
		Bool("has_location", loc != nil).
		Msg("Candidate ranking computed")

	respondJSON(w, http.StatusOK, ranked)
}

// Match handles GET /api/v1/groups/{group_id}/match
func (h *GroupHandler) Match(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID := chi.URLParam(r, "group_id")

	result, err := h.groupService.Matches(r.Context(), groupID, userID)
	if err != nil {
		log.Error().Err(err).Str("group_id", groupID).Msg("Failed to compute matches")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ConfirmRequest is the request body for confirming the final place
type ConfirmRequest struct {
	PlaceID string `json:"place_id"`
}

// Confirm handles POST /api/v1/groups/{group_id}/confirm
func (h *GroupHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID := chi.URLParam(r, "group_id")

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PlaceID == "" {
		respondError(w, "place_id is required", http.StatusBadRequest)
		return
	}

	group, err := h.groupService.Confirm(r.Context(), groupID, userID, req.PlaceID)
	if err != nil {
		log.Error().Err(err).Str("group_id", groupID).Str("place_id", req.PlaceID).Msg("Failed to confirm place")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("group_id", groupID).Str("place_id", req.PlaceID).Msg("Final place confirmed")
	h.wsHub.NotifyGroupCompleted(groupID, req.PlaceID)

	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "group": group})
}

// Leave handles POST /api/v1/groups/{group_id}/leave
func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID := chi.URLParam(r, "group_id")

	deleted, err := h.groupService.Leave(r.Context(), groupID, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("group_id", groupID).Msg("Failed to leave group")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("group_id", groupID).Bool("deleted", deleted).Msg("User left group")
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "deleted": deleted})
}

// Delete handles DELETE /api/v1/groups/{group_id}
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID := chi.URLParam(r, "group_id")

	if err := h.groupService.Delete(r.Context(), groupID, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("group_id", groupID).Msg("Failed to delete group")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("group_id", groupID).Msg("Group deleted")
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/TanasubRat/travel-match-backend/internal/middleware"
	"github.com/TanasubRat/travel-match-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// SwipeHandler handles swipe submissions
type SwipeHandler struct {
	swipeService *services.SwipeService
}

// NewSwipeHandler creates a new swipe handler
func NewSwipeHandler(swipeService *services.SwipeService) *SwipeHandler {
	return &SwipeHandler{swipeService: swipeService}
}

// SwipeRequest is the request body for recording a swipe
type SwipeRequest struct {
	GroupID string `json:"group_id"`
	PlaceID string `json:"place_id"`
	Liked   *bool  `json:"liked"`
}

// Create handles POST /api/v1/swipes
func (h *SwipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.GroupID == "" || req.PlaceID == "" || req.Liked == nil {
		respondError(w, "group_id, place_id, liked required", http.StatusBadRequest)
		return
	}

	swipe, err := h.swipeService.Record(r.Context(), userID, req.GroupID, req.PlaceID, *req.Liked)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("group_id", req.GroupID).
			Str("place_id", req.PlaceID).
			Msg("Failed to record swipe")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, swipe)
}

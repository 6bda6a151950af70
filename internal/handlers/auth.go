package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/TanasubRat/travel-match-backend/internal/middleware"
	"github.com/TanasubRat/travel-match-backend/internal/models"
	"github.com/TanasubRat/travel-match-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login, and profile requests
type AuthHandler struct {
	userService *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterRequest is the request body for registration
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	BetaCode    string `json:"beta_code"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a token together with the user profile
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Register(r.Context(), req.Email, req.Password, req.DisplayName, req.BetaCode)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	respondJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User logged in")
	respondJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userService.Me(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// UpdateMeRequest is the request body for profile updates. A present-but-null
// group_id detaches the user from their group.
type UpdateMeRequest struct {
	DisplayName *string          `json:"display_name"`
	GroupID     *json.RawMessage `json:"group_id"`
}

// UpdateMe handles PATCH /api/v1/auth/me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var groupID *string
	clearGroup := false
	if req.GroupID != nil {
		if string(*req.GroupID) == "null" {
			clearGroup = true
		} else {
			var id string
			if err := json.Unmarshal(*req.GroupID, &id); err != nil {
				respondError(w, "group_id must be a string or null", http.StatusBadRequest)
				return
			}
			groupID = &id
		}
	}

	user, err := h.userService.UpdateMe(r.Context(), userID, req.DisplayName, groupID, clearGroup)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

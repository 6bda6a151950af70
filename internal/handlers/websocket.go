package handlers

import (
	"net/http"

	"github.com/TanasubRat/travel-match-backend/internal/middleware"
	"github.com/TanasubRat/travel-match-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // clients connect from app webviews with varying origins
	},
}

// WebSocketHandler upgrades group lobby connections
type WebSocketHandler struct {
	wsHub        *services.WSHub
	userService  *services.UserService
	groupService *services.GroupService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(wsHub *services.WSHub, userService *services.UserService, groupService *services.GroupService) *WebSocketHandler {
	return &WebSocketHandler{
		wsHub:        wsHub,
		userService:  userService,
		groupService: groupService,
	}
}

// HandleWebSocket handles GET /ws?token=JWT&group_id=ID
//
// The lobby stream carries group lifecycle events only (member joins and
// leaves, session start, completion). Swipe and match state is never pushed;
// clients poll the match endpoint for it.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	groupID := r.URL.Query().Get("group_id")

	userID, err := middleware.ValidateWebSocketToken(token, h.userService)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if groupID == "" {
		respondError(w, "group_id is required", http.StatusBadRequest)
		return
	}

	isMember, err := h.groupService.IsMember(r.Context(), groupID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !isMember {
		respondError(w, "Not a group member", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("WebSocket upgrade failed")
		return
	}

	h.wsHub.Register(groupID, userID, conn)
	defer h.wsHub.Unregister(groupID, userID)

	// Drain the connection; the lobby is server-to-client only. Exiting the
	// loop on any read error triggers the deferred unregister.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("user_id", userID).Msg("WebSocket closed unexpectedly")
			}
			return
		}
	}
}

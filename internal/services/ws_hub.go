package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Lobby event types. The hub only carries group lifecycle events; swipe and
// match state is never streamed — clients poll for it.
const (
	EventMemberJoined   = "member_joined"
	EventMemberLeft     = "member_left"
	EventSessionStarted = "session_started"
	EventGroupCompleted = "group_completed"
)

// LobbyMessage is a WebSocket message sent to group lobby connections
type LobbyMessage struct {
	Type      string      `json:"type"`
	GroupID   string      `json:"group_id,omitempty"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp int64       `json:"timestamp,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket lobby connections, keyed by group then user
type WSHub struct {
	mu     sync.RWMutex
	groups map[string]map[string]*websocket.Conn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		groups: make(map[string]map[string]*websocket.Conn),
	}
}

// Register adds a connection to a group lobby, replacing any connection the
// same user already holds, and announces the join to the rest of the lobby.
func (h *WSHub) Register(groupID, userID string, conn *websocket.Conn) {
	h.mu.Lock()
	lobby, ok := h.groups[groupID]
	if !ok {
		lobby = make(map[string]*websocket.Conn)
		h.groups[groupID] = lobby
	}
	if existing, ok := lobby[userID]; ok {
		existing.Close()
	}
	lobby[userID] = conn
	h.mu.Unlock()

	log.Info().Str("group_id", groupID).Str("user_id", userID).Msg("Lobby connection registered")

	h.Broadcast(groupID, userID, LobbyMessage{
		Type:      EventMemberJoined,
		GroupID:   groupID,
		UserID:    userID,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Unregister removes a connection and announces the departure. A user with
// no registered connection is a no-op, so the send-failure path inside
// Broadcast and a handler's deferred Unregister cannot announce the same
// departure twice.
func (h *WSHub) Unregister(groupID, userID string) {
	h.mu.Lock()
	removed := false
	if lobby, ok := h.groups[groupID]; ok {
		if conn, ok := lobby[userID]; ok {
			conn.Close()
			delete(lobby, userID)
			removed = true
			if len(lobby) == 0 {
				delete(h.groups, groupID)
			}
		}
	}
	h.mu.Unlock()

	if !removed {
		return
	}

	log.Info().Str("group_id", groupID).Str("user_id", userID).Msg("Lobby connection unregistered")

	h.Broadcast(groupID, userID, LobbyMessage{
		Type:      EventMemberLeft,
		GroupID:   groupID,
		UserID:    userID,
		Timestamp: time.Now().UnixMilli(),
	})
}

// IsOnline checks if a user holds a lobby connection for the group
func (h *WSHub) IsOnline(groupID, userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	lobby, ok := h.groups[groupID]
	if !ok {
		return false
	}
	_, ok = lobby[userID]
	return ok
}

// SendToUser sends a message to one lobby member
func (h *WSHub) SendToUser(groupID, userID string, message LobbyMessage) error {
	h.mu.RLock()
	var conn *websocket.Conn
	if lobby, ok := h.groups[groupID]; ok {
		conn = lobby[userID]
	}
	h.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("user %s is not connected to group %s", userID, groupID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(groupID, userID)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Broadcast sends a message to every lobby member except the originator.
// Pass an empty exceptUserID to reach everyone.
func (h *WSHub) Broadcast(groupID, exceptUserID string, message LobbyMessage) {
	h.mu.RLock()
	recipients := make([]string, 0, len(h.groups[groupID]))
	for userID := range h.groups[groupID] {
		if userID != exceptUserID {
			recipients = append(recipients, userID)
		}
	}
	h.mu.RUnlock()

	for _, userID := range recipients {
		if err := h.SendToUser(groupID, userID, message); err != nil {
			log.Error().Err(err).
				Str("group_id", groupID).
				Str("user_id", userID).
				Str("type", message.Type).
				Msg("Failed to deliver lobby message")
		}
	}
}

// NotifySessionStarted announces that the host started the swipe session
func (h *WSHub) NotifySessionStarted(groupID string) {
	h.Broadcast(groupID, "", LobbyMessage{
		Type:      EventSessionStarted,
		GroupID:   groupID,
		Timestamp: time.Now().UnixMilli(),
	})
}

// NotifyGroupCompleted announces that a member confirmed the final place
func (h *WSHub) NotifyGroupCompleted(groupID, placeID string) {
	h.Broadcast(groupID, "", LobbyMessage{
		Type:      EventGroupCompleted,
		GroupID:   groupID,
		Timestamp: time.Now().UnixMilli(),
		Data:      map[string]interface{}{"place_id": placeID},
	})
}

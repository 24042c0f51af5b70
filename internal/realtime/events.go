package realtime

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Inbound events.
const (
	EventJoinSession    = "join-session"
	EventLeaveSession   = "leave-session"
	EventCursorMove     = "cursor-move"
	EventWaypointUpdate = "waypoint-update"
	EventRouteUpdate    = "route-update"
)

// Outbound events.
const (
	EventUserJoined       = "user-joined"
	EventUserLeft         = "user-left"
	EventCursorUpdate     = "cursor-update"
	EventWaypointUpdated  = "waypoint-updated"
	EventRouteUpdated     = "route-updated"
	EventPresenceSnapshot = "presence-snapshot"
	EventError            = "error"
)

// Scoped error messages sent to a single connection.
const (
	MsgSessionNotFound = "Session not found"
	MsgSessionExpired  = "Session expired"
	MsgAccessDenied    = "Access denied"
	MsgInvalidPayload  = "Invalid payload"
	MsgJoinFailed      = "Unable to join session"
)

// Envelope frames every message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type UserJoinedPayload struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Avatar      *string `json:"avatar,omitempty"`
}

type UserLeftPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type CursorMovePayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type CursorUpdatePayload struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Avatar      *string `json:"avatar,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type PresenceSnapshotPayload struct {
	SessionID    string        `json:"sessionId"`
	Participants []Participant `json:"participants"`
}

var errEmptySessionID = errors.New("empty session id")

func encodeEvent(event string, data any) ([]byte, error) {
	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = raw
	}
	return json.Marshal(env)
}

// encodeRelay frames an opaque payload without re-encoding it.
func encodeRelay(event string, data json.RawMessage) ([]byte, error) {
	env := Envelope{Event: event}
	if len(bytes.TrimSpace(data)) > 0 {
		env.Data = data
	}
	return json.Marshal(env)
}

// decodeSessionID accepts a bare string or {"sessionId": "..."}.
func decodeSessionID(data json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		var obj struct {
			SessionID string `json:"sessionId"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", err
		}
		id = obj.SessionID
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errEmptySessionID
	}
	return id, nil
}

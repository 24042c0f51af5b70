package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"roadtrip/pkg/utils"
)

// Identity is the authenticated caller bound to a connection at handshake.
type Identity struct {
	UserID      uuid.UUID
	DisplayName string
	Avatar      *string
}

// Client is one live connection as seen by the Gateway.
type Client interface {
	ID() string
	Identity() Identity
	// Send queues msg without blocking; false means the connection is gone or too slow.
	Send(msg []byte) bool
	Close()
}

// SessionAccess decides whether a user may enter a session's room.
type SessionAccess interface {
	AuthorizeJoin(ctx context.Context, sessionID string, userID uuid.UUID) error
}

type Options struct {
	// ReplayPresence sends a presence-snapshot to a connection right after it joins.
	ReplayPresence bool
	// EvictEmptyRooms drops a room once its last connection leaves.
	EvictEmptyRooms bool
}

type room struct {
	id       string
	conns    map[string]Client
	presence *Presence
}

func (r *room) hasUser(userID uuid.UUID) bool {
	for _, c := range r.conns {
		if c.Identity().UserID == userID {
			return true
		}
	}
	return false
}

type connState struct {
	client Client
	// room is the session id of the joined room, empty when in none.
	room string
}

// Gateway owns every room of this process. Room and presence mutations and the
// fan-out they trigger run under mu, so broadcasts leave in processing order.
// Session lookups happen before mu is taken.
type Gateway struct {
	mu    sync.Mutex
	rooms map[string]*room
	conns map[string]*connState

	sessions SessionAccess
	opts     Options
	log      *zap.Logger
}

func NewGateway(sessions SessionAccess, opts Options, log *zap.Logger) *Gateway {
	return &Gateway{
		rooms:    make(map[string]*room),
		conns:    make(map[string]*connState),
		sessions: sessions,
		opts:     opts,
		log:      log.Named("realtime"),
	}
}

// Connect registers an authenticated connection that is in no room yet.
func (g *Gateway) Connect(c Client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.conns[c.ID()] = &connState{client: c}
}

// Disconnect leaves the current room, if any, and forgets the connection.
func (g *Gateway) Disconnect(c Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, ok := g.conns[c.ID()]
	if !ok {
		return
	}
	g.leaveLocked(st)
	delete(g.conns, c.ID())
}

// HandleMessage decodes one inbound envelope and dispatches it.
func (g *Gateway) HandleMessage(ctx context.Context, c Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.log.Debug("drop malformed message", zap.String("conn_id", c.ID()), zap.Error(err))
		return
	}

	switch env.Event {
	case EventJoinSession:
		sessionID, err := decodeSessionID(env.Data)
		if err != nil {
			g.sendError(c, MsgInvalidPayload)
			return
		}
		g.Join(ctx, c, sessionID)
	case EventLeaveSession:
		g.Leave(c)
	case EventCursorMove:
		var p CursorMovePayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.Latitude == nil || p.Longitude == nil {
			return
		}
		g.CursorMove(c, *p.Latitude, *p.Longitude)
	case EventWaypointUpdate:
		g.Relay(c, EventWaypointUpdated, env.Data)
	case EventRouteUpdate:
		g.Relay(c, EventRouteUpdated, env.Data)
	default:
		g.log.Debug("ignore unknown event", zap.String("conn_id", c.ID()), zap.String("event", env.Event))
	}
}

func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, utils.ErrSessionNotFound):
		return MsgSessionNotFound
	case errors.Is(err, utils.ErrSessionExpired):
		return MsgSessionExpired
	case errors.Is(err, utils.ErrAccessDenied):
		return MsgAccessDenied
	default:
		return MsgJoinFailed
	}
}

// Join admits c into the room of sessionID after checking the session and the caller's
// membership. On refusal only c hears about it and its current room is kept.
func (g *Gateway) Join(ctx context.Context, c Client, sessionID string) {
	id := c.Identity()

	if err := g.sessions.AuthorizeJoin(ctx, sessionID, id.UserID); err != nil {
		msg := joinErrorMessage(err)
		if msg == MsgJoinFailed {
			g.log.Error("authorize join", zap.String("session_id", sessionID), zap.Error(err))
		} else {
			g.log.Warn("join refused",
				zap.String("session_id", sessionID),
				zap.String("user_id", id.UserID.String()),
				zap.String("reason", msg))
		}
		g.sendError(c, msg)
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	st, ok := g.conns[c.ID()]
	if !ok {
		// disconnected while the session was being checked
		return
	}
	if st.room != "" && st.room != sessionID {
		g.leaveLocked(st)
	}

	r := g.rooms[sessionID]
	if r == nil {
		r = &room{id: sessionID, conns: make(map[string]Client), presence: NewPresence()}
		g.rooms[sessionID] = r
	}
	r.conns[c.ID()] = c
	st.room = sessionID

	userID := id.UserID.String()
	participants := r.presence.Join(userID, id.DisplayName, id.Avatar)

	g.log.Info("user joined session",
		zap.String("session_id", sessionID),
		zap.String("user_id", userID),
		zap.Int("participants", len(participants)))

	g.broadcastLocked(r, "", EventUserJoined, UserJoinedPayload{
		UserID:      userID,
		DisplayName: id.DisplayName,
		Avatar:      id.Avatar,
	})

	if g.opts.ReplayPresence {
		g.send(c, EventPresenceSnapshot, PresenceSnapshotPayload{
			SessionID:    sessionID,
			Participants: participants,
		})
	}
}

// Leave takes c out of its room without closing it.
func (g *Gateway) Leave(c Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if st, ok := g.conns[c.ID()]; ok {
		g.leaveLocked(st)
	}
}

func (g *Gateway) leaveLocked(st *connState) {
	if st.room == "" {
		return
	}
	r := g.rooms[st.room]
	st.room = ""
	if r == nil {
		return
	}

	id := st.client.Identity()
	userID := id.UserID.String()
	delete(r.conns, st.client.ID())

	// Another tab of the same user keeps the presence entry alive.
	if r.hasUser(id.UserID) {
		g.log.Debug("connection left session, user still present",
			zap.String("session_id", r.id),
			zap.String("user_id", userID),
			zap.Int("connections", len(r.conns)))
		return
	}
	r.presence.Leave(userID)

	g.log.Info("user left session",
		zap.String("session_id", r.id),
		zap.String("user_id", userID),
		zap.Int("connections", len(r.conns)))

	g.broadcastLocked(r, "", EventUserLeft, UserLeftPayload{
		UserID:      userID,
		DisplayName: id.DisplayName,
	})

	if len(r.conns) == 0 && g.opts.EvictEmptyRooms {
		delete(g.rooms, r.id)
	}
}

func validCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// CursorMove records the cursor and tells everyone else in the room. Ignored
// outside a room and for out-of-range coordinates.
func (g *Gateway) CursorMove(c Client, lat, lng float64) {
	if !validCoordinates(lat, lng) {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	r := g.roomOfLocked(c)
	if r == nil {
		return
	}
	p, ok := r.presence.UpdateCursor(c.Identity().UserID.String(), lat, lng)
	if !ok {
		return
	}

	g.log.Debug("cursor moved", zap.String("session_id", r.id), zap.String("user_id", p.UserID))
	g.broadcastLocked(r, c.ID(), EventCursorUpdate, CursorUpdatePayload{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Avatar:      p.Avatar,
		Latitude:    lat,
		Longitude:   lng,
	})
}

// Relay forwards an opaque payload to everyone else in the sender's room.
func (g *Gateway) Relay(c Client, event string, payload json.RawMessage) {
	msg, err := encodeRelay(event, payload)
	if err != nil {
		g.log.Debug("drop unencodable relay", zap.String("event", event), zap.Error(err))
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	r := g.roomOfLocked(c)
	if r == nil {
		return
	}
	for id, other := range r.conns {
		if id != c.ID() {
			other.Send(msg)
		}
	}
}

// Participants returns the presence snapshot of a session's room, empty if nobody is connected.
func (g *Gateway) Participants(sessionID string) []Participant {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r := g.rooms[sessionID]; r != nil {
		return r.presence.Snapshot()
	}
	return []Participant{}
}

// RoomOf returns the session id c is joined to, or "".
func (g *Gateway) RoomOf(c Client) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if st, ok := g.conns[c.ID()]; ok {
		return st.room
	}
	return ""
}

func (g *Gateway) RoomCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}

// Shutdown closes every connection. Their read loops then disconnect them.
func (g *Gateway) Shutdown() {
	g.mu.Lock()
	clients := make([]Client, 0, len(g.conns))
	for _, st := range g.conns {
		clients = append(clients, st.client)
	}
	g.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
}

func (g *Gateway) roomOfLocked(c Client) *room {
	st, ok := g.conns[c.ID()]
	if !ok || st.room == "" {
		return nil
	}
	return g.rooms[st.room]
}

// broadcastLocked sends to every connection in r except the one with id skip.
func (g *Gateway) broadcastLocked(r *room, skip string, event string, data any) {
	msg, err := encodeEvent(event, data)
	if err != nil {
		g.log.Error("encode event", zap.String("event", event), zap.Error(err))
		return
	}
	for id, c := range r.conns {
		if id != skip {
			c.Send(msg)
		}
	}
}

func (g *Gateway) send(c Client, event string, data any) {
	msg, err := encodeEvent(event, data)
	if err != nil {
		g.log.Error("encode event", zap.String("event", event), zap.Error(err))
		return
	}
	c.Send(msg)
}

func (g *Gateway) sendError(c Client, message string) {
	g.send(c, EventError, message)
}

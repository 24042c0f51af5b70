package realtime

// Cursor is a participant's last reported map position.
type Cursor struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Participant struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Avatar      *string `json:"avatar,omitempty"`
	Cursor      *Cursor `json:"cursor,omitempty"`
}

// Presence is the participant set of one room, keyed by user id and kept in join order.
// It is not safe for concurrent use; the Gateway serialises access.
type Presence struct {
	order   []string
	entries map[string]*Participant
}

func NewPresence() *Presence {
	return &Presence{entries: make(map[string]*Participant)}
}

// Join inserts or overwrites the entry for userID and returns the updated participant list.
// A rejoining user keeps their position and loses their cursor.
func (p *Presence) Join(userID, displayName string, avatar *string) []Participant {
	if _, ok := p.entries[userID]; !ok {
		p.order = append(p.order, userID)
	}
	p.entries[userID] = &Participant{
		UserID:      userID,
		DisplayName: displayName,
		Avatar:      avatar,
	}
	return p.Snapshot()
}

// Leave removes userID and reports whether the room is now empty.
func (p *Presence) Leave(userID string) bool {
	if _, ok := p.entries[userID]; ok {
		delete(p.entries, userID)
		for i, id := range p.order {
			if id == userID {
				p.order = append(p.order[:i], p.order[i+1:]...)
				break
			}
		}
	}
	return len(p.entries) == 0
}

// UpdateCursor records a cursor for a user who already joined. Unknown users are ignored.
func (p *Presence) UpdateCursor(userID string, lat, lng float64) (Participant, bool) {
	entry, ok := p.entries[userID]
	if !ok {
		return Participant{}, false
	}
	entry.Cursor = &Cursor{Latitude: lat, Longitude: lng}
	return copyParticipant(entry), true
}

func (p *Presence) Get(userID string) (Participant, bool) {
	entry, ok := p.entries[userID]
	if !ok {
		return Participant{}, false
	}
	return copyParticipant(entry), true
}

// Snapshot returns a copy of every participant in join order.
func (p *Presence) Snapshot() []Participant {
	out := make([]Participant, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, copyParticipant(p.entries[id]))
	}
	return out
}

func (p *Presence) Len() int {
	return len(p.entries)
}

func copyParticipant(e *Participant) Participant {
	c := *e
	if e.Cursor != nil {
		cur := *e.Cursor
		c.Cursor = &cur
	}
	return c
}

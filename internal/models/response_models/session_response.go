package response_models

import (
	"time"

	dbm "roadtrip/internal/models/db_models"
)

type SessionResponse struct {
	ID         string            `json:"id"`
	RoadTripID string            `json:"road_trip_id"`
	ExpiresAt  time.Time         `json:"expires_at"`
	Expired    bool              `json:"expired"`
	CreatedAt  int64             `json:"created_at"`
	RoadTrip   *RoadTripResponse `json:"road_trip,omitempty"`
}

type CleanupResponse struct {
	Deleted int64 `json:"deleted"`
}

func ToSessionResponse(s *dbm.LiveSession, now time.Time) SessionResponse {
	resp := SessionResponse{
		ID:         s.ID,
		RoadTripID: s.RoadTripID.String(),
		ExpiresAt:  s.ExpiresAt.UTC(),
		Expired:    s.IsExpired(now),
		CreatedAt:  s.CreatedAt,
	}
	if s.RoadTrip.ID == s.RoadTripID {
		trip := ToRoadTripResponse(&s.RoadTrip)
		resp.RoadTrip = &trip
	}
	return resp
}

func ToSessionResponses(sessions []dbm.LiveSession, now time.Time) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, ToSessionResponse(&sessions[i], now))
	}
	return out
}

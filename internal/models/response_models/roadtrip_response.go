package response_models

import dbm "roadtrip/internal/models/db_models"

type RoadTripResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	OwnerID   string             `json:"owner_id"`
	Owner     *AccountResponse   `json:"owner,omitempty"`
	Members   []AccountResponse  `json:"members"`
	Waypoints []WaypointResponse `json:"waypoints"`
	CreatedAt int64              `json:"created_at"`
	UpdatedAt int64              `json:"updated_at"`
}

// RoadTripSummary is the list view: no waypoints, member count only.
type RoadTripSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OwnerID     string `json:"owner_id"`
	MemberCount int    `json:"member_count"`
	UpdatedAt   int64  `json:"updated_at"`
}

func ToRoadTripResponse(t *dbm.RoadTrip) RoadTripResponse {
	resp := RoadTripResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		OwnerID:   t.OwnerID.String(),
		Members:   make([]AccountResponse, 0, len(t.Members)),
		Waypoints: ToWaypointResponses(t.Waypoints),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Owner.ID == t.OwnerID {
		owner := ToAccountResponse(&t.Owner)
		resp.Owner = &owner
	}
	for i := range t.Members {
		resp.Members = append(resp.Members, ToAccountResponse(&t.Members[i]))
	}
	return resp
}

func ToRoadTripSummaries(trips []dbm.RoadTrip) []RoadTripSummary {
	out := make([]RoadTripSummary, 0, len(trips))
	for _, t := range trips {
		out = append(out, RoadTripSummary{
			ID:          t.ID.String(),
			Name:        t.Name,
			OwnerID:     t.OwnerID.String(),
			MemberCount: len(t.Members),
			UpdatedAt:   t.UpdatedAt,
		})
	}
	return out
}

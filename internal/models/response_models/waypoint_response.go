package response_models

import dbm "roadtrip/internal/models/db_models"

type WaypointResponse struct {
	ID         string  `json:"id"`
	RoadTripID string  `json:"road_trip_id"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Order      int     `json:"order"`
}

func ToWaypointResponse(w *dbm.Waypoint) WaypointResponse {
	return WaypointResponse{
		ID:         w.ID.String(),
		RoadTripID: w.RoadTripID.String(),
		Name:       w.Name,
		Latitude:   w.Latitude,
		Longitude:  w.Longitude,
		Order:      w.Order,
	}
}

func ToWaypointResponses(wps []dbm.Waypoint) []WaypointResponse {
	out := make([]WaypointResponse, 0, len(wps))
	for i := range wps {
		out = append(out, ToWaypointResponse(&wps[i]))
	}
	return out
}

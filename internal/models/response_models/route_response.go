package response_models

import "encoding/json"

type RouteLegResponse struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// RouteResponse is always returned with 200; Available is false when the
// routing provider could not be reached and the client should omit legs.
type RouteResponse struct {
	Available       bool               `json:"available"`
	Legs            []RouteLegResponse `json:"legs"`
	DistanceMeters  float64            `json:"distance_meters"`
	DurationSeconds float64            `json:"duration_seconds"`
	Geometry        json.RawMessage    `json:"geometry,omitempty"`
}

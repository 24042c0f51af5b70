package request_models

// Coordinates are pointers so that 0 passes the required check.
type CreateWaypointRequest struct {
	Name      string   `json:"name" binding:"required,max=255"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// UpdateWaypointRequest is a partial update; a present order moves the waypoint.
type UpdateWaypointRequest struct {
	Name      *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Order     *int     `json:"order"`
}

type ReorderWaypointRequest struct {
	Order *int `json:"order" binding:"required"`
}

package db_models

import "github.com/google/uuid"

type Waypoint struct {
	BaseModel
	RoadTripID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"not null"`
	Latitude   float64   `gorm:"not null"`
	Longitude  float64   `gorm:"not null"`
	// Order is the zero-based position within the trip; gapless per trip.
	Order int `gorm:"column:sort_order;not null"`
}

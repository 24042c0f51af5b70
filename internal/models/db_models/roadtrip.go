package db_models

import "github.com/google/uuid"

type RoadTrip struct {
	BaseModel
	Name    string    `gorm:"not null"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Owner   Account   `gorm:"foreignKey:OwnerID"`

	// Members always contains the owner.
	Members   []Account  `gorm:"many2many:roadtrip_members;constraint:OnDelete:CASCADE"`
	Waypoints []Waypoint `gorm:"foreignKey:RoadTripID;constraint:OnDelete:CASCADE"`
}

// HasParticipant reports whether userID owns the trip or is one of its members.
func (r *RoadTrip) HasParticipant(userID uuid.UUID) bool {
	if r.OwnerID == userID {
		return true
	}
	for _, m := range r.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

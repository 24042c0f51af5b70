package db_models

import (
	"time"

	"github.com/google/uuid"
)

// LiveSession is a shareable, time-boxed collaboration token for one road trip.
// Its ID is a ULID rather than a uuid so it reads well in join links.
type LiveSession struct {
	ID         string    `gorm:"primaryKey"`
	CreatedAt  int64     `gorm:"autoCreateTime"`
	UpdatedAt  int64     `gorm:"autoUpdateTime"`
	RoadTripID uuid.UUID `gorm:"type:uuid;not null;index"`
	RoadTrip   RoadTrip  `gorm:"foreignKey:RoadTripID;constraint:OnDelete:CASCADE"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

func (s *LiveSession) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

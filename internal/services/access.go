package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	dbm "roadtrip/internal/models/db_models"
	"roadtrip/internal/repositories"
	"roadtrip/pkg/utils"
)

func dbError(err error) error {
	return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
}

// loadParticipantTrip loads a trip and checks the caller owns it or is a member.
func loadParticipantTrip(ctx context.Context, repo repositories.RoadTripRepository, tripID, userID uuid.UUID) (*dbm.RoadTrip, error) {
	trip, err := repo.FindById(ctx, tripID)
	if err != nil {
		return nil, dbError(err)
	}
	if trip == nil {
		return nil, utils.ErrRoadTripNotFound
	}
	if !trip.HasParticipant(userID) {
		return nil, utils.ErrAccessDenied
	}
	return trip, nil
}

// loadOwnedTrip is loadParticipantTrip restricted to the owner.
func loadOwnedTrip(ctx context.Context, repo repositories.RoadTripRepository, tripID, userID uuid.UUID) (*dbm.RoadTrip, error) {
	trip, err := loadParticipantTrip(ctx, repo, tripID, userID)
	if err != nil {
		return nil, err
	}
	if trip.OwnerID != userID {
		return nil, utils.ErrAccessDenied
	}
	return trip, nil
}

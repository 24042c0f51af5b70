package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	dbm "roadtrip/internal/models/db_models"
	"roadtrip/internal/models/request_models"
	"roadtrip/internal/models/response_models"
	"roadtrip/internal/repositories"
	"roadtrip/pkg/utils"
)

type WaypointServiceInterface interface {
	ListWaypoints(ctx context.Context, userID, tripID uuid.UUID) ([]response_models.WaypointResponse, error)
	AddWaypoint(ctx context.Context, userID, tripID uuid.UUID, req request_models.CreateWaypointRequest) (*response_models.WaypointResponse, error)
	UpdateWaypoint(ctx context.Context, userID, tripID, waypointID uuid.UUID, req request_models.UpdateWaypointRequest) (*response_models.WaypointResponse, error)
	ReorderWaypoint(ctx context.Context, userID, tripID, waypointID uuid.UUID, target int) ([]response_models.WaypointResponse, error)
	RemoveWaypoint(ctx context.Context, userID, tripID, waypointID uuid.UUID) error
	NormalizeWaypoints(ctx context.Context, userID, tripID uuid.UUID) ([]response_models.WaypointResponse, error)
}

type WaypointService struct {
	tripRepo     repositories.RoadTripRepository
	waypointRepo repositories.WaypointRepository
	log          *zap.Logger
}

func NewWaypointService(tripRepo repositories.RoadTripRepository, waypointRepo repositories.WaypointRepository, log *zap.Logger) WaypointServiceInterface {
	return &WaypointService{
		tripRepo:     tripRepo,
		waypointRepo: waypointRepo,
		log:          log.Named("waypoints"),
	}
}

func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return utils.ErrInvalidCoordinates
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return utils.ErrInvalidCoordinates
	}
	return nil
}

func waypointError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrWaypointNotFound
	}
	return dbError(err)
}

func (s *WaypointService) ListWaypoints(ctx context.Context, userID, tripID uuid.UUID) ([]response_models.WaypointResponse, error) {
	if _, err := loadParticipantTrip(ctx, s.tripRepo, tripID, userID); err != nil {
		return nil, err
	}
	wps, err := s.waypointRepo.ListByRoadTrip(ctx, tripID)
	if err != nil {
		return nil, dbError(err)
	}
	return response_models.ToWaypointResponses(wps), nil
}

func (s *WaypointService) AddWaypoint(ctx context.Context, userID, tripID uuid.UUID, req request_models.CreateWaypointRequest) (*response_models.WaypointResponse, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, utils.ErrInvalidCoordinates
	}
	if err := ValidateCoordinates(*req.Latitude, *req.Longitude); err != nil {
		return nil, err
	}
	if _, err := loadParticipantTrip(ctx, s.tripRepo, tripID, userID); err != nil {
		return nil, err
	}

	wp := &dbm.Waypoint{
		RoadTripID: tripID,
		Name:       strings.TrimSpace(req.Name),
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
	}
	if err := s.waypointRepo.Append(ctx, wp); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrRoadTripNotFound
		}
		return nil, dbError(err)
	}

	s.log.Debug("waypoint appended",
		zap.String("road_trip_id", tripID.String()),
		zap.String("waypoint_id", wp.ID.String()),
		zap.Int("order", wp.Order))
	resp := response_models.ToWaypointResponse(wp)
	return &resp, nil
}

// UpdateWaypoint patches name and coordinates; a present order reorders the trip
// in the same transaction. Out-of-range orders are clamped.
func (s *WaypointService) UpdateWaypoint(ctx context.Context, userID, tripID, waypointID uuid.UUID, req request_models.UpdateWaypointRequest) (*response_models.WaypointResponse, error) {
	if _, err := loadParticipantTrip(ctx, s.tripRepo, tripID, userID); err != nil {
		return nil, err
	}

	current, err := s.waypointRepo.FindById(ctx, waypointID)
	if err != nil {
		return nil, dbError(err)
	}
	if current == nil || current.RoadTripID != tripID {
		return nil, utils.ErrWaypointNotFound
	}

	lat, lng := current.Latitude, current.Longitude
	if req.Latitude != nil {
		lat = *req.Latitude
	}
	if req.Longitude != nil {
		lng = *req.Longitude
	}
	if err := ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	patch := repositories.WaypointPatch{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Order:     req.Order,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, utils.ErrInvalidInput
		}
		patch.Name = &name
	}

	wp, err := s.waypointRepo.Update(ctx, tripID, waypointID, patch)
	if err != nil {
		return nil, waypointError(err)
	}
	resp := response_models.ToWaypointResponse(wp)
	return &resp, nil
}

// ReorderWaypoint moves one waypoint to target (clamped) and returns the whole renumbered list.
func (s *WaypointService) ReorderWaypoint(ctx context.Context, userID, tripID, waypointID uuid.UUID, target int) ([]response_models.WaypointResponse, error) {
	if _, err := loadParticipantTrip(ctx, s.tripRepo, tripID, userID); err != nil {
		return nil, err
	}
	wps, err := s.waypointRepo.Reorder(ctx, tripID, waypointID, target)
	if err != nil {
		return nil, waypointError(err)
	}
	return response_models.ToWaypointResponses(wps), nil
}

func (s *WaypointService) RemoveWaypoint(ctx context.Context, userID, tripID, waypointID uuid.UUID) error {
	if _, err := loadParticipantTrip(ctx, s.tripRepo, tripID, userID); err != nil {
		return err
	}
	if err := s.waypointRepo.Remove(ctx, tripID, waypointID); err != nil {
		return waypointError(err)
	}
	return nil
}

func (s *WaypointService) NormalizeWaypoints(ctx context.Context, userID, tripID uuid.UUID) ([]response_models.WaypointResponse, error) {
	if _, err := loadParticipantTrip(ctx, s.tripRepo, tripID, userID); err != nil {
		return nil, err
	}
	wps, err := s.waypointRepo.Normalize(ctx, tripID)
	if err != nil {
		return nil, dbError(err)
	}
	return response_models.ToWaypointResponses(wps), nil
}

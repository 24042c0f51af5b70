package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	dbm "roadtrip/internal/models/db_models"
	"roadtrip/internal/models/request_models"
	"roadtrip/internal/models/response_models"
	"roadtrip/internal/repositories"
	"roadtrip/pkg/utils"
)

type RoadTripServiceInterface interface {
	CreateRoadTrip(ctx context.Context, ownerID uuid.UUID, req request_models.CreateRoadTripRequest) (*response_models.RoadTripResponse, error)
	ListRoadTrips(ctx context.Context, userID uuid.UUID) ([]response_models.RoadTripSummary, error)
	GetRoadTrip(ctx context.Context, userID, tripID uuid.UUID) (*response_models.RoadTripResponse, error)
	UpdateRoadTrip(ctx context.Context, userID, tripID uuid.UUID, req request_models.UpdateRoadTripRequest) (*response_models.RoadTripResponse, error)
	DeleteRoadTrip(ctx context.Context, userID, tripID uuid.UUID) error
	AddMember(ctx context.Context, userID, tripID uuid.UUID, req request_models.AddMemberRequest) (*response_models.RoadTripResponse, error)
	RemoveMember(ctx context.Context, userID, tripID, memberID uuid.UUID) (*response_models.RoadTripResponse, error)
}

type RoadTripService struct {
	tripRepo    repositories.RoadTripRepository
	accountRepo repositories.AccountRepository
	mail        IMailService
	log         *zap.Logger
}

func NewRoadTripService(
	tripRepo repositories.RoadTripRepository,
	accountRepo repositories.AccountRepository,
	mail IMailService,
	log *zap.Logger,
) RoadTripServiceInterface {
	return &RoadTripService{
		tripRepo:    tripRepo,
		accountRepo: accountRepo,
		mail:        mail,
		log:         log.Named("roadtrips"),
	}
}

func (s *RoadTripService) reload(ctx context.Context, tripID uuid.UUID) (*response_models.RoadTripResponse, error) {
	trip, err := s.tripRepo.FindById(ctx, tripID)
	if err != nil {
		return nil, dbError(err)
	}
	if trip == nil {
		return nil, utils.ErrRoadTripNotFound
	}
	resp := response_models.ToRoadTripResponse(trip)
	return &resp, nil
}

func (s *RoadTripService) CreateRoadTrip(ctx context.Context, ownerID uuid.UUID, req request_models.CreateRoadTripRequest) (*response_models.RoadTripResponse, error) {
	owner, err := s.accountRepo.FindById(ctx, ownerID)
	if err != nil {
		return nil, dbError(err)
	}
	if owner == nil {
		return nil, utils.ErrUserNotFound
	}

	trip := &dbm.RoadTrip{
		Name:    req.Name,
		OwnerID: owner.ID,
		Members: []dbm.Account{*owner},
	}
	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, dbError(err)
	}

	s.log.Info("road trip created",
		zap.String("road_trip_id", trip.ID.String()),
		zap.String("owner_id", ownerID.String()))
	return s.reload(ctx, trip.ID)
}

func (s *RoadTripService) ListRoadTrips(ctx context.Context, userID uuid.UUID) ([]response_models.RoadTripSummary, error) {
	trips, err := s.tripRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	return response_models.ToRoadTripSummaries(trips), nil
}

func (s *RoadTripService) GetRoadTrip(ctx context.Context, userID, tripID uuid.UUID) (*response_models.RoadTripResponse, error) {
	trip, err := loadParticipantTrip(ctx, s.tripRepo, tripID, userID)
	if err != nil {
		return nil, err
	}
	resp := response_models.ToRoadTripResponse(trip)
	return &resp, nil
}

func (s *RoadTripService) UpdateRoadTrip(ctx context.Context, userID, tripID uuid.UUID, req request_models.UpdateRoadTripRequest) (*response_models.RoadTripResponse, error) {
	if _, err := loadOwnedTrip(ctx, s.tripRepo, tripID, userID); err != nil {
		return nil, err
	}
	if err := s.tripRepo.UpdateName(ctx, tripID, req.Name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrRoadTripNotFound
		}
		return nil, dbError(err)
	}
	return s.reload(ctx, tripID)
}

func (s *RoadTripService) DeleteRoadTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	if _, err := loadOwnedTrip(ctx, s.tripRepo, tripID, userID); err != nil {
		return err
	}
	if err := s.tripRepo.Delete(ctx, tripID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrRoadTripNotFound
		}
		return dbError(err)
	}
	s.log.Info("road trip deleted", zap.String("road_trip_id", tripID.String()))
	return nil
}

// AddMember invites an existing account by email. Adding a current member is a no-op.
// The invitation mail is best effort.
func (s *RoadTripService) AddMember(ctx context.Context, userID, tripID uuid.UUID, req request_models.AddMemberRequest) (*response_models.RoadTripResponse, error) {
	trip, err := loadOwnedTrip(ctx, s.tripRepo, tripID, userID)
	if err != nil {
		return nil, err
	}

	member, err := s.accountRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, dbError(err)
	}
	if member == nil {
		return nil, utils.ErrUserNotFound
	}
	if trip.HasParticipant(member.ID) {
		resp := response_models.ToRoadTripResponse(trip)
		return &resp, nil
	}

	if err := s.tripRepo.AddMember(ctx, tripID, member); err != nil {
		return nil, dbError(err)
	}

	if err := s.mail.SendTripInvitation(member.Email, trip.Owner.Name, trip.Name, trip.ID.String()); err != nil {
		s.log.Warn("send trip invitation", zap.String("road_trip_id", tripID.String()), zap.Error(err))
	}

	return s.reload(ctx, tripID)
}

// RemoveMember drops a member. The owner cannot be removed.
func (s *RoadTripService) RemoveMember(ctx context.Context, userID, tripID, memberID uuid.UUID) (*response_models.RoadTripResponse, error) {
	trip, err := loadOwnedTrip(ctx, s.tripRepo, tripID, userID)
	if err != nil {
		return nil, err
	}
	if memberID == trip.OwnerID {
		return nil, utils.ErrInvalidInput
	}
	if !trip.HasParticipant(memberID) {
		return nil, utils.ErrUserNotFound
	}

	if err := s.tripRepo.RemoveMember(ctx, tripID, memberID); err != nil {
		return nil, dbError(err)
	}
	return s.reload(ctx, tripID)
}

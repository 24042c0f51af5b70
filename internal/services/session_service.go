package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"roadtrip/internal/config"
	dbm "roadtrip/internal/models/db_models"
	"roadtrip/internal/models/response_models"
	"roadtrip/internal/repositories"
	"roadtrip/pkg/utils"
)

const DefaultExtendHours = 24

type SessionServiceInterface interface {
	CreateSession(ctx context.Context, userID, tripID uuid.UUID) (*response_models.SessionResponse, error)
	GetActiveSession(ctx context.Context, userID, tripID uuid.UUID) (*response_models.SessionResponse, error)
	GetSession(ctx context.Context, userID uuid.UUID, sessionID string) (*response_models.SessionResponse, error)
	ExtendSession(ctx context.Context, userID uuid.UUID, sessionID string, hours *int) (*response_models.SessionResponse, error)
	EndSession(ctx context.Context, userID uuid.UUID, sessionID string) error
	GetUserActiveSessions(ctx context.Context, userID uuid.UUID) ([]response_models.SessionResponse, error)
	CleanupExpiredSessions(ctx context.Context) (int64, error)

	// AuthorizeJoin decides whether userID may enter the realtime room of sessionID.
	AuthorizeJoin(ctx context.Context, sessionID string, userID uuid.UUID) error
}

type SessionService struct {
	sessionRepo repositories.SessionRepository
	tripRepo    repositories.RoadTripRepository
	ttl         time.Duration
	now         func() time.Time
	log         *zap.Logger
}

func NewSessionService(
	sessionRepo repositories.SessionRepository,
	tripRepo repositories.RoadTripRepository,
	cfg *config.Config,
	log *zap.Logger,
) SessionServiceInterface {
	return newSessionService(sessionRepo, tripRepo, cfg.SessionTTL, time.Now, log)
}

func newSessionService(
	sessionRepo repositories.SessionRepository,
	tripRepo repositories.RoadTripRepository,
	ttl time.Duration,
	now func() time.Time,
	log *zap.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		tripRepo:    tripRepo,
		ttl:         ttl,
		now:         func() time.Time { return now().UTC() },
		log:         log.Named("sessions"),
	}
}

func (s *SessionService) respond(session *dbm.LiveSession) *response_models.SessionResponse {
	resp := response_models.ToSessionResponse(session, s.now())
	return &resp
}

// findSession returns the session if it exists and the caller takes part in its trip.
func (s *SessionService) findSession(ctx context.Context, userID uuid.UUID, sessionID string) (*dbm.LiveSession, error) {
	session, err := s.sessionRepo.FindById(ctx, sessionID)
	if err != nil {
		return nil, dbError(err)
	}
	if session == nil {
		return nil, utils.ErrSessionNotFound
	}
	if !session.RoadTrip.HasParticipant(userID) {
		return nil, utils.ErrAccessDenied
	}
	return session, nil
}

// CreateSession replaces any live session of the trip with a new one.
func (s *SessionService) CreateSession(ctx context.Context, userID, tripID uuid.UUID) (*response_models.SessionResponse, error) {
	if _, err := loadParticipantTrip(ctx, s.tripRepo, tripID, userID); err != nil {
		return nil, err
	}

	now := s.now()
	session, err := s.sessionRepo.Create(ctx, tripID, now, now.Add(s.ttl))
	if err != nil {
		return nil, dbError(err)
	}

	s.log.Info("live session started",
		zap.String("session_id", session.ID),
		zap.String("road_trip_id", tripID.String()),
		zap.Time("expires_at", session.ExpiresAt))
	return s.respond(session), nil
}

func (s *SessionService) GetActiveSession(ctx context.Context, userID, tripID uuid.UUID) (*response_models.SessionResponse, error) {
	if _, err := loadParticipantTrip(ctx, s.tripRepo, tripID, userID); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindActiveByRoadTrip(ctx, tripID, s.now())
	if err != nil {
		return nil, dbError(err)
	}
	if session == nil {
		return nil, utils.ErrSessionNotFound
	}
	return s.respond(session), nil
}

// GetSession returns the session whatever its expiry; the response says whether it expired.
func (s *SessionService) GetSession(ctx context.Context, userID uuid.UUID, sessionID string) (*response_models.SessionResponse, error) {
	session, err := s.findSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(session), nil
}

// ExtendSession pushes expiry to now+hours, reviving an expired session. Any other
// live session of the trip is ended so only one stays active.
func (s *SessionService) ExtendSession(ctx context.Context, userID uuid.UUID, sessionID string, hours *int) (*response_models.SessionResponse, error) {
	h := DefaultExtendHours
	if hours != nil {
		h = *hours
	}
	if h <= 0 {
		return nil, utils.ErrInvalidInput
	}

	session, err := s.findSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(h) * time.Hour)
	ok, err := s.sessionRepo.Extend(ctx, session.RoadTripID, sessionID, now, expiresAt)
	if err != nil {
		return nil, dbError(err)
	}
	if !ok {
		return nil, utils.ErrSessionNotFound
	}

	session.ExpiresAt = expiresAt
	return s.respond(session), nil
}

// EndSession is idempotent: a session that is already gone is not an error.
func (s *SessionService) EndSession(ctx context.Context, userID uuid.UUID, sessionID string) error {
	_, err := s.findSession(ctx, userID, sessionID)
	if errors.Is(err, utils.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return dbError(err)
	}
	s.log.Info("live session ended", zap.String("session_id", sessionID))
	return nil
}

func (s *SessionService) GetUserActiveSessions(ctx context.Context, userID uuid.UUID) ([]response_models.SessionResponse, error) {
	now := s.now()
	sessions, err := s.sessionRepo.ListActiveByParticipant(ctx, userID, now)
	if err != nil {
		return nil, dbError(err)
	}
	return response_models.ToSessionResponses(sessions, now), nil
}

func (s *SessionService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessionRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, dbError(err)
	}
	if n > 0 {
		s.log.Info("expired sessions swept", zap.Int64("deleted", n))
	}
	return n, nil
}

func (s *SessionService) AuthorizeJoin(ctx context.Context, sessionID string, userID uuid.UUID) error {
	session, err := s.findSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if session.IsExpired(s.now()) {
		return utils.ErrSessionExpired
	}
	return nil
}

package repositories

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
	dbm "roadtrip/internal/models/db_models"
)

type SessionRepository interface {
	// Create replaces any unexpired session of the trip with a fresh one, atomically.
	Create(ctx context.Context, roadTripID uuid.UUID, now time.Time, expiresAt time.Time) (*dbm.LiveSession, error)
	FindById(ctx context.Context, id string) (*dbm.LiveSession, error)
	FindActiveByRoadTrip(ctx context.Context, roadTripID uuid.UUID, now time.Time) (*dbm.LiveSession, error)
	ListActiveByParticipant(ctx context.Context, userID uuid.UUID, now time.Time) ([]dbm.LiveSession, error)
	Extend(ctx context.Context, roadTripID uuid.UUID, id string, now time.Time, expiresAt time.Time) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func withSessionTrip(db *gorm.DB) *gorm.DB {
	return db.
		Preload("RoadTrip").
		Preload("RoadTrip.Owner").
		Preload("RoadTrip.Members").
		Preload("RoadTrip.Waypoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		})
}

func newSessionID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
}

func (r *sessionRepository) Create(ctx context.Context, roadTripID uuid.UUID, now time.Time, expiresAt time.Time) (*dbm.LiveSession, error) {
	session := dbm.LiveSession{
		ID:         newSessionID(now),
		RoadTripID: roadTripID,
		ExpiresAt:  expiresAt.UTC(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoadTrip(tx, roadTripID); err != nil {
			return err
		}
		err := tx.Where("road_trip_id = ? AND expires_at > ?", roadTripID, now.UTC()).
			Delete(&dbm.LiveSession{}).Error
		if err != nil {
			return err
		}
		return tx.Omit("RoadTrip").Create(&session).Error
	})
	if err != nil {
		return nil, err
	}

	return r.FindById(ctx, session.ID)
}

func (r *sessionRepository) FindById(ctx context.Context, id string) (*dbm.LiveSession, error) {
	var session dbm.LiveSession
	err := withSessionTrip(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindActiveByRoadTrip(ctx context.Context, roadTripID uuid.UUID, now time.Time) (*dbm.LiveSession, error) {
	var session dbm.LiveSession
	err := withSessionTrip(r.db.WithContext(ctx)).
		Where("road_trip_id = ? AND expires_at > ?", roadTripID, now.UTC()).
		Order("expires_at desc").
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) ListActiveByParticipant(ctx context.Context, userID uuid.UUID, now time.Time) ([]dbm.LiveSession, error) {
	memberOf := r.db.Table("roadtrip_members").
		Select("road_trip_id").
		Where("account_id = ?", userID)
	owned := r.db.Model(&dbm.RoadTrip{}).
		Select("id").
		Where("owner_id = ?", userID)

	var sessions []dbm.LiveSession
	err := withSessionTrip(r.db.WithContext(ctx)).
		Where("expires_at > ?", now.UTC()).
		Where("road_trip_id IN (?) OR road_trip_id IN (?)", owned, memberOf).
		Order("expires_at asc").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// Extend moves the expiry of session id and ends any other live session of the
// same trip, so a revived session is again the only active one.
func (r *sessionRepository) Extend(ctx context.Context, roadTripID uuid.UUID, id string, now time.Time, expiresAt time.Time) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoadTrip(tx, roadTripID); err != nil {
			return err
		}

		res := tx.Model(&dbm.LiveSession{}).
			Where("id = ? AND road_trip_id = ?", id, roadTripID).
			Update("expires_at", expiresAt.UTC())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("road_trip_id = ? AND id <> ? AND expires_at > ?", roadTripID, id, now.UTC()).
			Delete(&dbm.LiveSession{}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&dbm.LiveSession{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now.UTC()).Delete(&dbm.LiveSession{})
	return res.RowsAffected, res.Error
}

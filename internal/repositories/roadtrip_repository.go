package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	dbm "roadtrip/internal/models/db_models"
)

type RoadTripRepository interface {
	Create(ctx context.Context, trip *dbm.RoadTrip) error
	FindById(ctx context.Context, id uuid.UUID) (*dbm.RoadTrip, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]dbm.RoadTrip, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, id uuid.UUID, member *dbm.Account) error
	RemoveMember(ctx context.Context, id uuid.UUID, memberID uuid.UUID) error
}

type roadTripRepository struct {
	db *gorm.DB
}

func NewRoadTripRepository(db *gorm.DB) RoadTripRepository {
	return &roadTripRepository{db: db}
}

// withTripDetails preloads owner, members and waypoints in their stored order.
func withTripDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").
		Preload("Members").
		Preload("Waypoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		})
}

func (r *roadTripRepository) Create(ctx context.Context, trip *dbm.RoadTrip) error {
	return r.db.WithContext(ctx).
		Omit("Owner", "Members.*", "Waypoints").
		Create(trip).Error
}

func (r *roadTripRepository) FindById(ctx context.Context, id uuid.UUID) (*dbm.RoadTrip, error) {
	var trip dbm.RoadTrip
	err := withTripDetails(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&trip).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *roadTripRepository) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]dbm.RoadTrip, error) {
	var trips []dbm.RoadTrip
	memberOf := r.db.Table("roadtrip_members").
		Select("road_trip_id").
		Where("account_id = ?", userID)

	err := withTripDetails(r.db.WithContext(ctx)).
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Order("created_at desc").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *roadTripRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	res := r.db.WithContext(ctx).
		Model(&dbm.RoadTrip{}).
		Where("id = ?", id).
		Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the trip together with its sessions, waypoints and memberships.
func (r *roadTripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoadTrip(tx, id); err != nil {
			return err
		}
		if err := tx.Where("road_trip_id = ?", id).Delete(&dbm.LiveSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("road_trip_id = ?", id).Delete(&dbm.Waypoint{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&dbm.RoadTrip{BaseModel: dbm.BaseModel{ID: id}}).Association("Members").Clear(); err != nil {
			return err
		}
		return tx.Delete(&dbm.RoadTrip{}, "id = ?", id).Error
	})
}

func (r *roadTripRepository) AddMember(ctx context.Context, id uuid.UUID, member *dbm.Account) error {
	trip := dbm.RoadTrip{BaseModel: dbm.BaseModel{ID: id}}
	return r.db.WithContext(ctx).
		Model(&trip).
		Association("Members").
		Append(member)
}

func (r *roadTripRepository) RemoveMember(ctx context.Context, id uuid.UUID, memberID uuid.UUID) error {
	trip := dbm.RoadTrip{BaseModel: dbm.BaseModel{ID: id}}
	member := dbm.Account{BaseModel: dbm.BaseModel{ID: memberID}}
	return r.db.WithContext(ctx).
		Model(&trip).
		Association("Members").
		Delete(&member)
}

// lockRoadTrip takes the per-trip write lock used to serialise waypoint and session
// mutations. SQLite has no row locks and serialises writers on its own.
func lockRoadTrip(tx *gorm.DB, roadTripID uuid.UUID) error {
	q := tx.Model(&dbm.RoadTrip{}).Select("id")
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var trip dbm.RoadTrip
	return q.Where("id = ?", roadTripID).Take(&trip).Error
}

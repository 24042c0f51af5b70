package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	dbm "roadtrip/internal/models/db_models"
)

// WaypointPatch carries the optional fields of a waypoint update. A non-nil Order
// moves the waypoint to that position.
type WaypointPatch struct {
	Name      *string
	Latitude  *float64
	Longitude *float64
	Order     *int
}

// WaypointRepository keeps each trip's waypoints numbered 0..n-1. Every structural
// change runs in one transaction holding the trip row lock.
type WaypointRepository interface {
	ListByRoadTrip(ctx context.Context, roadTripID uuid.UUID) ([]dbm.Waypoint, error)
	FindById(ctx context.Context, id uuid.UUID) (*dbm.Waypoint, error)
	Append(ctx context.Context, wp *dbm.Waypoint) error
	Reorder(ctx context.Context, roadTripID, waypointID uuid.UUID, target int) ([]dbm.Waypoint, error)
	Update(ctx context.Context, roadTripID, waypointID uuid.UUID, patch WaypointPatch) (*dbm.Waypoint, error)
	Remove(ctx context.Context, roadTripID, waypointID uuid.UUID) error
	Normalize(ctx context.Context, roadTripID uuid.UUID) ([]dbm.Waypoint, error)
}

type waypointRepository struct {
	db *gorm.DB
}

func NewWaypointRepository(db *gorm.DB) WaypointRepository {
	return &waypointRepository{db: db}
}

func (r *waypointRepository) ListByRoadTrip(ctx context.Context, roadTripID uuid.UUID) ([]dbm.Waypoint, error) {
	return listOrderedWaypoints(r.db.WithContext(ctx), roadTripID)
}

func (r *waypointRepository) FindById(ctx context.Context, id uuid.UUID) (*dbm.Waypoint, error) {
	var wp dbm.Waypoint
	err := r.db.WithContext(ctx).First(&wp, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wp, nil
}

func (r *waypointRepository) Append(ctx context.Context, wp *dbm.Waypoint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoadTrip(tx, wp.RoadTripID); err != nil {
			return err
		}

		var maxOrder sql.NullInt64
		err := tx.Model(&dbm.Waypoint{}).
			Select("MAX(sort_order)").
			Where("road_trip_id = ?", wp.RoadTripID).
			Row().
			Scan(&maxOrder)
		if err != nil {
			return err
		}

		wp.Order = 0
		if maxOrder.Valid {
			wp.Order = int(maxOrder.Int64) + 1
		}
		return tx.Create(wp).Error
	})
}

func (r *waypointRepository) Reorder(ctx context.Context, roadTripID, waypointID uuid.UUID, target int) ([]dbm.Waypoint, error) {
	var out []dbm.Waypoint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoadTrip(tx, roadTripID); err != nil {
			return err
		}
		moved, err := reorderInTx(tx, roadTripID, waypointID, target)
		if err != nil {
			return err
		}
		out = moved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *waypointRepository) Update(ctx context.Context, roadTripID, waypointID uuid.UUID, patch WaypointPatch) (*dbm.Waypoint, error) {
	var updated dbm.Waypoint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoadTrip(tx, roadTripID); err != nil {
			return err
		}

		var wp dbm.Waypoint
		if err := tx.Where("id = ? AND road_trip_id = ?", waypointID, roadTripID).Take(&wp).Error; err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if patch.Name != nil {
			fields["name"] = *patch.Name
		}
		if patch.Latitude != nil {
			fields["latitude"] = *patch.Latitude
		}
		if patch.Longitude != nil {
			fields["longitude"] = *patch.Longitude
		}
		if len(fields) > 0 {
			if err := tx.Model(&wp).Updates(fields).Error; err != nil {
				return err
			}
		}

		if patch.Order != nil {
			if _, err := reorderInTx(tx, roadTripID, waypointID, *patch.Order); err != nil {
				return err
			}
		}

		return tx.Take(&updated, "id = ?", waypointID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *waypointRepository) Remove(ctx context.Context, roadTripID, waypointID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoadTrip(tx, roadTripID); err != nil {
			return err
		}

		res := tx.Where("id = ? AND road_trip_id = ?", waypointID, roadTripID).Delete(&dbm.Waypoint{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		_, err := normalizeInTx(tx, roadTripID)
		return err
	})
}

func (r *waypointRepository) Normalize(ctx context.Context, roadTripID uuid.UUID) ([]dbm.Waypoint, error) {
	var out []dbm.Waypoint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoadTrip(tx, roadTripID); err != nil {
			return err
		}
		wps, err := normalizeInTx(tx, roadTripID)
		if err != nil {
			return err
		}
		out = wps
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func listOrderedWaypoints(db *gorm.DB, roadTripID uuid.UUID) ([]dbm.Waypoint, error) {
	var wps []dbm.Waypoint
	err := db.Where("road_trip_id = ?", roadTripID).
		Order("sort_order asc").
		Find(&wps).Error
	if err != nil {
		return nil, err
	}
	sortByOrder(wps)
	return wps, nil
}

func reorderInTx(tx *gorm.DB, roadTripID, waypointID uuid.UUID, target int) ([]dbm.Waypoint, error) {
	wps, err := listOrderedWaypoints(tx, roadTripID)
	if err != nil {
		return nil, err
	}

	moved, ok := moveWaypoint(wps, waypointID, target)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if err := writeOrders(tx, moved, renumber(moved)); err != nil {
		return nil, err
	}
	return moved, nil
}

func normalizeInTx(tx *gorm.DB, roadTripID uuid.UUID) ([]dbm.Waypoint, error) {
	wps, err := listOrderedWaypoints(tx, roadTripID)
	if err != nil {
		return nil, err
	}
	if err := writeOrders(tx, wps, renumber(wps)); err != nil {
		return nil, err
	}
	return wps, nil
}

func writeOrders(tx *gorm.DB, wps []dbm.Waypoint, changed []int) error {
	for _, i := range changed {
		err := tx.Model(&dbm.Waypoint{}).
			Where("id = ?", wps[i].ID).
			Update("sort_order", wps[i].Order).Error
		if err != nil {
			return err
		}
	}
	return nil
}

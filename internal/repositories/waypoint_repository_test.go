package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"roadtrip/internal/infra/testdb"
	dbm "roadtrip/internal/models/db_models"
)

func seedTripWithWaypoints(t *testing.T, db *gorm.DB, repo WaypointRepository, names ...string) (*dbm.RoadTrip, []dbm.Waypoint) {
	t.Helper()

	owner := testdb.SeedAccount(t, db, "Owner")
	trip := testdb.SeedRoadTrip(t, db, "Coast", owner)

	return seedWaypointsFor(t, repo, trip.ID, names...)
}

func seedWaypointsFor(t *testing.T, repo WaypointRepository, roadTripID uuid.UUID, names ...string) (*dbm.RoadTrip, []dbm.Waypoint) {
	t.Helper()

	out := make([]dbm.Waypoint, 0, len(names))
	for i, name := range names {
		wp := &dbm.Waypoint{RoadTripID: roadTripID, Name: name, Latitude: float64(i), Longitude: float64(i)}
		if err := repo.Append(context.Background(), wp); err != nil {
			t.Fatalf("append %s: %v", name, err)
		}
		out = append(out, *wp)
	}
	return &dbm.RoadTrip{BaseModel: dbm.BaseModel{ID: roadTripID}}, out
}

func assertGapless(t *testing.T, wps []dbm.Waypoint) {
	t.Helper()

	seen := make(map[int]bool, len(wps))
	for _, wp := range wps {
		assert.Equal(t, false, seen[wp.Order])
		seen[wp.Order] = true
	}
	for i := 0; i < len(wps); i++ {
		assert.Equal(t, true, seen[i])
	}
}

func orderOf(wps []dbm.Waypoint) map[string]int {
	out := make(map[string]int, len(wps))
	for _, wp := range wps {
		out[wp.Name] = wp.Order
	}
	return out
}

func TestWaypointAppendAssignsNextOrder(t *testing.T) {
	db := testdb.Open(t)
	repo := NewWaypointRepository(db)

	_, wps := seedTripWithWaypoints(t, db, repo, "A", "B", "C")

	assert.Equal(t, 0, wps[0].Order)
	assert.Equal(t, 1, wps[1].Order)
	assert.Equal(t, 2, wps[2].Order)
}

func TestWaypointAppendUnknownTrip(t *testing.T) {
	db := testdb.Open(t)
	repo := NewWaypointRepository(db)

	err := repo.Append(context.Background(), &dbm.Waypoint{RoadTripID: uuid.New(), Name: "X"})
	assert.Equal(t, true, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestWaypointReorderMovesToFront(t *testing.T) {
	db := testdb.Open(t)
	repo := NewWaypointRepository(db)
	ctx := context.Background()

	trip, wps := seedTripWithWaypoints(t, db, repo, "A", "B", "C")

	_, err := repo.Reorder(ctx, trip.ID, wps[2].ID, 0)
	assert.Equal(t, nil, err)

	stored, err := repo.ListByRoadTrip(ctx, trip.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, map[string]int{"C": 0, "A": 1, "B": 2}, orderOf(stored))
}

func TestWaypointReorderClampsTarget(t *testing.T) {
	db := testdb.Open(t)
	repo := NewWaypointRepository(db)
	ctx := context.Background()

	trip, wps := seedTripWithWaypoints(t, db, repo, "A", "B", "C")

	_, err := repo.Reorder(ctx, trip.ID, wps[0].ID, 42)
	assert.Equal(t, nil, err)
	stored, _ := repo.ListByRoadTrip(ctx, trip.ID)
	assert.Equal(t, map[string]int{"B": 0, "C": 1, "A": 2}, orderOf(stored))

	_, err = repo.Reorder(ctx, trip.ID, wps[0].ID, -1)
	assert.Equal(t, nil, err)
	stored, _ = repo.ListByRoadTrip(ctx, trip.ID)
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 2}, orderOf(stored))
}

func TestWaypointReorderForeignWaypoint(t *testing.T) {
	db := testdb.Open(t)
	repo := NewWaypointRepository(db)
	ctx := context.Background()

	trip, _ := seedTripWithWaypoints(t, db, repo, "A", "B")

	_, err := repo.Reorder(ctx, trip.ID, uuid.New(), 0)
	assert.Equal(t, true, errors.Is(err, gorm.ErrRecordNotFound))

	stored, _ := repo.ListByRoadTrip(ctx, trip.ID)
	assert.Equal(t, map[string]int{"A": 0, "B": 1}, orderOf(stored))
}

func TestWaypointRemoveRenumbers(t *testing.T) {
	db := testdb.Open(t)
	repo := NewWaypointRepository(db)
	ctx := context.Background()

	trip, wps := seedTripWithWaypoints(t, db, repo, "A", "B")

	assert.Equal(t, nil, repo.Remove(ctx, trip.ID, wps[0].ID))

	stored, err := repo.ListByRoadTrip(ctx, trip.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(stored))
	assert.Equal(t, "B", stored[0].Name)
	assert.Equal(t, 0, stored[0].Order)
}

func TestWaypointRemoveMissing(t *testing.T) {
	db := testdb.Open(t)
	repo := NewWaypointRepository(db)

	trip, _ := seedTripWithWaypoints(t, db, repo, "A")

	err := repo.Remove(context.Background(), trip.ID, uuid.New())
	assert.Equal(t, true, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestWaypointUpdatePatchesAndReorders(t *testing.T) {
	db := testdb.Open(t)
	repo := NewWaypointRepository(db)
	ctx := context.Background()

	trip, wps := seedTripWithWaypoints(t, db, repo, "A", "B", "C")

	name := "Bridge"
	lat := 37.8
	order := 0
	updated, err := repo.Update(ctx, trip.ID, wps[1].ID, WaypointPatch{Name: &name, Latitude: &lat, Order: &order})
	assert.Equal(t, nil, err)
	assert.Equal(t, "Bridge", updated.Name)
	assert.Equal(t, 37.8, updated.Latitude)
	assert.Equal(t, 1.0, updated.Longitude)
	assert.Equal(t, 0, updated.Order)

	stored, _ := repo.ListByRoadTrip(ctx, trip.ID)
	assert.Equal(t, map[string]int{"Bridge": 0, "A": 1, "C": 2}, orderOf(stored))
}

func TestWaypointUpdateWithoutOrderKeepsPositions(t *testing.T) {
	db := testdb.Open(t)
	repo := NewWaypointRepository(db)
	ctx := context.Background()

	trip, wps := seedTripWithWaypoints(t, db, repo, "A", "B", "C")

	name := "Canyon"
	updated, err := repo.Update(ctx, trip.ID, wps[2].ID, WaypointPatch{Name: &name})
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, updated.Order)

	stored, _ := repo.ListByRoadTrip(ctx, trip.ID)
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "Canyon": 2}, orderOf(stored))
}

func TestWaypointNormalizeRepairsGaps(t *testing.T) {
	db := testdb.Open(t)
	repo := NewWaypointRepository(db)
	ctx := context.Background()

	trip, wps := seedTripWithWaypoints(t, db, repo, "A", "B", "C")
	db.Model(&dbm.Waypoint{}).Where("id = ?", wps[1].ID).Update("sort_order", 7)
	db.Model(&dbm.Waypoint{}).Where("id = ?", wps[2].ID).Update("sort_order", 12)

	normalized, err := repo.Normalize(ctx, trip.ID)
	assert.Equal(t, nil, err)
	assertGapless(t, normalized)

	again, err := repo.Normalize(ctx, trip.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, orderOf(normalized), orderOf(again))
}

func TestWaypointOrderInvariantAfterMixedOperations(t *testing.T) {
	db := testdb.Open(t)
	repo := NewWaypointRepository(db)
	ctx := context.Background()

	trip, wps := seedTripWithWaypoints(t, db, repo, "A", "B", "C", "D", "E")

	steps := []func() error{
		func() error { _, err := repo.Reorder(ctx, trip.ID, wps[4].ID, 1); return err },
		func() error { return repo.Remove(ctx, trip.ID, wps[2].ID) },
		func() error {
			return repo.Append(ctx, &dbm.Waypoint{RoadTripID: trip.ID, Name: "F"})
		},
		func() error { _, err := repo.Reorder(ctx, trip.ID, wps[0].ID, 10); return err },
		func() error { return repo.Remove(ctx, trip.ID, wps[1].ID) },
		func() error { _, err := repo.Reorder(ctx, trip.ID, wps[3].ID, -4); return err },
	}

	for _, step := range steps {
		assert.Equal(t, nil, step())
		stored, err := repo.ListByRoadTrip(ctx, trip.ID)
		assert.Equal(t, nil, err)
		assertGapless(t, stored)
	}

	stored, _ := repo.ListByRoadTrip(ctx, trip.ID)
	assert.Equal(t, 4, len(stored))
}

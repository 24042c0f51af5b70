package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"roadtrip/internal/infra/testdb"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestSessionCreateReplacesActive(t *testing.T) {
	db := testdb.Open(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	owner := testdb.SeedAccount(t, db, "Owner")
	trip := testdb.SeedRoadTrip(t, db, "Desert", owner)

	first, err := repo.Create(ctx, trip.ID, baseTime, baseTime.Add(24*time.Hour))
	assert.Equal(t, nil, err)
	second, err := repo.Create(ctx, trip.ID, baseTime.Add(time.Minute), baseTime.Add(25*time.Hour))
	assert.Equal(t, nil, err)
	assert.NotEqual(t, first.ID, second.ID)

	active, err := repo.FindActiveByRoadTrip(ctx, trip.ID, baseTime.Add(2*time.Minute))
	assert.Equal(t, nil, err)
	assert.Equal(t, second.ID, active.ID)

	gone, err := repo.FindById(ctx, first.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, gone == nil)
}

func TestSessionCreateLoadsTrip(t *testing.T) {
	db := testdb.Open(t)
	repo := NewSessionRepository(db)
	waypoints := NewWaypointRepository(db)
	ctx := context.Background()

	owner := testdb.SeedAccount(t, db, "Owner")
	member := testdb.SeedAccount(t, db, "Member")
	trip := testdb.SeedRoadTrip(t, db, "Lakes", owner, member)
	_, _ = seedWaypointsFor(t, waypoints, trip.ID, "X", "Y")

	session, err := repo.Create(ctx, trip.ID, baseTime, baseTime.Add(24*time.Hour))
	assert.Equal(t, nil, err)
	assert.Equal(t, trip.ID, session.RoadTrip.ID)
	assert.Equal(t, owner.ID, session.RoadTrip.Owner.ID)
	assert.Equal(t, 2, len(session.RoadTrip.Members))
	assert.Equal(t, 2, len(session.RoadTrip.Waypoints))
	assert.Equal(t, "X", session.RoadTrip.Waypoints[0].Name)
}

func TestSessionCreateUnknownTrip(t *testing.T) {
	db := testdb.Open(t)
	repo := NewSessionRepository(db)

	_, err := repo.Create(context.Background(), uuid.New(), baseTime, baseTime.Add(time.Hour))
	assert.Equal(t, true, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSessionActiveIgnoresExpired(t *testing.T) {
	db := testdb.Open(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	owner := testdb.SeedAccount(t, db, "Owner")
	trip := testdb.SeedRoadTrip(t, db, "Forest", owner)

	session, err := repo.Create(ctx, trip.ID, baseTime, baseTime.Add(time.Hour))
	assert.Equal(t, nil, err)

	active, err := repo.FindActiveByRoadTrip(ctx, trip.ID, baseTime.Add(2*time.Hour))
	assert.Equal(t, nil, err)
	assert.Equal(t, true, active == nil)

	stale, err := repo.FindById(ctx, session.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, session.ID, stale.ID)
}

func TestSessionDeleteExpired(t *testing.T) {
	db := testdb.Open(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	owner := testdb.SeedAccount(t, db, "Owner")
	past := testdb.SeedRoadTrip(t, db, "Past", owner)
	future := testdb.SeedRoadTrip(t, db, "Future", owner)

	old, _ := repo.Create(ctx, past.ID, baseTime, baseTime.Add(time.Hour))
	fresh, _ := repo.Create(ctx, future.ID, baseTime, baseTime.Add(48*time.Hour))

	removed, err := repo.DeleteExpired(ctx, baseTime.Add(3*time.Hour))
	assert.Equal(t, nil, err)
	assert.Equal(t, int64(1), removed)

	gone, _ := repo.FindById(ctx, old.ID)
	assert.Equal(t, true, gone == nil)
	kept, _ := repo.FindById(ctx, fresh.ID)
	assert.Equal(t, fresh.ID, kept.ID)
}

func TestSessionExtendAndDelete(t *testing.T) {
	db := testdb.Open(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	owner := testdb.SeedAccount(t, db, "Owner")
	trip := testdb.SeedRoadTrip(t, db, "Hills", owner)
	session, _ := repo.Create(ctx, trip.ID, baseTime, baseTime.Add(time.Hour))

	ok, err := repo.Extend(ctx, trip.ID, session.ID, baseTime.Add(2*time.Hour), baseTime.Add(10*time.Hour))
	assert.Equal(t, nil, err)
	assert.Equal(t, true, ok)

	reloaded, _ := repo.FindById(ctx, session.ID)
	assert.Equal(t, true, reloaded.ExpiresAt.Equal(baseTime.Add(10*time.Hour)))

	ok, err = repo.Extend(ctx, trip.ID, "missing", baseTime, baseTime)
	assert.Equal(t, nil, err)
	assert.Equal(t, false, ok)

	deleted, err := repo.Delete(ctx, session.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, deleted)

	deleted, err = repo.Delete(ctx, session.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, false, deleted)
}

func TestSessionListActiveByParticipant(t *testing.T) {
	db := testdb.Open(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	owner := testdb.SeedAccount(t, db, "Owner")
	member := testdb.SeedAccount(t, db, "Member")
	stranger := testdb.SeedAccount(t, db, "Stranger")

	shared := testdb.SeedRoadTrip(t, db, "Shared", owner, member)
	private := testdb.SeedRoadTrip(t, db, "Private", owner)

	_, _ = repo.Create(ctx, shared.ID, baseTime, baseTime.Add(24*time.Hour))
	_, _ = repo.Create(ctx, private.ID, baseTime, baseTime.Add(24*time.Hour))

	now := baseTime.Add(time.Hour)

	mine, err := repo.ListActiveByParticipant(ctx, owner.ID, now)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(mine))

	theirs, err := repo.ListActiveByParticipant(ctx, member.ID, now)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(theirs))
	assert.Equal(t, shared.ID, theirs[0].RoadTripID)

	none, err := repo.ListActiveByParticipant(ctx, stranger.ID, now)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(none))
}

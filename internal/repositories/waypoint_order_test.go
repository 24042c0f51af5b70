package repositories

import (
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/google/uuid"
	dbm "roadtrip/internal/models/db_models"
)

func namedWaypoints(names ...string) []dbm.Waypoint {
	wps := make([]dbm.Waypoint, 0, len(names))
	for i, name := range names {
		wp := dbm.Waypoint{Name: name, Order: i}
		wp.ID = uuid.New()
		wps = append(wps, wp)
	}
	return wps
}

func names(wps []dbm.Waypoint) []string {
	out := make([]string, 0, len(wps))
	for _, wp := range wps {
		out = append(out, wp.Name)
	}
	return out
}

func TestClampIndex(t *testing.T) {
	assert.Equal(t, 0, clampIndex(-5, 3))
	assert.Equal(t, 0, clampIndex(0, 3))
	assert.Equal(t, 1, clampIndex(1, 3))
	assert.Equal(t, 2, clampIndex(2, 3))
	assert.Equal(t, 2, clampIndex(99, 3))
	assert.Equal(t, 0, clampIndex(7, 1))
}

func TestMoveWaypointToFront(t *testing.T) {
	wps := namedWaypoints("A", "B", "C")

	out, ok := moveWaypoint(wps, wps[2].ID, 0)
	assert.Equal(t, true, ok)
	assert.Equal(t, []string{"C", "A", "B"}, names(out))

	renumber(out)
	for i, wp := range out {
		assert.Equal(t, i, wp.Order)
	}
}

func TestMoveWaypointClamps(t *testing.T) {
	wps := namedWaypoints("A", "B", "C", "D")

	out, ok := moveWaypoint(wps, wps[1].ID, 100)
	assert.Equal(t, true, ok)
	assert.Equal(t, []string{"A", "C", "D", "B"}, names(out))

	out, ok = moveWaypoint(wps, wps[3].ID, -3)
	assert.Equal(t, true, ok)
	assert.Equal(t, []string{"D", "A", "B", "C"}, names(out))
}

func TestMoveWaypointSamePosition(t *testing.T) {
	wps := namedWaypoints("A", "B", "C")

	out, ok := moveWaypoint(wps, wps[1].ID, 1)
	assert.Equal(t, true, ok)
	assert.Equal(t, []string{"A", "B", "C"}, names(out))
	assert.Equal(t, 0, len(renumber(out)))
}

func TestMoveWaypointUnknown(t *testing.T) {
	wps := namedWaypoints("A", "B")

	_, ok := moveWaypoint(wps, uuid.New(), 0)
	assert.Equal(t, false, ok)
}

func TestMoveWaypointDoesNotAliasInput(t *testing.T) {
	wps := namedWaypoints("A", "B", "C")

	_, _ = moveWaypoint(wps, wps[0].ID, 2)
	assert.Equal(t, []string{"A", "B", "C"}, names(wps))
}

func TestRenumberClosesGaps(t *testing.T) {
	wps := namedWaypoints("A", "B", "C")
	wps[0].Order = 0
	wps[1].Order = 4
	wps[2].Order = 9

	changed := renumber(wps)
	assert.Equal(t, []int{1, 2}, changed)
	assert.Equal(t, 1, wps[1].Order)
	assert.Equal(t, 2, wps[2].Order)
}

func TestSortByOrderBreaksTies(t *testing.T) {
	wps := namedWaypoints("A", "B", "C")
	wps[0].Order, wps[0].CreatedAt = 1, 20
	wps[1].Order, wps[1].CreatedAt = 1, 10
	wps[2].Order, wps[2].CreatedAt = 0, 30

	sortByOrder(wps)
	assert.Equal(t, []string{"C", "B", "A"}, names(wps))
}

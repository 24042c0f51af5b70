package repositories

import (
	"sort"

	"github.com/google/uuid"
	dbm "roadtrip/internal/models/db_models"
)

// clampIndex bounds target into [0, count-1]. count must be positive.
func clampIndex(target, count int) int {
	if target < 0 {
		return 0
	}
	if target > count-1 {
		return count - 1
	}
	return target
}

// sortByOrder sorts in place by current order, breaking ties by creation time then id
// so that a corrupted sequence still normalises deterministically.
func sortByOrder(wps []dbm.Waypoint) {
	sort.SliceStable(wps, func(i, j int) bool {
		if wps[i].Order != wps[j].Order {
			return wps[i].Order < wps[j].Order
		}
		if wps[i].CreatedAt != wps[j].CreatedAt {
			return wps[i].CreatedAt < wps[j].CreatedAt
		}
		return wps[i].ID.String() < wps[j].ID.String()
	})
}

// moveWaypoint removes waypointID from the ordered list and reinserts it at the clamped
// target index. It returns false if the waypoint is not in the list.
func moveWaypoint(wps []dbm.Waypoint, waypointID uuid.UUID, target int) ([]dbm.Waypoint, bool) {
	from := -1
	for i := range wps {
		if wps[i].ID == waypointID {
			from = i
			break
		}
	}
	if from < 0 {
		return wps, false
	}

	to := clampIndex(target, len(wps))
	moved := wps[from]

	out := make([]dbm.Waypoint, 0, len(wps))
	out = append(out, wps[:from]...)
	out = append(out, wps[from+1:]...)

	out = append(out, dbm.Waypoint{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out, true
}

// renumber assigns each waypoint its positional index and returns the indexes whose
// order actually changed.
func renumber(wps []dbm.Waypoint) []int {
	changed := make([]int, 0, len(wps))
	for i := range wps {
		if wps[i].Order != i {
			wps[i].Order = i
			changed = append(changed, i)
		}
	}
	return changed
}

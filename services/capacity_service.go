package services

import (
	"sort"

	"hotel-pricing/models"
)

// CanAccommodate reports whether the rooms can host the requested guests.
//
// Rooms are filled largest-first by MaxAdults. Each room takes adults up to
// MaxAdults, then children up to MaxChildren, then extra children into any
// spare room under MaxTotal. An empty room list never accommodates.
func CanAccommodate(request models.GuestCount, rooms []models.Capacity) bool {
	if len(rooms) == 0 {
		return false
	}
	left := Shortfall(request, rooms)
	return left.Adults <= 0 && left.Children <= 0
}

// Shortfall returns the guests left unplaced after the greedy fill used by
// CanAccommodate.
func Shortfall(request models.GuestCount, rooms []models.Capacity) models.GuestCount {
	sorted := make([]models.Capacity, len(rooms))
	copy(sorted, rooms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MaxAdults > sorted[j].MaxAdults
	})

	adults := max(request.Adults, 0)
	children := max(request.Children, 0)

	for _, room := range sorted {
		placedAdults := min(adults, max(room.MaxAdults, 0))
		adults -= placedAdults

		placedChildren := min(children, max(room.MaxChildren, 0))
		children -= placedChildren

		if children > 0 {
			if spare := room.Total() - placedAdults - placedChildren; spare > 0 {
				children -= min(children, spare)
			}
		}
	}

	return models.GuestCount{Adults: adults, Children: children}
}

// SimpleTotals is the older sum-compare check: requested adults and
// children against the summed MaxAdults and MaxChildren of all rooms. It
// ignores MaxTotal and is kept for diagnostics; gating uses CanAccommodate.
func SimpleTotals(request models.GuestCount, rooms []models.Capacity) bool {
	if len(rooms) == 0 {
		return false
	}
	var adults, children int
	for _, room := range rooms {
		adults += room.MaxAdults
		children += room.MaxChildren
	}
	return request.Adults <= adults && request.Children <= children
}

// RoomCapacities collects the capacity of every selected room.
func RoomCapacities(rooms []models.RoomSelection) []models.Capacity {
	out := make([]models.Capacity, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Capacity)
	}
	return out
}

package services

import (
	"math"

	"hotel-pricing/models"
)

const (
	LabelNewlyAdded  = "Newly Added"
	LabelUpdatedRate = "Updated Rate"
)

// RoomStatus is the reconciled state of one selected room.
type RoomStatus struct {
	InstanceID string `json:"instanceId"`
	RoomID     string `json:"roomId,omitempty"`
	Available  bool   `json:"available"`
	Label      string `json:"label,omitempty"`
}

// sameRoom cross-matches both identifier fields of each side. Empty ids
// never match.
func sameRoom(aID, aLegacy, bID, bLegacy string) bool {
	for _, a := range [...]string{aID, aLegacy} {
		if a == "" {
			continue
		}
		if a == bID || a == bLegacy {
			return true
		}
	}
	return false
}

func findAvailability(room models.RoomSelection, entries []models.AvailabilityEntry) (models.AvailabilityEntry, bool) {
	for _, e := range entries {
		if sameRoom(room.RoomID, room.LegacyID, e.RoomID, e.LegacyID) {
			return e, true
		}
	}
	return models.AvailabilityEntry{}, false
}

func findOriginal(room models.RoomSelection, originals []models.RoomSelection) (models.RoomSelection, bool) {
	for _, o := range originals {
		if sameRoom(room.RoomID, room.LegacyID, o.RoomID, o.LegacyID) {
			return o, true
		}
	}
	return models.RoomSelection{}, false
}

func amountsDiffer(a, b *float64) bool {
	return math.Abs(Amount(a)-Amount(b)) > 1e-9
}

func rateChanged(current, original models.RoomSelection) bool {
	return amountsDiffer(current.BaseRate, original.BaseRate) ||
		amountsDiffer(current.TaxesAndFees, original.TaxesAndFees) ||
		amountsDiffer(current.TotalAfterTax, original.TotalAfterTax)
}

// ReconcileAvailability decides, for each selected room, whether it is still
// bookable against a freshly fetched availability list. A room without a
// matching entry, or whose entry is flagged unavailable, is unavailable.
//
// When originals is non-empty (booking modification) rooms are also
// labelled: LabelNewlyAdded without an original counterpart, LabelUpdatedRate
// when the counterpart's price fields differ.
func ReconcileAvailability(selected, originals []models.RoomSelection, available []models.AvailabilityEntry) []RoomStatus {
	out := make([]RoomStatus, 0, len(selected))
	for _, room := range selected {
		entry, ok := findAvailability(room, available)
		status := RoomStatus{
			InstanceID: room.InstanceID,
			RoomID:     firstNonEmpty(room.RoomID, room.LegacyID),
			Available:  ok && !entry.Unavailable,
		}

		if len(originals) > 0 {
			original, found := findOriginal(room, originals)
			switch {
			case !found:
				status.Label = LabelNewlyAdded
			case rateChanged(room, original):
				status.Label = LabelUpdatedRate
			}
		}
		out = append(out, status)
	}
	return out
}

// AnyUnavailable reports whether continuation must be blocked.
func AnyUnavailable(statuses []RoomStatus) bool {
	for _, s := range statuses {
		if !s.Available {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"hotel-pricing/models"
)

// Upstream room and service payloads name the same concept several ways
// (price / baseRate / displayPrice, roomId / _id ...). Everything entering
// the service goes through NormalizeRoom / NormalizeService once.

// getString returns the first present key as a trimmed string.
func getString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s, ok2 := v.(string); ok2 {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
				continue
			}
			return strings.TrimSpace(fmt.Sprintf("%v", v))
		}
	}
	return ""
}

// toNumber converts JSON-ish numbers and numeric strings. Anything else,
// including NaN/Inf, is not a number.
func toNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func getNumber(m map[string]interface{}, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if f, ok := toNumber(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

func getNumberPtr(m map[string]interface{}, keys ...string) *float64 {
	if f, ok := getNumber(m, keys...); ok {
		return &f
	}
	return nil
}

func getInt(m map[string]interface{}, keys ...string) (int, bool) {
	f, ok := getNumber(m, keys...)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func getTime(m map[string]interface{}, keys ...string) *time.Time {
	raw := getString(m, keys...)
	if raw == "" {
		return nil
	}
	t, err := ParseStayDate(raw)
	if err != nil {
		return nil
	}
	return &t
}

// NormalizeRoom maps an upstream room payload to the canonical selection.
// The VAT-inclusive rate is resolved as baseRate, then price, then
// displayPrice, then perNight times the room's nights. A room carrying its
// own dates is priced on those; otherwise nights applies.
func NormalizeRoom(raw map[string]interface{}, nights int) models.RoomSelection {
	room := models.RoomSelection{
		InstanceID:    getString(raw, "instanceId", "instance_id"),
		RoomID:        getString(raw, "roomId", "room_id", "id"),
		LegacyID:      getString(raw, "_id"),
		RoomType:      getString(raw, "roomType", "typeName", "type", "name"),
		TaxesAndFees:  getNumberPtr(raw, "taxesAndFees", "taxes_and_fees"),
		TotalAfterTax: getNumberPtr(raw, "totalAfterTax", "total_after_tax"),
		StartDate:     getTime(raw, "startDate", "start_date", "checkIn"),
		EndDate:       getTime(raw, "endDate", "end_date", "checkOut"),
	}

	if rate := getNumberPtr(raw, "baseRate", "base_rate", "price", "displayPrice"); rate != nil {
		room.BaseRate = rate
	} else if perNight := getNumberPtr(raw, "perNight", "per_night"); perNight != nil {
		room.PerNight = perNight
		if room.StartDate != nil && room.EndDate != nil {
			nights = Nights(*room.StartDate, *room.EndDate)
		}
		ApplyNights(&room, nights)
	}

	capSrc := raw
	if nested, ok := raw["capacity"].(map[string]interface{}); ok {
		capSrc = nested
	}
	if v, ok := getInt(capSrc, "maxAdults", "max_adults"); ok {
		room.Capacity.MaxAdults = v
	}
	if v, ok := getInt(capSrc, "maxChildren", "max_children"); ok {
		room.Capacity.MaxChildren = v
	}
	if v, ok := getInt(capSrc, "maxTotal", "max_total", "maxOccupancy", "maxGuests"); ok {
		room.Capacity.MaxTotal = &v
	}
	// Rows that only know an occupancy figure host that many adults.
	if room.Capacity.MaxAdults == 0 && room.Capacity.MaxChildren == 0 && room.Capacity.MaxTotal != nil {
		room.Capacity.MaxAdults = *room.Capacity.MaxTotal
	}

	return room
}

// NormalizeService maps an upstream service payload to the canonical
// selection.
func NormalizeService(raw map[string]interface{}) models.ServiceSelection {
	svc := models.ServiceSelection{
		InstanceID: getString(raw, "instanceId", "instance_id"),
		ServiceID:  getString(raw, "serviceId", "service_id", "_id", "id"),
		Category:   getString(raw, "category"),
		Name:       getString(raw, "name", "title"),
		Price:      getNumberPtr(raw, "price", "amount"),
		VAT:        getNumberPtr(raw, "vat"),
	}

	if opts, ok := raw["transportation"].([]interface{}); ok {
		for _, o := range opts {
			switch v := o.(type) {
			case string:
				if s := strings.TrimSpace(v); s != "" {
					svc.Transportation = append(svc.Transportation, s)
				}
			case map[string]interface{}:
				if s := getString(v, "type", "name", "label"); s != "" {
					svc.Transportation = append(svc.Transportation, s)
				}
			}
		}
	}
	return svc
}

// ApplyNights re-derives the rate of a per-night room. Rooms with a fixed
// rate are left alone.
func ApplyNights(room *models.RoomSelection, nights int) {
	if room.PerNight == nil {
		return
	}
	if nights < 1 {
		nights = 1
	}
	total := Amount(room.PerNight) * float64(nights)
	room.BaseRate = &total
}

// NormalizeAvailability maps upstream availability rows. Ids may arrive as
// strings or numbers, like room ids do.
func NormalizeAvailability(raw []map[string]interface{}) []models.AvailabilityEntry {
	out := make([]models.AvailabilityEntry, 0, len(raw))
	for _, m := range raw {
		out = append(out, models.AvailabilityEntry{
			RoomID:      getString(m, "roomId", "room_id", "id"),
			LegacyID:    getString(m, "_id"),
			Unavailable: getBool(m, "unavailable"),
		})
	}
	return out
}

func getBool(m map[string]interface{}, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	case float64:
		return v != 0
	}
	return false
}

func NormalizeRooms(raw []map[string]interface{}, nights int) []models.RoomSelection {
	out := make([]models.RoomSelection, 0, len(raw))
	for _, r := range raw {
		out = append(out, NormalizeRoom(r, nights))
	}
	return out
}

func NormalizeServices(raw []map[string]interface{}) []models.ServiceSelection {
	out := make([]models.ServiceSelection, 0, len(raw))
	for _, s := range raw {
		out = append(out, NormalizeService(s))
	}
	return out
}

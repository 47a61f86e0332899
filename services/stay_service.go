package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"hotel-pricing/models"
)

const dateLayout = "2006-01-02"

var ErrInvalidDateRange = errors.New("invalid_date_range")

// ParseStayDate accepts "2006-01-02" or RFC3339.
func ParseStayDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t, nil
}

// ParseDateRange parses both ends and requires end to be after start.
func ParseDateRange(start, end string) (models.DateRange, error) {
	s, err := ParseStayDate(start)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("%w: start: %v", ErrInvalidDateRange, err)
	}
	e, err := ParseStayDate(end)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("%w: end: %v", ErrInvalidDateRange, err)
	}
	if !e.After(s) {
		return models.DateRange{}, fmt.Errorf("%w: end must be after start", ErrInvalidDateRange)
	}
	return models.DateRange{StartDate: s, EndDate: e}, nil
}

// Nights is ceil((end-start)/day) with a minimum of one.
func Nights(start, end time.Time) int {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return 1
	}
	n := int(math.Ceil(end.Sub(start).Hours() / 24))
	if n <= 0 {
		n = 1
	}
	return n
}

// StayNights picks the nights of a selection: the shared range when set,
// else the first room carrying both dates, else one.
func StayNights(dates *models.DateRange, rooms []models.RoomSelection) int {
	if dates != nil {
		return Nights(dates.StartDate, dates.EndDate)
	}
	for _, r := range rooms {
		if r.StartDate != nil && r.EndDate != nil {
			return Nights(*r.StartDate, *r.EndDate)
		}
	}
	return 1
}

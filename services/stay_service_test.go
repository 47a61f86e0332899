package services

import (
	"errors"
	"testing"
	"time"

	"hotel-pricing/models"
)

func TestNights(t *testing.T) {
	base := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"two nights", base, base.Add(48 * time.Hour), 2},
		{"partial day rounds up", base, base.Add(25 * time.Hour), 2},
		{"same instant", base, base, 1},
		{"end before start", base, base.Add(-24 * time.Hour), 1},
		{"zero times", time.Time{}, time.Time{}, 1},
		{"few hours", base, base.Add(3 * time.Hour), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nights(tt.start, tt.end); got != tt.want {
				t.Errorf("Nights() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseDateRange(t *testing.T) {
	dr, err := ParseDateRange("2025-03-01", "2025-03-04T12:00:00Z")
	if err != nil {
		t.Fatalf("ParseDateRange() error = %v", err)
	}
	if got := Nights(dr.StartDate, dr.EndDate); got != 4 {
		t.Errorf("nights = %d, want 4", got)
	}

	for _, tc := range [][2]string{
		{"2025-03-04", "2025-03-01"},
		{"2025-03-01", "2025-03-01"},
		{"not-a-date", "2025-03-01"},
		{"2025-03-01", ""},
	} {
		if _, err := ParseDateRange(tc[0], tc[1]); !errors.Is(err, ErrInvalidDateRange) {
			t.Errorf("ParseDateRange(%q, %q) error = %v, want ErrInvalidDateRange", tc[0], tc[1], err)
		}
	}
}

func TestStayNights(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	if got := StayNights(&models.DateRange{StartDate: start, EndDate: end}, nil); got != 3 {
		t.Errorf("shared range nights = %d, want 3", got)
	}
	rooms := []models.RoomSelection{{}, {StartDate: &start, EndDate: &end}}
	if got := StayNights(nil, rooms); got != 3 {
		t.Errorf("room range nights = %d, want 3", got)
	}
	if got := StayNights(nil, nil); got != 1 {
		t.Errorf("no dates nights = %d, want 1", got)
	}
}

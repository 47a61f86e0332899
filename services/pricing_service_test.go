package services

import (
	"math"
	"math/rand"
	"testing"

	"hotel-pricing/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregatePrices(t *testing.T) {
	tests := []struct {
		name     string
		rooms    []models.RoomSelection
		services []models.ServiceSelection
		vat      float64
		subtotal float64
		vatAmt   float64
	}{
		{
			name: "empty",
		},
		{
			name:     "rooms and services at 10 percent",
			rooms:    []models.RoomSelection{{BaseRate: f64(60)}, {BaseRate: f64(30)}},
			services: []models.ServiceSelection{{Price: f64(20)}},
			vat:      10,
			subtotal: 110,
			vatAmt:   10,
		},
		{
			name:     "missing amounts count as zero",
			rooms:    []models.RoomSelection{{}, {BaseRate: f64(107)}},
			services: []models.ServiceSelection{{}},
			vat:      7,
			subtotal: 107,
			vatAmt:   7,
		},
		{
			name:     "zero vat",
			rooms:    []models.RoomSelection{{BaseRate: f64(50)}},
			subtotal: 50,
		},
		{
			name:     "non-finite amount ignored",
			rooms:    []models.RoomSelection{{BaseRate: f64(math.NaN())}, {BaseRate: f64(100)}},
			subtotal: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregatePrices(tt.rooms, tt.services, tt.vat)
			if !almostEqual(got.Subtotal, tt.subtotal) {
				t.Errorf("Subtotal = %v, want %v", got.Subtotal, tt.subtotal)
			}
			if got.Total != got.Subtotal {
				t.Errorf("Total = %v, want equal to Subtotal %v", got.Total, got.Subtotal)
			}
			if !almostEqual(got.VATAmount, tt.vatAmt) {
				t.Errorf("VATAmount = %v, want %v", got.VATAmount, tt.vatAmt)
			}
		})
	}
}

func TestPreVATBase(t *testing.T) {
	if got := PreVATBase(110, 10); !almostEqual(got, 100) {
		t.Errorf("PreVATBase(110, 10) = %v, want 100", got)
	}
	if got := PreVATBase(80, 0); got != 80 {
		t.Errorf("PreVATBase(80, 0) = %v, want 80", got)
	}
	// extracted VAT plus base always gives back the inclusive amount
	for _, rate := range []float64{0, 7, 10, 25, 100} {
		if got := ExtractVAT(321.5, rate) + PreVATBase(321.5, rate); !almostEqual(got, 321.5) {
			t.Errorf("rate %v: vat+base = %v, want 321.5", rate, got)
		}
	}
}

func TestClampVATRate(t *testing.T) {
	tests := map[float64]float64{-5: 0, 0: 0, 7: 7, 100: 100, 150: 100}
	for in, want := range tests {
		if got := ClampVATRate(in); got != want {
			t.Errorf("ClampVATRate(%v) = %v, want %v", in, got, want)
		}
	}
	if got := ClampVATRate(math.NaN()); got != 0 {
		t.Errorf("ClampVATRate(NaN) = %v, want 0", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		rate   float64
		code   string
		want   string
	}{
		{100, 1.1, "EUR", "EUR 110.00"},
		{100, 1, "usd", "USD 100.00"},
		{100, 0, "THB", "THB 100.00"},
		{100, -3, "THB", "THB 100.00"},
		{100, math.Inf(1), "THB", "THB 100.00"},
		{12.345, 1, "", "USD 12.35"},
		{0, 35.5, "THB", "THB 0.00"},
		{99.999, 1, "GBP", "GBP 100.00"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.amount, tt.rate, tt.code); got != tt.want {
			t.Errorf("FormatCurrency(%v, %v, %q) = %q, want %q", tt.amount, tt.rate, tt.code, got, tt.want)
		}
	}
}

func TestSummaryDisplay(t *testing.T) {
	summary := AggregatePrices([]models.RoomSelection{{BaseRate: f64(110)}}, nil, 10)
	got := summary.Display(2, "eur", 10)

	want := PriceDisplay{
		Subtotal:  "EUR 220.00",
		VATAmount: "EUR 20.00",
		Total:     "EUR 220.00",
		PreVAT:    "EUR 200.00",
	}
	if got != want {
		t.Errorf("Display() = %+v, want %+v", got, want)
	}
}

func TestValidCurrencyCode(t *testing.T) {
	for _, code := range []string{"USD", "THB", "EUR"} {
		if !ValidCurrencyCode(code) {
			t.Errorf("ValidCurrencyCode(%q) = false", code)
		}
	}
	for _, code := range []string{"", "US", "USDX", "us1", "usd"} {
		if ValidCurrencyCode(code) {
			t.Errorf("ValidCurrencyCode(%q) = true", code)
		}
	}
}

func TestVATAmountWithinSubtotal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		rooms := make([]models.RoomSelection, rng.Intn(4))
		for j := range rooms {
			rooms[j].BaseRate = f64(rng.Float64() * 5000)
		}
		services := make([]models.ServiceSelection, rng.Intn(3))
		for j := range services {
			services[j].Price = f64(rng.Float64() * 800)
		}
		rate := rng.Float64() * 100

		got := AggregatePrices(rooms, services, rate)
		if got.VATAmount < 0 || got.VATAmount > got.Subtotal {
			t.Fatalf("rate %v: vatAmount %v outside [0, %v]", rate, got.VATAmount, got.Subtotal)
		}
		if got.Total != got.Subtotal {
			t.Fatalf("Total %v != Subtotal %v", got.Total, got.Subtotal)
		}
	}
}

package services

import (
	"math"
	"strings"

	"hotel-pricing/models"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "USD"

// PriceSummary is the aggregate of a selection. Subtotal and Total are
// VAT-inclusive and always equal; VATAmount is the tax portion extracted
// from them.
type PriceSummary struct {
	Subtotal  float64 `json:"subtotal"`
	VATAmount float64 `json:"vatAmount"`
	Total     float64 `json:"total"`
}

// PriceDisplay carries the summary formatted as "<CODE> <amount>".
type PriceDisplay struct {
	Subtotal  string `json:"subtotal"`
	VATAmount string `json:"vatAmount"`
	Total     string `json:"total"`
	PreVAT    string `json:"preVat"`
}

// Amount dereferences an optional monetary field. Missing and non-finite
// values count as zero.
func Amount(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

// ClampVATRate keeps a VAT percentage within [0, 100].
func ClampVATRate(rate float64) float64 {
	switch {
	case math.IsNaN(rate) || rate < 0:
		return 0
	case rate > 100:
		return 100
	}
	return rate
}

// ExtractVAT returns the tax portion contained in a VAT-inclusive amount:
// amount * rate / (100 + rate).
func ExtractVAT(amount, rate float64) float64 {
	rate = ClampVATRate(rate)
	if rate == 0 {
		return 0
	}
	return amount * rate / (100 + rate)
}

// PreVATBase recovers the net amount from a VAT-inclusive amount.
func PreVATBase(amount, rate float64) float64 {
	return amount - ExtractVAT(amount, rate)
}

// AggregatePrices sums the VAT-inclusive room rates and service prices and
// extracts the VAT portion at vatRate percent.
func AggregatePrices(rooms []models.RoomSelection, services []models.ServiceSelection, vatRate float64) PriceSummary {
	var subtotal float64
	for _, room := range rooms {
		subtotal += Amount(room.BaseRate)
	}
	for _, svc := range services {
		subtotal += Amount(svc.Price)
	}

	return PriceSummary{
		Subtotal:  subtotal,
		VATAmount: ExtractVAT(subtotal, vatRate),
		Total:     subtotal,
	}
}

// Display formats every amount of the summary in the target currency.
func (s PriceSummary) Display(exchangeRate float64, code string, vatRate float64) PriceDisplay {
	return PriceDisplay{
		Subtotal:  FormatCurrency(s.Subtotal, exchangeRate, code),
		VATAmount: FormatCurrency(s.VATAmount, exchangeRate, code),
		Total:     FormatCurrency(s.Total, exchangeRate, code),
		PreVAT:    FormatCurrency(PreVATBase(s.Total, vatRate), exchangeRate, code),
	}
}

// NormalizeExchangeRate falls back to 1 (USD passthrough) for zero,
// negative or non-finite rates.
func NormalizeExchangeRate(rate float64) float64 {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return 1
	}
	return rate
}

// NormalizeCurrencyCode upper-cases and trims a code; empty means USD.
func NormalizeCurrencyCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

// ValidCurrencyCode reports whether code looks like an ISO 4217 code.
func ValidCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// FormatCurrency converts a USD amount at exchangeRate and renders it as
// "<CODE> <amount>" rounded to two decimals.
func FormatCurrency(amount, exchangeRate float64, code string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	converted := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(NormalizeExchangeRate(exchangeRate)))
	return NormalizeCurrencyCode(code) + " " + converted.StringFixed(2)
}

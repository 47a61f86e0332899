package services

import (
	"context"
	"fmt"

	"hotel-pricing/models"

	"go.uber.org/zap"
)

// Inline validation codes. They block the "continue" step but are never
// returned as errors.
const (
	IssueNoRoomSelected       = "no_room_selected"
	IssueInsufficientCapacity = "insufficient_capacity"
	IssueRoomUnavailable      = "room_unavailable"
)

type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Quote is everything a price summary panel renders.
type Quote struct {
	Summary      PriceSummary           `json:"summary"`
	PreVATBase   float64                `json:"preVatBase"`
	Display      PriceDisplay           `json:"display"`
	Currency     models.CurrencyContext `json:"currency"`
	VATRate      float64                `json:"vatRate"`
	Nights       int                    `json:"nights"`
	Guests       models.GuestCount      `json:"guests"`
	Shortfall    models.GuestCount      `json:"shortfall"`
	CanContinue  bool                   `json:"canContinue"`
	Issues       []ValidationIssue      `json:"errors"`
	RoomStatuses []RoomStatus           `json:"roomStatuses,omitempty"`
}

type QuoteInput struct {
	Rooms    []models.RoomSelection
	Services []models.ServiceSelection
	Guests   models.GuestCount
	Dates    *models.DateRange
	VATRate  float64
	Currency models.CurrencyContext

	// Availability is only reconciled when CheckAvailability is set.
	CheckAvailability bool
	Originals         []models.RoomSelection
	Availability      []models.AvailabilityEntry
}

// BuildQuote aggregates prices, formats them and evaluates the continue
// gate: at least one room, enough capacity, no unavailable room.
func BuildQuote(in QuoteInput) Quote {
	vat := ClampVATRate(in.VATRate)
	currency := in.Currency
	currency.Code = NormalizeCurrencyCode(currency.Code)
	currency.Rate = NormalizeExchangeRate(currency.Rate)

	summary := AggregatePrices(in.Rooms, in.Services, vat)
	q := Quote{
		Summary:    summary,
		PreVATBase: PreVATBase(summary.Total, vat),
		Display:    summary.Display(currency.Rate, currency.Code, vat),
		Currency:   currency,
		VATRate:    vat,
		Nights:     StayNights(in.Dates, in.Rooms),
		Guests:     in.Guests,
		Issues:     []ValidationIssue{},
	}

	if len(in.Rooms) == 0 {
		q.Shortfall = in.Guests
		q.Issues = append(q.Issues, ValidationIssue{
			Code:    IssueNoRoomSelected,
			Message: "Please select at least one room.",
		})
	} else {
		capacities := RoomCapacities(in.Rooms)
		q.Shortfall = Shortfall(in.Guests, capacities)
		if !CanAccommodate(in.Guests, capacities) {
			q.Issues = append(q.Issues, ValidationIssue{
				Code: IssueInsufficientCapacity,
				Message: fmt.Sprintf("Selected rooms cannot accommodate %d adult(s) and %d child(ren).",
					in.Guests.Adults, in.Guests.Children),
			})
		}
	}

	if in.CheckAvailability {
		q.RoomStatuses = ReconcileAvailability(in.Rooms, in.Originals, in.Availability)
		if AnyUnavailable(q.RoomStatuses) {
			q.Issues = append(q.Issues, ValidationIssue{
				Code:    IssueRoomUnavailable,
				Message: "One or more selected rooms are no longer available.",
			})
		}
	}

	q.CanContinue = len(q.Issues) == 0
	return q
}

type VATSource interface {
	VATRate(ctx context.Context) float64
}

type RateSource interface {
	Rate(ctx context.Context, code string) (models.CurrencyContext, error)
}

type AvailabilitySource interface {
	Availability(ctx context.Context) ([]models.AvailabilityEntry, error)
}

// QuoteService prices a stored selection with the property VAT and the
// session's currency.
type QuoteService struct {
	selections   *SelectionService
	vat          VATSource
	rates        RateSource
	availability AvailabilitySource
	logger       *zap.Logger
}

func NewQuoteService(selections *SelectionService, vat VATSource, rates RateSource, availability AvailabilitySource, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		selections:   selections,
		vat:          vat,
		rates:        rates,
		availability: availability,
		logger:       logger,
	}
}

// Quote prices the session's selection. In a modification flow (original
// rooms stored) the rooms are reconciled against current availability; a
// failed availability fetch is logged and the check skipped.
func (s *QuoteService) Quote(ctx context.Context, session string) (Quote, error) {
	sel, err := s.selections.Get(ctx, session)
	if err != nil {
		return Quote{}, err
	}

	in := QuoteInput{
		Rooms:    sel.Rooms,
		Services: sel.Services,
		Guests:   sel.Guests(),
		Dates:    sel.Dates,
		VATRate:  s.vat.VATRate(ctx),
		Currency: s.Currency(ctx, sel.CurrencyCode),
	}

	if len(sel.OriginalRooms) > 0 && s.availability != nil {
		entries, err := s.availability.Availability(ctx)
		if err != nil {
			s.logger.Warn("availability fetch failed, skipping reconciliation",
				zap.String("session", sel.SessionKey), zap.Error(err))
		} else {
			in.CheckAvailability = true
			in.Originals = sel.OriginalRooms
			in.Availability = entries
		}
	}

	return BuildQuote(in), nil
}

// Currency resolves a code to a rate, falling back to 1 on any failure.
func (s *QuoteService) Currency(ctx context.Context, code string) models.CurrencyContext {
	code = NormalizeCurrencyCode(code)
	rate, err := s.rates.Rate(ctx, code)
	if err != nil {
		s.logger.Warn("currency lookup failed, using passthrough rate",
			zap.String("currency", code), zap.Error(err))
		return models.CurrencyContext{Code: code, Rate: 1}
	}
	return rate
}

// VATRate exposes the resolved VAT percentage.
func (s *QuoteService) VATRate(ctx context.Context) float64 {
	return s.vat.VATRate(ctx)
}

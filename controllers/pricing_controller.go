package controllers

import (
	"net/http"

	"hotel-pricing/models"
	"hotel-pricing/services"
	"hotel-pricing/utils"

	"github.com/gin-gonic/gin"
)

// Stateless pricing endpoints: every input comes in the request body.

type summaryRequest struct {
	Rooms        []map[string]interface{}   `json:"rooms"`
	Services     []map[string]interface{}   `json:"services"`
	VATRate      *float64                   `json:"vatRate"`
	ExchangeRate *float64                   `json:"exchangeRate"`
	CurrencyCode string                     `json:"currencyCode"`
	Adults       *int                       `json:"adults"`
	Children     int                        `json:"children"`
	StartDate    string                     `json:"startDate"`
	EndDate      string                     `json:"endDate"`
	Originals    []map[string]interface{}   `json:"originalRooms"`
	Availability []map[string]interface{}   `json:"availability"`
}

type capacityRequest struct {
	Adults   int                      `json:"adults"`
	Children int                      `json:"children"`
	Rooms    []map[string]interface{} `json:"rooms"`
}

type reconcileRequest struct {
	Selected     []map[string]interface{}   `json:"selectedRooms"`
	Originals    []map[string]interface{}   `json:"originalRooms"`
	Availability []map[string]interface{}   `json:"availability"`
}

type PricingController struct {
	Quotes *services.QuoteService
	Rates  services.RateSource
}

func NewPricingController(quotes *services.QuoteService, rates services.RateSource) *PricingController {
	return &PricingController{Quotes: quotes, Rates: rates}
}

// Summary (POST /api/pricing/summary)
func (ctrl *PricingController) Summary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err)
		return
	}

	var dates *models.DateRange
	if req.StartDate != "" || req.EndDate != "" {
		dr, err := services.ParseDateRange(req.StartDate, req.EndDate)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		dates = &dr
	}

	nights := services.StayNights(dates, nil)
	in := services.QuoteInput{
		Rooms:    services.NormalizeRooms(req.Rooms, nights),
		Services: services.NormalizeServices(req.Services),
		Guests:   models.GuestCount{Adults: 1, Children: req.Children},
		Dates:    dates,
	}
	if req.Adults != nil {
		in.Guests.Adults = *req.Adults
	}

	if req.VATRate != nil {
		in.VATRate = *req.VATRate
	} else {
		in.VATRate = ctrl.Quotes.VATRate(c.Request.Context())
	}

	if req.ExchangeRate != nil {
		in.Currency = models.CurrencyContext{Code: req.CurrencyCode, Rate: *req.ExchangeRate}
	} else {
		in.Currency = ctrl.Quotes.Currency(c.Request.Context(), req.CurrencyCode)
	}

	if req.Availability != nil {
		in.CheckAvailability = true
		in.Availability = services.NormalizeAvailability(req.Availability)
		in.Originals = services.NormalizeRooms(req.Originals, nights)
	}

	utils.JSONSuccess(c, http.StatusOK, services.BuildQuote(in))
}

// CheckCapacity (POST /api/capacity/check)
func (ctrl *PricingController) CheckCapacity(c *gin.Context) {
	var req capacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err)
		return
	}

	request := models.GuestCount{Adults: req.Adults, Children: req.Children}
	capacities := services.RoomCapacities(services.NormalizeRooms(req.Rooms, 1))

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"accommodates": services.CanAccommodate(request, capacities),
		"simpleTotals": services.SimpleTotals(request, capacities),
		"shortfall":    services.Shortfall(request, capacities),
	})
}

// Reconcile (POST /api/availability/reconcile)
func (ctrl *PricingController) Reconcile(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err)
		return
	}

	statuses := services.ReconcileAvailability(
		services.NormalizeRooms(req.Selected, 1),
		services.NormalizeRooms(req.Originals, 1),
		services.NormalizeAvailability(req.Availability),
	)
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"rooms":       statuses,
		"canContinue": len(statuses) > 0 && !services.AnyUnavailable(statuses),
	})
}

// Currency (GET /api/currency/:code)
func (ctrl *PricingController) Currency(c *gin.Context) {
	rate, err := ctrl.Rates.Rate(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rate)
}

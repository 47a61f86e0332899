package controllers

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"hotel-pricing/models"
	"hotel-pricing/services"
	"hotel-pricing/utils"

	"github.com/gin-gonic/gin"
)

type datesPayload struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

type currencyPayload struct {
	CurrencyCode string `json:"currencyCode" binding:"required"`
}

type originalRoomsPayload struct {
	Rooms []map[string]interface{} `json:"rooms"`
}

type SelectionController struct {
	Selections *services.SelectionService
	Quotes     *services.QuoteService
	Inventory  *services.InventoryService
}

func NewSelectionController(sel *services.SelectionService, quotes *services.QuoteService, inv *services.InventoryService) *SelectionController {
	return &SelectionController{Selections: sel, Quotes: quotes, Inventory: inv}
}

func (ctrl *SelectionController) respond(c *gin.Context, sel services.Selection, err error) {
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sel)
}

// GetSelection (GET /api/selections/:session)
func (ctrl *SelectionController) GetSelection(c *gin.Context) {
	sel, err := ctrl.Selections.Get(c.Request.Context(), sessionKey(c))
	ctrl.respond(c, sel, err)
}

// ClearSelection (DELETE /api/selections/:session)
func (ctrl *SelectionController) ClearSelection(c *gin.Context) {
	if err := ctrl.Selections.Clear(c.Request.Context(), sessionKey(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddRoom (POST /api/selections/:session/rooms)
//
// The body is either {"roomTypeId": n} to add a catalog room type, or an
// upstream room payload that is normalized as-is.
func (ctrl *SelectionController) AddRoom(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondInvalidPayload(c, err)
		return
	}

	ctx := c.Request.Context()
	var room models.RoomSelection
	id, ok, err := catalogID(body, "roomTypeId")
	if err != nil {
		respondInvalidPayload(c, err)
		return
	}
	if ok {
		rt, err := ctrl.Inventory.GetRoomType(ctx, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if rt.Unavailable {
			respondServiceError(c, services.ErrRoomTypeUnavailable)
			return
		}
		room = rt.Selection()
		room.InstanceID = services.NormalizeRoom(body, 1).InstanceID
	} else {
		current, err := ctrl.Selections.Get(ctx, sessionKey(c))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		room = services.NormalizeRoom(body, services.StayNights(current.Dates, nil))
	}

	sel, err := ctrl.Selections.AddRoom(ctx, sessionKey(c), room)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, sel)
}

// RemoveRoom (DELETE /api/selections/:session/rooms/:instanceId)
func (ctrl *SelectionController) RemoveRoom(c *gin.Context) {
	sel, err := ctrl.Selections.RemoveRoom(c.Request.Context(), sessionKey(c), c.Param("instanceId"))
	ctrl.respond(c, sel, err)
}

// SetRoomGuests (PUT /api/selections/:session/rooms/:instanceId/guests)
func (ctrl *SelectionController) SetRoomGuests(c *gin.Context) {
	var guests models.GuestCount
	if err := c.ShouldBindJSON(&guests); err != nil {
		respondInvalidPayload(c, err)
		return
	}
	sel, err := ctrl.Selections.SetRoomGuests(c.Request.Context(), sessionKey(c), c.Param("instanceId"), guests)
	ctrl.respond(c, sel, err)
}

// AddService (POST /api/selections/:session/services)
//
// Accepts {"addOnId": n} for a catalog service or an upstream payload.
func (ctrl *SelectionController) AddService(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondInvalidPayload(c, err)
		return
	}

	svc := services.NormalizeService(body)
	id, ok, err := catalogID(body, "addOnId")
	if err != nil {
		respondInvalidPayload(c, err)
		return
	}
	if ok {
		row, err := ctrl.Inventory.GetService(c.Request.Context(), id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		instanceID := svc.InstanceID
		if svc, err = row.Selection(); err != nil {
			respondServiceError(c, err)
			return
		}
		svc.InstanceID = instanceID
	}

	sel, err := ctrl.Selections.AddService(c.Request.Context(), sessionKey(c), svc)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, sel)
}

// RemoveService (DELETE /api/selections/:session/services/:instanceId)
func (ctrl *SelectionController) RemoveService(c *gin.Context) {
	sel, err := ctrl.Selections.RemoveService(c.Request.Context(), sessionKey(c), c.Param("instanceId"))
	ctrl.respond(c, sel, err)
}

// SetGuests (PUT /api/selections/:session/guests)
func (ctrl *SelectionController) SetGuests(c *gin.Context) {
	var guests models.GuestCount
	if err := c.ShouldBindJSON(&guests); err != nil {
		respondInvalidPayload(c, err)
		return
	}
	sel, err := ctrl.Selections.SetGuests(c.Request.Context(), sessionKey(c), guests)
	ctrl.respond(c, sel, err)
}

// SetDates (PUT /api/selections/:session/dates)
func (ctrl *SelectionController) SetDates(c *gin.Context) {
	var payload datesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondInvalidPayload(c, err)
		return
	}
	dates, err := services.ParseDateRange(payload.StartDate, payload.EndDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	sel, err := ctrl.Selections.SetDates(c.Request.Context(), sessionKey(c), dates)
	ctrl.respond(c, sel, err)
}

// SetCurrency (PUT /api/selections/:session/currency)
func (ctrl *SelectionController) SetCurrency(c *gin.Context) {
	var payload currencyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondInvalidPayload(c, err)
		return
	}
	sel, err := ctrl.Selections.SetCurrency(c.Request.Context(), sessionKey(c), payload.CurrencyCode)
	ctrl.respond(c, sel, err)
}

// SetOriginalRooms (PUT /api/selections/:session/original-rooms)
func (ctrl *SelectionController) SetOriginalRooms(c *gin.Context) {
	var payload originalRoomsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondInvalidPayload(c, err)
		return
	}
	sel, err := ctrl.Selections.SetOriginalRooms(c.Request.Context(), sessionKey(c), services.NormalizeRooms(payload.Rooms, 1))
	ctrl.respond(c, sel, err)
}

// Quote (GET /api/selections/:session/quote)
func (ctrl *SelectionController) Quote(c *gin.Context) {
	quote, err := ctrl.Quotes.Quote(c.Request.Context(), sessionKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, quote)
}

// Events (GET /api/selections/:session/events) streams the selection as
// server-sent events: the current state first, then every change.
func (ctrl *SelectionController) Events(c *gin.Context) {
	ctx := c.Request.Context()
	session := sessionKey(c)

	updates, cancel, err := ctrl.Selections.Subscribe(session)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer cancel()

	current, err := ctrl.Selections.Get(ctx, session)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("selection", current)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case sel, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("selection", sel)
			return true
		}
	})
}

// catalogID reads a catalog id from the body. A missing key means the body
// is an upstream payload; a present key must hold a positive integer.
func catalogID(body map[string]interface{}, key string) (uint, bool, error) {
	v, ok := body[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(n), 10, 32)
		if err != nil {
			return 0, false, fmt.Errorf("%s must be a positive integer, got %q", key, n)
		}
		f = float64(parsed)
	default:
		return 0, false, fmt.Errorf("%s must be a positive integer", key)
	}
	if f < 1 || f > math.MaxUint32 || f != math.Trunc(f) {
		return 0, false, fmt.Errorf("%s must be a positive integer, got %v", key, v)
	}
	return uint(f), true, nil
}

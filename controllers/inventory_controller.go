package controllers

import (
	"net/http"
	"strconv"

	"hotel-pricing/models"
	"hotel-pricing/services"
	"hotel-pricing/utils"

	"github.com/gin-gonic/gin"
)

type availabilityPayload struct {
	Unavailable bool `json:"unavailable"`
}

type InventoryController struct {
	Inventory *services.InventoryService
}

func NewInventoryController(svc *services.InventoryService) *InventoryController {
	return &InventoryController{Inventory: svc}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidId", "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// GetRoomTypes (GET /api/room-types) returns the catalog rows and their
// canonical selection shape.
func (ctrl *InventoryController) GetRoomTypes(c *gin.Context) {
	types, err := ctrl.Inventory.ListRoomTypes(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	rooms := make([]models.RoomSelection, 0, len(types))
	for _, rt := range types {
		rooms = append(rooms, rt.Selection())
	}
	c.JSON(http.StatusOK, gin.H{"roomTypes": types, "rooms": rooms})
}

// CreateRoomType (POST /api/room-types)
func (ctrl *InventoryController) CreateRoomType(c *gin.Context) {
	var rt models.RoomType
	if err := c.ShouldBindJSON(&rt); err != nil {
		respondInvalidPayload(c, err)
		return
	}
	if err := ctrl.Inventory.CreateRoomType(c.Request.Context(), &rt); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rt)
}

// SetRoomTypeAvailability (PATCH /api/room-types/:id/availability)
func (ctrl *InventoryController) SetRoomTypeAvailability(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload availabilityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondInvalidPayload(c, err)
		return
	}
	if err := ctrl.Inventory.SetRoomTypeAvailability(c.Request.Context(), id, payload.Unavailable); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Room type availability updated"})
}

// DeleteRoomType (DELETE /api/room-types/:id)
func (ctrl *InventoryController) DeleteRoomType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctrl.Inventory.DeleteRoomType(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Room type deleted"})
}

// GetAvailability (GET /api/availability)
func (ctrl *InventoryController) GetAvailability(c *gin.Context) {
	entries, err := ctrl.Inventory.Availability(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": entries})
}

// GetServices (GET /api/services)
func (ctrl *InventoryController) GetServices(c *gin.Context) {
	list, err := ctrl.Inventory.ListServices(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	selections := make([]models.ServiceSelection, 0, len(list))
	for _, s := range list {
		sel, err := s.Selection()
		if err != nil {
			respondServiceError(c, err)
			return
		}
		selections = append(selections, sel)
	}
	c.JSON(http.StatusOK, gin.H{"services": list, "selections": selections})
}

// CreateService (POST /api/services)
func (ctrl *InventoryController) CreateService(c *gin.Context) {
	var svc models.AddOnService
	if err := c.ShouldBindJSON(&svc); err != nil {
		respondInvalidPayload(c, err)
		return
	}
	if err := ctrl.Inventory.CreateService(c.Request.Context(), &svc); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// DeleteService (DELETE /api/services/:id)
func (ctrl *InventoryController) DeleteService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctrl.Inventory.DeleteService(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Service deleted"})
}

package controllers

import (
	"encoding/json"
	"net/http"

	"hotel-pricing/models"
	"hotel-pricing/services"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type propertyPayload struct {
	Name            string            `json:"name"`
	Address         string            `json:"address"`
	Phone           string            `json:"phone"`
	Email           string            `json:"email"`
	Website         string            `json:"website"`
	Logo            string            `json:"logo"`
	HotelStarRating int               `json:"hotelStarRating"`
	SocialLinks     map[string]string `json:"socialLinks"`
	Policy          struct {
		CheckIn  string            `json:"checkIn"`
		CheckOut string            `json:"checkOut"`
		VAT      *models.VATPolicy `json:"vat"`
	} `json:"policy"`
}

type PropertyController struct {
	Policy *services.PolicyService
}

func NewPropertyController(svc *services.PolicyService) *PropertyController {
	return &PropertyController{Policy: svc}
}

func propertyResponse(p models.Property, vatRate float64) gin.H {
	return gin.H{
		"property":      p,
		"policy":        p.Policy(),
		"vatPercentage": vatRate,
	}
}

// GetProperty (GET /api/property)
func (ctrl *PropertyController) GetProperty(c *gin.Context) {
	ctx := c.Request.Context()
	property, err := ctrl.Policy.GetProperty(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, propertyResponse(property, ctrl.Policy.VATRate(ctx)))
}

// UpdateProperty (PUT /api/property)
func (ctrl *PropertyController) UpdateProperty(c *gin.Context) {
	var payload propertyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondInvalidPayload(c, err)
		return
	}

	property := models.Property{
		Name:            payload.Name,
		Address:         payload.Address,
		Phone:           payload.Phone,
		Email:           payload.Email,
		Website:         payload.Website,
		Logo:            payload.Logo,
		HotelStarRating: payload.HotelStarRating,
		CheckInTime:     payload.Policy.CheckIn,
		CheckOutTime:    payload.Policy.CheckOut,
	}
	if payload.Policy.VAT != nil {
		v := payload.Policy.VAT.Percentage
		property.VATPercentage = &v
	}
	if len(payload.SocialLinks) > 0 {
		links, _ := json.Marshal(payload.SocialLinks)
		property.SocialLinks = datatypes.JSON(links)
	}

	ctx := c.Request.Context()
	saved, err := ctrl.Policy.SaveProperty(ctx, property)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, propertyResponse(saved, ctrl.Policy.VATRate(ctx)))
}

package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-pricing/controllers"
	"hotel-pricing/middleware"
)

type Controllers struct {
	Pricing   *controllers.PricingController
	Selection *controllers.SelectionController
	Property  *controllers.PropertyController
	Inventory *controllers.InventoryController
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controllers onto a gin engine.
func SetupRouter(ctrl Controllers, corsOrigins string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(logger))

	origins := parseCorsOrigins(corsOrigins)
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Session-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		pricing := api.Group("/pricing")
		{
			pricing.POST("/summary", ctrl.Pricing.Summary)
		}
		api.POST("/capacity/check", ctrl.Pricing.CheckCapacity)
		api.POST("/availability/reconcile", ctrl.Pricing.Reconcile)
		api.GET("/currency/:code", ctrl.Pricing.Currency)

		selections := api.Group("/selections/:session")
		{
			selections.GET("", ctrl.Selection.GetSelection)
			selections.DELETE("", ctrl.Selection.ClearSelection)
			selections.GET("/quote", ctrl.Selection.Quote)
			selections.GET("/events", ctrl.Selection.Events)

			selections.POST("/rooms", ctrl.Selection.AddRoom)
			selections.DELETE("/rooms/:instanceId", ctrl.Selection.RemoveRoom)
			selections.PUT("/rooms/:instanceId/guests", ctrl.Selection.SetRoomGuests)
			selections.PUT("/original-rooms", ctrl.Selection.SetOriginalRooms)

			selections.POST("/services", ctrl.Selection.AddService)
			selections.DELETE("/services/:instanceId", ctrl.Selection.RemoveService)

			selections.PUT("/guests", ctrl.Selection.SetGuests)
			selections.PUT("/dates", ctrl.Selection.SetDates)
			selections.PUT("/currency", ctrl.Selection.SetCurrency)
		}

		property := api.Group("/property")
		{
			property.GET("", ctrl.Property.GetProperty)
			property.PUT("", ctrl.Property.UpdateProperty)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", ctrl.Inventory.GetRoomTypes)
			roomTypes.POST("", ctrl.Inventory.CreateRoomType)
			roomTypes.PATCH("/:id/availability", ctrl.Inventory.SetRoomTypeAvailability)
			roomTypes.DELETE("/:id", ctrl.Inventory.DeleteRoomType)
		}
		api.GET("/availability", ctrl.Inventory.GetAvailability)

		addOns := api.Group("/services")
		{
			addOns.GET("", ctrl.Inventory.GetServices)
			addOns.POST("", ctrl.Inventory.CreateService)
			addOns.DELETE("/:id", ctrl.Inventory.DeleteService)
		}
	}

	return r
}

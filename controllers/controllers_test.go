package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel-pricing/config"
	"hotel-pricing/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testRates map[string]float64

func (r testRates) FetchRates(context.Context) (map[string]float64, error) { return r, nil }

type testEnv struct {
	router     *gin.Engine
	inventory  *services.InventoryService
	selections *services.SelectionService
	hub        *services.SelectionHub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := config.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	nop := zap.NewNop()
	rates := services.NewRateService(testRates{"EUR": 0.5}, services.NewMemoryRateCache(), time.Hour, nop)
	policy := services.NewPolicyService(db, 10, nop)
	inventory := services.NewInventoryService(db)
	hub := services.NewSelectionHub()
	selections := services.NewSelectionService(db, hub, nop)
	quotes := services.NewQuoteService(selections, policy, rates, inventory, nop)

	pricing := NewPricingController(quotes, rates)
	sel := NewSelectionController(selections, quotes, inventory)
	prop := NewPropertyController(policy)
	inv := NewInventoryController(inventory)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/pricing/summary", pricing.Summary)
	api.POST("/capacity/check", pricing.CheckCapacity)
	api.POST("/availability/reconcile", pricing.Reconcile)
	api.GET("/currency/:code", pricing.Currency)
	api.GET("/property", prop.GetProperty)
	api.PUT("/property", prop.UpdateProperty)
	api.GET("/room-types", inv.GetRoomTypes)
	api.POST("/room-types", inv.CreateRoomType)
	api.PATCH("/room-types/:id/availability", inv.SetRoomTypeAvailability)
	api.DELETE("/room-types/:id", inv.DeleteRoomType)
	api.GET("/services", inv.GetServices)
	api.POST("/services", inv.CreateService)
	s := api.Group("/selections/:session")
	s.GET("", sel.GetSelection)
	s.DELETE("", sel.ClearSelection)
	s.GET("/quote", sel.Quote)
	s.POST("/rooms", sel.AddRoom)
	s.DELETE("/rooms/:instanceId", sel.RemoveRoom)
	s.POST("/services", sel.AddService)
	s.PUT("/guests", sel.SetGuests)
	s.PUT("/dates", sel.SetDates)
	s.PUT("/currency", sel.SetCurrency)
	s.GET("/events", sel.Events)

	return &testEnv{router: r, inventory: inventory, selections: selections, hub: hub}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: invalid json %q", method, path, w.Body.String())
		}
	}
	return w, out
}

func errorCode(out map[string]interface{}) string {
	e, _ := out["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func data(out map[string]interface{}) map[string]interface{} {
	d, _ := out["data"].(map[string]interface{})
	return d
}

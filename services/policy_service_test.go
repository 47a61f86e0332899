package services

import (
	"context"
	"errors"
	"testing"

	"hotel-pricing/models"

	"go.uber.org/zap"
)

func TestPolicyServiceVATRate(t *testing.T) {
	ctx := context.Background()
	svc := NewPolicyService(newTestDB(t), 7, zap.NewNop())

	if got := svc.VATRate(ctx); got != 7 {
		t.Errorf("VATRate() without property = %v, want fallback 7", got)
	}

	prop, err := svc.SaveProperty(ctx, models.Property{Name: "Riverside", CheckInTime: "14:00"})
	if err != nil {
		t.Fatalf("SaveProperty() error = %v", err)
	}
	if got := svc.VATRate(ctx); got != 7 {
		t.Errorf("VATRate() without policy vat = %v, want fallback 7", got)
	}

	prop.VATPercentage = f64(10)
	saved, err := svc.SaveProperty(ctx, prop)
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID != prop.ID {
		t.Errorf("SaveProperty created a second row: %d != %d", saved.ID, prop.ID)
	}
	if got := svc.VATRate(ctx); got != 10 {
		t.Errorf("VATRate() = %v, want 10", got)
	}

	policy := saved.Policy()
	if policy.CheckIn != "14:00" || policy.VAT == nil || policy.VAT.Percentage != 10 {
		t.Errorf("Policy() = %+v", policy)
	}
}

func TestPolicyServiceRejectsInvalidVAT(t *testing.T) {
	svc := NewPolicyService(newTestDB(t), 7, zap.NewNop())
	_, err := svc.SaveProperty(context.Background(), models.Property{VATPercentage: f64(120)})
	if !errors.Is(err, ErrInvalidVATRate) {
		t.Errorf("SaveProperty(vat 120) error = %v, want ErrInvalidVATRate", err)
	}
}

func TestPolicyServiceClampsFallback(t *testing.T) {
	if got := NewPolicyService(nil, 140, zap.NewNop()).FallbackVAT; got != 100 {
		t.Errorf("FallbackVAT = %v, want 100", got)
	}
}

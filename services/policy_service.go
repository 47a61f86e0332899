package services

import (
	"context"
	"errors"
	"fmt"

	"hotel-pricing/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PolicyService reads and updates the single property row and resolves the
// VAT percentage applied to quotes.
type PolicyService struct {
	DB          *gorm.DB
	FallbackVAT float64
	logger      *zap.Logger
}

func NewPolicyService(db *gorm.DB, fallbackVAT float64, logger *zap.Logger) *PolicyService {
	return &PolicyService{DB: db, FallbackVAT: ClampVATRate(fallbackVAT), logger: logger}
}

// GetProperty returns the property, or an empty one when none is stored yet.
func (s *PolicyService) GetProperty(ctx context.Context) (models.Property, error) {
	var property models.Property
	if err := s.DB.WithContext(ctx).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Property{}, nil
		}
		return models.Property{}, fmt.Errorf("failed to load property: %w", err)
	}
	return property, nil
}

// SaveProperty creates the property row on first use and overwrites it after.
func (s *PolicyService) SaveProperty(ctx context.Context, payload models.Property) (models.Property, error) {
	if payload.VATPercentage != nil {
		v := *payload.VATPercentage
		if v < 0 || v > 100 {
			return models.Property{}, ErrInvalidVATRate
		}
	}

	var property models.Property
	err := s.DB.WithContext(ctx).First(&property).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Property{}, fmt.Errorf("failed to load property: %w", err)
		}
		payload.ID = 0
		if err := s.DB.WithContext(ctx).Create(&payload).Error; err != nil {
			return models.Property{}, fmt.Errorf("failed to create property: %w", err)
		}
		return payload, nil
	}

	payload.ID = property.ID
	payload.CreatedAt = property.CreatedAt
	if err := s.DB.WithContext(ctx).Save(&payload).Error; err != nil {
		return models.Property{}, fmt.Errorf("failed to save property: %w", err)
	}
	return payload, nil
}

// VATRate is the property's policy percentage when set, else the
// configured fallback. A failed lookup also falls back.
func (s *PolicyService) VATRate(ctx context.Context) float64 {
	property, err := s.GetProperty(ctx)
	if err != nil {
		s.logger.Warn("vat policy lookup failed, using fallback",
			zap.Float64("fallback", s.FallbackVAT), zap.Error(err))
		return s.FallbackVAT
	}
	if property.VATPercentage == nil {
		return s.FallbackVAT
	}
	return ClampVATRate(*property.VATPercentage)
}

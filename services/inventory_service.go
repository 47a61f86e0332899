package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-pricing/models"

	"gorm.io/gorm"
)

var (
	ErrRoomTypeNotFound = errors.New("room_type_not_found")
	ErrServiceNotFound  = errors.New("service_not_found")
	ErrNameRequired     = errors.New("name_required")
	ErrInvalidCapacity  = errors.New("invalid_capacity")
	ErrNegativePrice    = errors.New("negative_price")
	ErrInvalidVATRate   = errors.New("invalid_vat_rate")
)

// ErrInvalidTransportation rejects transportation that is not a JSON array of strings.
var ErrInvalidTransportation = errors.New("invalid_transportation")

// InventoryService is the room type and add-on service catalog.
type InventoryService struct {
	DB *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{DB: db}
}

func (s *InventoryService) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	var types []models.RoomType
	if err := s.DB.WithContext(ctx).Order("id").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}
	return types, nil
}

func (s *InventoryService) GetRoomType(ctx context.Context, id uint) (models.RoomType, error) {
	var rt models.RoomType
	if err := s.DB.WithContext(ctx).First(&rt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rt, ErrRoomTypeNotFound
		}
		return rt, fmt.Errorf("failed to load room type %d: %w", id, err)
	}
	return rt, nil
}

func (s *InventoryService) CreateRoomType(ctx context.Context, rt *models.RoomType) error {
	rt.TypeName = strings.TrimSpace(rt.TypeName)
	if rt.TypeName == "" {
		return ErrNameRequired
	}
	if rt.MaxAdults < 0 || rt.MaxChildren < 0 || (rt.MaxTotal != nil && *rt.MaxTotal < 0) {
		return ErrInvalidCapacity
	}
	if rt.BaseRate < 0 || rt.TaxesAndFees < 0 {
		return ErrNegativePrice
	}
	rt.ID = 0
	if err := s.DB.WithContext(ctx).Create(rt).Error; err != nil {
		return fmt.Errorf("failed to create room type: %w", err)
	}
	return nil
}

func (s *InventoryService) DeleteRoomType(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Delete(&models.RoomType{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete room type %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRoomTypeNotFound
	}
	return nil
}

// SetRoomTypeAvailability flips the unavailable flag of a room type.
func (s *InventoryService) SetRoomTypeAvailability(ctx context.Context, id uint, unavailable bool) error {
	result := s.DB.WithContext(ctx).Model(&models.RoomType{}).
		Where("id = ?", id).
		Update("unavailable", unavailable)
	if result.Error != nil {
		return fmt.Errorf("failed to update room type %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRoomTypeNotFound
	}
	return nil
}

// Availability lists every room type as an availability entry.
func (s *InventoryService) Availability(ctx context.Context) ([]models.AvailabilityEntry, error) {
	types, err := s.ListRoomTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.AvailabilityEntry, 0, len(types))
	for _, rt := range types {
		out = append(out, rt.Availability())
	}
	return out, nil
}

func (s *InventoryService) ListServices(ctx context.Context) ([]models.AddOnService, error) {
	var list []models.AddOnService
	if err := s.DB.WithContext(ctx).Order("category, id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return list, nil
}

func (s *InventoryService) GetService(ctx context.Context, id uint) (models.AddOnService, error) {
	var svc models.AddOnService
	if err := s.DB.WithContext(ctx).First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svc, ErrServiceNotFound
		}
		return svc, fmt.Errorf("failed to load service %d: %w", id, err)
	}
	return svc, nil
}

func (s *InventoryService) CreateService(ctx context.Context, svc *models.AddOnService) error {
	svc.Name = strings.TrimSpace(svc.Name)
	svc.Category = strings.TrimSpace(svc.Category)
	if svc.Name == "" {
		return ErrNameRequired
	}
	if svc.Price < 0 {
		return ErrNegativePrice
	}
	if svc.VAT < 0 || svc.VAT > 100 {
		return ErrInvalidVATRate
	}
	if _, err := svc.TransportationOptions(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransportation, err)
	}
	svc.ID = 0
	if err := s.DB.WithContext(ctx).Create(svc).Error; err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (s *InventoryService) DeleteService(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Delete(&models.AddOnService{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete service %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

// RoomType is a bookable room category with its VAT-inclusive rate and capacity.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TypeName     string  `gorm:"size:150" json:"typeName"`
	Description  string  `gorm:"type:text" json:"description"`
	BaseRate     float64 `gorm:"column:base_rate" json:"baseRate"`
	TaxesAndFees float64 `gorm:"column:taxes_and_fees" json:"taxesAndFees"`

	MaxAdults   int  `gorm:"column:max_adults;default:2" json:"maxAdults"`
	MaxChildren int  `gorm:"column:max_children;default:0" json:"maxChildren"`
	MaxTotal    *int `gorm:"column:max_total" json:"maxTotal,omitempty"`

	// Unavailable hides the type from new selections and flags it during modification.
	Unavailable bool `gorm:"column:unavailable;default:false" json:"unavailable"`

	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Selection converts the row into the canonical room selection shape.
// The instance identifier is left empty; the selection store assigns it.
func (rt RoomType) Selection() RoomSelection {
	baseRate := rt.BaseRate
	taxes := rt.TaxesAndFees
	total := rt.BaseRate + rt.TaxesAndFees

	return RoomSelection{
		RoomID:        strconv.FormatUint(uint64(rt.ID), 10),
		RoomType:      rt.TypeName,
		BaseRate:      &baseRate,
		TaxesAndFees:  &taxes,
		TotalAfterTax: &total,
		Capacity: Capacity{
			MaxAdults:   rt.MaxAdults,
			MaxChildren: rt.MaxChildren,
			MaxTotal:    rt.MaxTotal,
		},
	}
}

// Availability reports the type as an availability entry.
func (rt RoomType) Availability() AvailabilityEntry {
	return AvailabilityEntry{
		RoomID:      strconv.FormatUint(uint64(rt.ID), 10),
		Unavailable: rt.Unavailable,
	}
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Property holds the hotel metadata and the booking policy (check-in/out, VAT).
type Property struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:255" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	Phone   string `gorm:"size:50" json:"phone"`
	Email   string `gorm:"size:150" json:"email"`
	Website string `gorm:"size:255" json:"website"`
	Logo    string `gorm:"size:255" json:"logo"`

	HotelStarRating int            `gorm:"column:hotel_star_rating" json:"hotelStarRating"`
	SocialLinks     datatypes.JSON `gorm:"column:social_links" json:"socialLinks,omitempty"`

	CheckInTime   string   `gorm:"column:check_in_time;size:5" json:"-"`
	CheckOutTime  string   `gorm:"column:check_out_time;size:5" json:"-"`
	VATPercentage *float64 `gorm:"column:vat_percentage" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VATPolicy struct {
	Percentage float64 `json:"percentage"`
}

// PropertyPolicy is the policy block as the booking front-end reads it.
type PropertyPolicy struct {
	CheckIn  string     `json:"checkIn,omitempty"`
	CheckOut string     `json:"checkOut,omitempty"`
	VAT      *VATPolicy `json:"vat,omitempty"`
}

func (p Property) Policy() PropertyPolicy {
	policy := PropertyPolicy{CheckIn: p.CheckInTime, CheckOut: p.CheckOutTime}
	if p.VATPercentage != nil {
		policy.VAT = &VATPolicy{Percentage: *p.VATPercentage}
	}
	return policy
}

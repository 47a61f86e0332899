package models

import (
	"time"

	"gorm.io/datatypes"
)

// SelectionState is the persisted selection of one browsing session.
// List-valued fields are stored as JSON documents.
type SelectionState struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	SessionKey string `gorm:"column:session_key;uniqueIndex;size:128" json:"sessionKey"`

	Rooms         datatypes.JSON `gorm:"column:rooms" json:"-"`
	Services      datatypes.JSON `gorm:"column:services" json:"-"`
	OriginalRooms datatypes.JSON `gorm:"column:original_rooms" json:"-"`
	GuestRooms    datatypes.JSON `gorm:"column:guest_rooms" json:"-"`

	Adults   int `gorm:"column:adults;default:1" json:"adults"`
	Children int `gorm:"column:children;default:0" json:"children"`

	StartDate *time.Time `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`

	CurrencyCode string `gorm:"column:currency_code;size:3;default:USD" json:"currencyCode"`
	Version      uint   `gorm:"column:version;default:0" json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

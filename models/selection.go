package models

import "time"

// Capacity is the guest limit of a single room. MaxTotal defaults to
// MaxAdults+MaxChildren when unset.
type Capacity struct {
	MaxAdults   int  `json:"maxAdults"`
	MaxChildren int  `json:"maxChildren"`
	MaxTotal    *int `json:"maxTotal,omitempty"`
}

func (c Capacity) Total() int {
	if c.MaxTotal != nil {
		return *c.MaxTotal
	}
	return c.MaxAdults + c.MaxChildren
}

// RoomSelection is one room added to a guest's selection. Monetary fields
// are VAT-inclusive and optional; a nil value counts as zero.
type RoomSelection struct {
	InstanceID string `json:"instanceId"`
	RoomID     string `json:"roomId,omitempty"`
	LegacyID   string `json:"_id,omitempty"`
	RoomType   string `json:"roomType,omitempty"`

	BaseRate      *float64 `json:"baseRate,omitempty"`
	TaxesAndFees  *float64 `json:"taxesAndFees,omitempty"`
	TotalAfterTax *float64 `json:"totalAfterTax,omitempty"`

	// PerNight is set for rooms priced per night; BaseRate is then
	// PerNight times the room's nights and follows date changes.
	PerNight *float64 `json:"perNight,omitempty"`

	Capacity Capacity `json:"capacity"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// ServiceSelection is one add-on service added to a selection.
type ServiceSelection struct {
	InstanceID     string   `json:"instanceId"`
	ServiceID      string   `json:"serviceId,omitempty"`
	Category       string   `json:"category,omitempty"`
	Name           string   `json:"name,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	VAT            *float64 `json:"vat,omitempty"`
	Transportation []string `json:"transportation,omitempty"`
}

type GuestCount struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// DateRange is shared by every room and service of a selection.
type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// CurrencyContext is a USD-relative exchange rate and when it was fetched.
type CurrencyContext struct {
	Code      string    `json:"currencyCode"`
	Rate      float64   `json:"exchangeRate"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// AvailabilityEntry is a row of a freshly fetched availability list.
type AvailabilityEntry struct {
	RoomID      string `json:"roomId,omitempty"`
	LegacyID    string `json:"_id,omitempty"`
	Unavailable bool   `json:"unavailable"`
}

package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AddOnService is an extra (breakfast, airport transfer, spa...) that can be
// added to a stay. Price is VAT-inclusive.
type AddOnService struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Category string  `gorm:"size:100;index" json:"category"`
	Name     string  `gorm:"size:255" json:"name"`
	Price    float64 `json:"price"`
	VAT      float64 `gorm:"column:vat" json:"vat"`

	// JSON array of transportation option labels, e.g. ["sedan","van"]
	Transportation datatypes.JSON `gorm:"column:transportation" json:"transportation,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TransportationOptions decodes the stored option labels. An empty column
// means no options.
func (s AddOnService) TransportationOptions() ([]string, error) {
	if len(s.Transportation) == 0 {
		return nil, nil
	}
	var options []string
	if err := json.Unmarshal(s.Transportation, &options); err != nil {
		return nil, fmt.Errorf("decode transportation of service %d: %w", s.ID, err)
	}
	return options, nil
}

func (s AddOnService) Selection() (ServiceSelection, error) {
	options, err := s.TransportationOptions()
	if err != nil {
		return ServiceSelection{}, err
	}

	price := s.Price
	vat := s.VAT
	return ServiceSelection{
		ServiceID:      strconv.FormatUint(uint64(s.ID), 10),
		Category:       s.Category,
		Name:           s.Name,
		Price:          &price,
		VAT:            &vat,
		Transportation: options,
	}, nil
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PropertyTypeRoom  = "room"
	PropertyTypeHouse = "house"
)

type Property struct {
	ID           int             `json:"id"`
	OwnerID      int             `json:"owner_id"`
	Title        string          `json:"title"`
	Location     string          `json:"location"`
	Price        decimal.Decimal `json:"price"`
	PropertyType string          `json:"property_type"`
	Description  string          `json:"description"`
	IsAvailable  bool            `json:"is_available"`
	ContactEmail string          `json:"contact_email"`
	ContactPhone *string         `json:"contact_phone,omitempty"`
	Image        *string         `json:"image,omitempty"`
	Images       []PropertyImage `json:"images,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PropertyTypeLabel is the human readable name of the listing type.
func (p Property) PropertyTypeLabel() string {
	switch p.PropertyType {
	case PropertyTypeRoom:
		return "Room"
	case PropertyTypeHouse:
		return "Entire House"
	}
	return p.PropertyType
}

// PropertyFilter narrows the public listing. Zero values mean "no filter".
type PropertyFilter struct {
	Location     string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	PropertyType string
}

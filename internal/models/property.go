package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Property struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Title         string                      `gorm:"type:varchar(200);not null" json:"title"`
	Description   string                      `gorm:"type:varchar(2000)" json:"description"`
	Address       string                      `gorm:"type:varchar(255);not null" json:"address"`
	City          string                      `gorm:"type:varchar(100);not null;index" json:"city"`
	Country       string                      `gorm:"type:varchar(100);not null;index" json:"country"`
	PricePerNight decimal.Decimal             `gorm:"type:numeric(10,2);not null" json:"price_per_night"`
	Bedrooms      int                         `gorm:"not null" json:"bedrooms"`
	Bathrooms     int                         `gorm:"not null" json:"bathrooms"`
	MaxGuests     int                         `gorm:"not null" json:"max_guests"`
	IsActive      bool                        `gorm:"not null" json:"is_active"`
	HostID        uint                        `gorm:"not null;index" json:"host_id"`
	ImageURLs     datatypes.JSONSlice[string] `gorm:"column:image_urls" json:"image_urls"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`

	Host *User `gorm:"foreignKey:HostID;constraint:OnDelete:RESTRICT" json:"-"`
}

// PropertyDraft carries the caller-supplied fields of a new listing.
type PropertyDraft struct {
	Title         string
	Description   string
	Address       string
	City          string
	Country       string
	PricePerNight decimal.Decimal
	Bedrooms      int
	Bathrooms     int
	MaxGuests     int
	ImageURLs     []string
}

// PropertyPatch is a field-wise update; nil fields are left untouched.
type PropertyPatch struct {
	Title         *string
	Description   *string
	Address       *string
	City          *string
	Country       *string
	PricePerNight *decimal.Decimal
	Bedrooms      *int
	Bathrooms     *int
	MaxGuests     *int
	IsActive      *bool
	ImageURLs     *[]string
}

// Apply copies every set field onto p. HostID is never touched.
func (patch PropertyPatch) Apply(p *Property) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.Country != nil {
		p.Country = *patch.Country
	}
	if patch.PricePerNight != nil {
		p.PricePerNight = *patch.PricePerNight
	}
	if patch.Bedrooms != nil {
		p.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		p.Bathrooms = *patch.Bathrooms
	}
	if patch.MaxGuests != nil {
		p.MaxGuests = *patch.MaxGuests
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if patch.ImageURLs != nil {
		p.ImageURLs = datatypes.JSONSlice[string](*patch.ImageURLs)
	}
}

// PropertyFilter narrows the active listing. City wins over Country.
type PropertyFilter struct {
	City    string
	Country string
}

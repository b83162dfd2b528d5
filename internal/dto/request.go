package dto

import (
	"time"

	"github.com/Eursukkul/staybook/internal/models"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Role      string `json:"role" validate:"omitempty,oneof=GUEST HOST"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=GUEST HOST ADMIN"`
}

type CreatePropertyRequest struct {
	Title         string          `json:"title" validate:"required,max=200"`
	Description   string          `json:"description" validate:"max=2000"`
	Address       string          `json:"address" validate:"required,max=255"`
	City          string          `json:"city" validate:"required,max=100"`
	Country       string          `json:"country" validate:"required,max=100"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	Bedrooms      int             `json:"bedrooms" validate:"gte=1"`
	Bathrooms     int             `json:"bathrooms" validate:"gte=1"`
	MaxGuests     int             `json:"max_guests" validate:"gte=1"`
	ImageURLs     []string        `json:"image_urls" validate:"omitempty,max=20,dive,url"`
}

func (r *CreatePropertyRequest) ToDraft() models.PropertyDraft {
	return models.PropertyDraft{
		Title:         r.Title,
		Description:   r.Description,
		Address:       r.Address,
		City:          r.City,
		Country:       r.Country,
		PricePerNight: r.PricePerNight,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		MaxGuests:     r.MaxGuests,
		ImageURLs:     r.ImageURLs,
	}
}

// UpdatePropertyRequest is a partial update: omitted fields stay as they are.
type UpdatePropertyRequest struct {
	Title         *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=2000"`
	Address       *string          `json:"address" validate:"omitempty,min=1,max=255"`
	City          *string          `json:"city" validate:"omitempty,min=1,max=100"`
	Country       *string          `json:"country" validate:"omitempty,min=1,max=100"`
	PricePerNight *decimal.Decimal `json:"price_per_night"`
	Bedrooms      *int             `json:"bedrooms" validate:"omitempty,gte=1"`
	Bathrooms     *int             `json:"bathrooms" validate:"omitempty,gte=1"`
	MaxGuests     *int             `json:"max_guests" validate:"omitempty,gte=1"`
	IsActive      *bool            `json:"is_active"`
	ImageURLs     *[]string        `json:"image_urls" validate:"omitempty,max=20,dive,url"`
}

func (r *UpdatePropertyRequest) ToPatch() models.PropertyPatch {
	return models.PropertyPatch{
		Title:         r.Title,
		Description:   r.Description,
		Address:       r.Address,
		City:          r.City,
		Country:       r.Country,
		PricePerNight: r.PricePerNight,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		MaxGuests:     r.MaxGuests,
		IsActive:      r.IsActive,
		ImageURLs:     r.ImageURLs,
	}
}

type CreateReservationRequest struct {
	PropertyID     uint   `json:"property_id" validate:"required"`
	CheckInDate    string `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOutDate   string `json:"check_out_date" validate:"required,datetime=2006-01-02"`
	NumberOfGuests int    `json:"number_of_guests" validate:"gte=1"`
}

// Dates parses the validated check-in and checkout strings.
func (r *CreateReservationRequest) Dates() (checkIn, checkOut time.Time, err error) {
	if checkIn, err = time.Parse(time.DateOnly, r.CheckInDate); err != nil {
		return
	}
	checkOut, err = time.Parse(time.DateOnly, r.CheckOutDate)
	return
}

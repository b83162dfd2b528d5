package dto

import (
	"encoding/json"
	"time"

	"github.com/Eursukkul/staybook/internal/models"
)

type UserResponse struct {
	ID        uint        `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type PropertyResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	PricePerNight string    `json:"price_per_night"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	MaxGuests     int       `json:"max_guests"`
	IsActive      bool      `json:"is_active"`
	HostID        uint      `json:"host_id"`
	ImageURLs     []string  `json:"image_urls"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ReservationResponse struct {
	ID             uint                     `json:"id"`
	PropertyID     uint                     `json:"property_id"`
	GuestID        uint                     `json:"guest_id"`
	CheckInDate    string                   `json:"check_in_date"`
	CheckOutDate   string                   `json:"check_out_date"`
	Nights         int                      `json:"nights"`
	NumberOfGuests int                      `json:"number_of_guests"`
	TotalPrice     string                   `json:"total_price"`
	Status         models.ReservationStatus `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
	Property       *PropertyResponse        `json:"property,omitempty"`
}

type AvailabilityResponse struct {
	PropertyID   uint   `json:"property_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Available    bool   `json:"available"`
}

type BusyRangeResponse struct {
	ReservationID uint   `json:"reservation_id"`
	CheckInDate   string `json:"check_in_date"`
	CheckOutDate  string `json:"check_out_date"`
}

type ActivityResponse struct {
	MessageID  string          `json:"message_id"`
	RoutingKey string          `json:"routing_key"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func ToPropertyResponse(p *models.Property) PropertyResponse {
	images := []string(p.ImageURLs)
	if images == nil {
		images = []string{}
	}
	return PropertyResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Address:       p.Address,
		City:          p.City,
		Country:       p.Country,
		PricePerNight: p.PricePerNight.StringFixed(2),
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		MaxGuests:     p.MaxGuests,
		IsActive:      p.IsActive,
		HostID:        p.HostID,
		ImageURLs:     images,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToReservationResponse(r *models.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:             r.ID,
		PropertyID:     r.PropertyID,
		GuestID:        r.GuestID,
		CheckInDate:    r.CheckInDate.Format(time.DateOnly),
		CheckOutDate:   r.CheckOutDate.Format(time.DateOnly),
		Nights:         models.Nights(r.CheckInDate, r.CheckOutDate),
		NumberOfGuests: r.NumberOfGuests,
		TotalPrice:     r.TotalPrice.StringFixed(2),
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Property != nil {
		p := ToPropertyResponse(r.Property)
		resp.Property = &p
	}
	return resp
}

func ToBusyRangeResponse(r *models.Reservation) BusyRangeResponse {
	return BusyRangeResponse{
		ReservationID: r.ID,
		CheckInDate:   r.CheckInDate.Format(time.DateOnly),
		CheckOutDate:  r.CheckOutDate.Format(time.DateOnly),
	}
}

func ToActivityResponse(a *models.ActivityEntry) ActivityResponse {
	return ActivityResponse{
		MessageID:  a.MessageID,
		RoutingKey: a.RoutingKey,
		Payload:    json.RawMessage(a.Payload),
		OccurredAt: a.OccurredAt,
	}
}

func ToReservationResponses(rs []models.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, len(rs))
	for i := range rs {
		resp[i] = ToReservationResponse(&rs[i])
	}
	return resp
}

func ToPropertyResponses(ps []models.Property) []PropertyResponse {
	resp := make([]PropertyResponse, len(ps))
	for i := range ps {
		resp[i] = ToPropertyResponse(&ps[i])
	}
	return resp
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCompleted ReservationStatus = "COMPLETED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ReservationStatus) IsTerminal() bool {
	return len(reservationTransitions[s]) == 0
}

type Reservation struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	PropertyID     uint              `gorm:"not null;index" json:"property_id"`
	GuestID        uint              `gorm:"not null;index" json:"guest_id"`
	CheckInDate    time.Time         `gorm:"type:date;not null" json:"check_in_date"`
	CheckOutDate   time.Time         `gorm:"type:date;not null" json:"check_out_date"`
	NumberOfGuests int               `gorm:"not null" json:"number_of_guests"`
	TotalPrice     decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"total_price"`
	Status         ReservationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	Property *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:RESTRICT" json:"property,omitempty"`
	Guest    *User     `gorm:"foreignKey:GuestID;constraint:OnDelete:RESTRICT" json:"-"`
}

// Overlaps reports whether r collides with [checkIn, checkOut].
// Both ends are inclusive, so a checkout day collides with a check-in on the same day.
func (r *Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return RangesOverlap(r.CheckInDate, r.CheckOutDate, checkIn, checkOut)
}

func RangesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return !aIn.After(bOut) && !aOut.Before(bIn)
}

// DateOf truncates t to its calendar day at 00:00 UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights is the whole-day count between two calendar dates. It does not go
// through time.Duration, which saturates after about 292 years.
func Nights(checkIn, checkOut time.Time) int {
	return int((DateOf(checkOut).Unix() - DateOf(checkIn).Unix()) / 86400)
}

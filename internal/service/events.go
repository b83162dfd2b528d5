package service

import (
	"log"
	"time"

	"github.com/Eursukkul/staybook/internal/models"
	"github.com/shopspring/decimal"
)

// EventPublisher delivers domain events after a successful commit.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

const (
	EventReservationCreated   = "reservation.created"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCompleted = "reservation.completed"
	EventReservationCancelled = "reservation.cancelled"
	EventPropertyCreated      = "property.created"
	EventPropertyUpdated      = "property.updated"
	EventPropertyDeleted      = "property.deleted"
)

type ReservationEvent struct {
	ReservationID uint                     `json:"reservation_id"`
	PropertyID    uint                     `json:"property_id"`
	GuestID       uint                     `json:"guest_id"`
	CheckInDate   string                   `json:"check_in_date"`
	CheckOutDate  string                   `json:"check_out_date"`
	TotalPrice    decimal.Decimal          `json:"total_price"`
	Status        models.ReservationStatus `json:"status"`
	ActorID       uint                     `json:"actor_id"`
	OccurredAt    time.Time                `json:"occurred_at"`
}

type PropertyEvent struct {
	PropertyID uint      `json:"property_id"`
	HostID     uint      `json:"host_id"`
	Title      string    `json:"title"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	IsActive   bool      `json:"is_active"`
	ActorID    uint      `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newReservationEvent(r *models.Reservation, actor models.Actor, at time.Time) ReservationEvent {
	return ReservationEvent{
		ReservationID: r.ID,
		PropertyID:    r.PropertyID,
		GuestID:       r.GuestID,
		CheckInDate:   r.CheckInDate.Format(time.DateOnly),
		CheckOutDate:  r.CheckOutDate.Format(time.DateOnly),
		TotalPrice:    r.TotalPrice,
		Status:        r.Status,
		ActorID:       actor.UserID,
		OccurredAt:    at,
	}
}

func newPropertyEvent(p *models.Property, actor models.Actor, at time.Time) PropertyEvent {
	return PropertyEvent{
		PropertyID: p.ID,
		HostID:     p.HostID,
		Title:      p.Title,
		City:       p.City,
		Country:    p.Country,
		IsActive:   p.IsActive,
		ActorID:    actor.UserID,
		OccurredAt: at,
	}
}

// publish is best effort; the operation has already committed.
func publish(p EventPublisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(routingKey, payload); err != nil {
		log.Printf("[Events] failed to publish %s: %v", routingKey, err)
	}
}

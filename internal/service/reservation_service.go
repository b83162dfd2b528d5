package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Eursukkul/staybook/internal/models"
	"github.com/Eursukkul/staybook/internal/repository"
	"github.com/Eursukkul/staybook/pkg/database"
	"gorm.io/gorm"
)

// ReservationService owns availability, pricing and the reservation lifecycle.
// Every mutation runs in one transaction that holds the property row lock.
type ReservationService struct {
	reservationRepo repository.ReservationRepository
	propertyRepo    repository.PropertyRepository
	publisher       EventPublisher
	clock           func() time.Time
}

func NewReservationService(reservationRepo repository.ReservationRepository, propertyRepo repository.PropertyRepository, publisher EventPublisher) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		propertyRepo:    propertyRepo,
		publisher:       publisher,
		clock:           time.Now,
	}
}

// WithClock replaces the time source used to decide what "today" is.
func (s *ReservationService) WithClock(clock func() time.Time) *ReservationService {
	s.clock = clock
	return s
}

type CreateReservationInput struct {
	PropertyID     uint
	CheckIn        time.Time
	CheckOut       time.Time
	NumberOfGuests int
}

func (s *ReservationService) CreateReservation(ctx context.Context, in CreateReservationInput, guest models.Actor) (*models.Reservation, error) {
	if !CanCreateReservation(guest.Role) {
		return nil, ErrPermissionDenied
	}
	checkIn, checkOut := models.DateOf(in.CheckIn), models.DateOf(in.CheckOut)
	if in.NumberOfGuests < 1 {
		return nil, fmt.Errorf("%w: number of guests must be at least 1", ErrInvalidInput)
	}

	var result *models.Reservation

	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the property row: serializes check-then-insert per property
		property, err := s.propertyRepo.FindByIDForUpdate(ctx, tx, in.PropertyID)
		if err != nil {
			return notFound(err, ErrPropertyNotFound)
		}

		// 2. Business rules, in order
		if property.HostID == guest.UserID {
			return ErrSelfBooking
		}
		if !property.IsActive {
			return ErrPropertyInactive
		}
		today := models.DateOf(s.clock())
		if checkIn.Before(today) || !checkOut.After(checkIn) || models.Nights(checkIn, checkOut) > MaxStayNights {
			return ErrInvalidDateRange
		}
		if in.NumberOfGuests > property.MaxGuests {
			return ErrCapacityExceeded
		}

		// 3. Availability against CONFIRMED reservations
		available, err := s.availableWithin(ctx, tx, property, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if !available {
			return ErrNotAvailable
		}

		// 4. Price and persist
		total, err := CalculateTotalPrice(property.PricePerNight, checkIn, checkOut)
		if err != nil {
			return err
		}
		reservation := &models.Reservation{
			PropertyID:     property.ID,
			GuestID:        guest.UserID,
			CheckInDate:    checkIn,
			CheckOutDate:   checkOut,
			NumberOfGuests: in.NumberOfGuests,
			TotalPrice:     total,
			Status:         models.StatusPending,
		}
		if err := s.reservationRepo.Create(ctx, tx, reservation); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}
		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(s.publisher, EventReservationCreated, newReservationEvent(result, guest, result.CreatedAt))
	return result, nil
}

// ConfirmReservation moves a PENDING reservation to CONFIRMED. The dates are
// re-checked against other CONFIRMED reservations because PENDING never blocks.
func (s *ReservationService) ConfirmReservation(ctx context.Context, id uint, actor models.Actor) (*models.Reservation, error) {
	return s.transition(ctx, id, actor, models.StatusConfirmed, EventReservationConfirmed,
		func(tx *gorm.DB, r *models.Reservation, p *models.Property) error {
			if !CanManageAsOwnerOrAdmin(actor, p.HostID) {
				return ErrPermissionDenied
			}
			if r.Status != models.StatusPending {
				return ErrInvalidTransition
			}
			available, err := s.availableWithin(ctx, tx, p, r.CheckInDate, r.CheckOutDate, r.ID)
			if err != nil {
				return err
			}
			if !available {
				return ErrNotAvailable
			}
			return nil
		})
}

func (s *ReservationService) CompleteReservation(ctx context.Context, id uint, actor models.Actor) (*models.Reservation, error) {
	return s.transition(ctx, id, actor, models.StatusCompleted, EventReservationCompleted,
		func(_ *gorm.DB, r *models.Reservation, p *models.Property) error {
			if !CanManageAsOwnerOrAdmin(actor, p.HostID) {
				return ErrPermissionDenied
			}
			if r.Status != models.StatusConfirmed {
				return ErrInvalidTransition
			}
			return nil
		})
}

func (s *ReservationService) CancelReservation(ctx context.Context, id uint, actor models.Actor) (*models.Reservation, error) {
	return s.transition(ctx, id, actor, models.StatusCancelled, EventReservationCancelled,
		func(_ *gorm.DB, r *models.Reservation, p *models.Property) error {
			if actor.UserID != r.GuestID && !CanManageAsOwnerOrAdmin(actor, p.HostID) {
				return ErrPermissionDenied
			}
			if !r.Status.CanTransitionTo(models.StatusCancelled) {
				return ErrInvalidTransition
			}
			return nil
		})
}

type transitionCheck func(tx *gorm.DB, r *models.Reservation, p *models.Property) error

func (s *ReservationService) transition(ctx context.Context, id uint, actor models.Actor, next models.ReservationStatus, event string, check transitionCheck) (*models.Reservation, error) {
	var result *models.Reservation

	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.reservationRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrReservationNotFound)
		}
		property, err := s.propertyRepo.FindByIDForUpdate(ctx, tx, reservation.PropertyID)
		if err != nil {
			return notFound(err, ErrPropertyNotFound)
		}

		if err := check(tx, reservation, property); err != nil {
			return err
		}

		if err := s.reservationRepo.UpdateStatus(ctx, tx, reservation, next); err != nil {
			if database.IsExclusionViolation(err) {
				return ErrNotAvailable
			}
			return fmt.Errorf("update reservation status: %w", err)
		}
		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(s.publisher, event, newReservationEvent(result, actor, result.UpdatedAt))
	return result, nil
}

// IsPropertyAvailable reports whether no CONFIRMED reservation collides with the
// requested dates. Inactive properties are never available.
func (s *ReservationService) IsPropertyAvailable(ctx context.Context, propertyID uint, checkIn, checkOut time.Time) (bool, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return false, notFound(err, ErrPropertyNotFound)
	}
	return s.availableWithin(ctx, s.reservationRepo.GetDB(), property, models.DateOf(checkIn), models.DateOf(checkOut), 0)
}

// availableWithin runs the overlap query on tx, ignoring the reservation with id exclude.
func (s *ReservationService) availableWithin(ctx context.Context, tx *gorm.DB, property *models.Property, checkIn, checkOut time.Time, exclude uint) (bool, error) {
	if !property.IsActive {
		return false, nil
	}
	overlapping, err := s.reservationRepo.FindOverlapping(ctx, tx, property.ID, models.StatusConfirmed, checkIn, checkOut)
	if err != nil {
		return false, fmt.Errorf("query overlapping reservations: %w", err)
	}
	for _, r := range overlapping {
		if r.ID != exclude {
			return false, nil
		}
	}
	return true, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReservationNotFound)
	}
	return reservation, nil
}

func (s *ReservationService) ListByGuest(ctx context.Context, guestID uint) ([]models.Reservation, error) {
	return s.reservationRepo.FindByGuest(ctx, guestID)
}

func (s *ReservationService) ListByHost(ctx context.Context, hostID uint) ([]models.Reservation, error) {
	return s.reservationRepo.FindByHost(ctx, hostID)
}

func (s *ReservationService) ListByProperty(ctx context.Context, propertyID uint) ([]models.Reservation, error) {
	if _, err := s.propertyRepo.FindByID(ctx, propertyID); err != nil {
		return nil, notFound(err, ErrPropertyNotFound)
	}
	return s.reservationRepo.FindByProperty(ctx, propertyID, nil)
}

// BusyDates lists the CONFIRMED stays of a property.
func (s *ReservationService) BusyDates(ctx context.Context, propertyID uint) ([]models.Reservation, error) {
	if _, err := s.propertyRepo.FindByID(ctx, propertyID); err != nil {
		return nil, notFound(err, ErrPropertyNotFound)
	}
	confirmed := models.StatusConfirmed
	return s.reservationRepo.FindByProperty(ctx, propertyID, &confirmed)
}

func (s *ReservationService) ListAll(ctx context.Context, status *models.ReservationStatus, actor models.Actor) ([]models.Reservation, error) {
	if !IsAdmin(actor) {
		return nil, ErrPermissionDenied
	}
	return s.reservationRepo.FindAll(ctx, status)
}

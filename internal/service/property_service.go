package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/staybook/internal/models"
	"github.com/Eursukkul/staybook/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PropertyService struct {
	propertyRepo    repository.PropertyRepository
	reservationRepo repository.ReservationRepository
	publisher       EventPublisher
}

func NewPropertyService(propertyRepo repository.PropertyRepository, reservationRepo repository.ReservationRepository, publisher EventPublisher) *PropertyService {
	return &PropertyService{
		propertyRepo:    propertyRepo,
		reservationRepo: reservationRepo,
		publisher:       publisher,
	}
}

func (s *PropertyService) CreateProperty(ctx context.Context, draft models.PropertyDraft, actor models.Actor) (*models.Property, error) {
	if !CanCreateProperty(actor.Role) {
		return nil, ErrPermissionDenied
	}
	if err := validateListing(draft.PricePerNight.IsPositive(), draft.Bedrooms, draft.Bathrooms, draft.MaxGuests); err != nil {
		return nil, err
	}

	property := &models.Property{
		Title:         draft.Title,
		Description:   draft.Description,
		Address:       draft.Address,
		City:          draft.City,
		Country:       draft.Country,
		PricePerNight: draft.PricePerNight,
		Bedrooms:      draft.Bedrooms,
		Bathrooms:     draft.Bathrooms,
		MaxGuests:     draft.MaxGuests,
		IsActive:      true,
		HostID:        actor.UserID,
		ImageURLs:     datatypes.JSONSlice[string](draft.ImageURLs),
	}

	if err := s.propertyRepo.Create(ctx, s.propertyRepo.GetDB(), property); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	publish(s.publisher, EventPropertyCreated, newPropertyEvent(property, actor, property.CreatedAt))
	return property, nil
}

func (s *PropertyService) UpdateProperty(ctx context.Context, id uint, patch models.PropertyPatch, actor models.Actor) (*models.Property, error) {
	var result *models.Property

	err := s.propertyRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		property, err := s.propertyRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrPropertyNotFound)
		}
		if !CanManageAsOwnerOrAdmin(actor, property.HostID) {
			return ErrPermissionDenied
		}

		patch.Apply(property)
		if err := validateListing(property.PricePerNight.IsPositive(), property.Bedrooms, property.Bathrooms, property.MaxGuests); err != nil {
			return err
		}

		if err := s.propertyRepo.Save(ctx, tx, property); err != nil {
			return fmt.Errorf("save property: %w", err)
		}
		result = property
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(s.publisher, EventPropertyUpdated, newPropertyEvent(result, actor, result.UpdatedAt))
	return result, nil
}

// DeleteProperty removes a listing together with its cancelled reservations.
// Any other reservation blocks the deletion.
func (s *PropertyService) DeleteProperty(ctx context.Context, id uint, actor models.Actor) error {
	var deleted *models.Property

	err := s.propertyRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		property, err := s.propertyRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrPropertyNotFound)
		}
		if !CanManageAsOwnerOrAdmin(actor, property.HostID) {
			return ErrPermissionDenied
		}

		active, err := s.reservationRepo.CountActiveByProperty(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("count reservations: %w", err)
		}
		if active > 0 {
			return ErrHasActiveBookings
		}

		if err := s.reservationRepo.DeleteByProperty(ctx, tx, id); err != nil {
			return fmt.Errorf("delete cancelled reservations: %w", err)
		}
		if err := s.propertyRepo.Delete(ctx, tx, id); err != nil {
			return fmt.Errorf("delete property: %w", err)
		}
		deleted = property
		return nil
	})
	if err != nil {
		return err
	}

	publish(s.publisher, EventPropertyDeleted, newPropertyEvent(deleted, actor, time.Now().UTC()))
	return nil
}

func (s *PropertyService) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPropertyNotFound)
	}
	return property, nil
}

func (s *PropertyService) ListActive(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	return s.propertyRepo.FindActive(ctx, filter)
}

func (s *PropertyService) ListByHost(ctx context.Context, hostID uint) ([]models.Property, error) {
	return s.propertyRepo.FindByHost(ctx, hostID)
}

func (s *PropertyService) ListAll(ctx context.Context, actor models.Actor) ([]models.Property, error) {
	if !IsAdmin(actor) {
		return nil, ErrPermissionDenied
	}
	return s.propertyRepo.FindAll(ctx)
}

// IsOwner reports whether userID hosts the property. Missing properties are not owned.
func (s *PropertyService) IsOwner(ctx context.Context, propertyID, userID uint) (bool, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return property.HostID == userID, nil
}

func validateListing(positivePrice bool, bedrooms, bathrooms, maxGuests int) error {
	if !positivePrice {
		return fmt.Errorf("%w: price per night must be positive", ErrInvalidInput)
	}
	if bedrooms < 1 || bathrooms < 1 || maxGuests < 1 {
		return fmt.Errorf("%w: bedrooms, bathrooms and max guests must be at least 1", ErrInvalidInput)
	}
	return nil
}

// notFound maps a missing row to the typed error and wraps everything else.
func notFound(err, typed error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return typed
	}
	return fmt.Errorf("load: %w", err)
}

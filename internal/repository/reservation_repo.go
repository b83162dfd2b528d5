package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/staybook/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, reservation *models.Reservation, status models.ReservationStatus) error
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error)
	FindByGuest(ctx context.Context, guestID uint) ([]models.Reservation, error)
	FindByProperty(ctx context.Context, propertyID uint, status *models.ReservationStatus) ([]models.Reservation, error)
	FindByHost(ctx context.Context, hostID uint) ([]models.Reservation, error)
	FindAll(ctx context.Context, status *models.ReservationStatus) ([]models.Reservation, error)
	FindOverlapping(ctx context.Context, tx *gorm.DB, propertyID uint, status models.ReservationStatus, checkIn, checkOut time.Time) ([]models.Reservation, error)
	CountActiveByProperty(ctx context.Context, tx *gorm.DB, propertyID uint) (int64, error)
	CountByGuest(ctx context.Context, tx *gorm.DB, guestID uint) (int64, error)
	DeleteByProperty(ctx context.Context, tx *gorm.DB, propertyID uint) error
	GetDB() *gorm.DB
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *reservationRepository) Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(reservation).Error
}

// UpdateStatus writes the new status and refreshes UpdatedAt on the passed entity.
func (r *reservationRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, reservation *models.Reservation, status models.ReservationStatus) error {
	if err := tx.WithContext(ctx).
		Model(reservation).
		Update("status", status).Error; err != nil {
		return err
	}
	reservation.Status = status
	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindByIDForUpdate acquires a row-level lock on the reservation within the given transaction.
func (r *reservationRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) FindByGuest(ctx context.Context, guestID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("check_in_date ASC, id ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) FindByProperty(ctx context.Context, propertyID uint, status *models.ReservationStatus) ([]models.Reservation, error) {
	var reservations []models.Reservation
	q := r.db.WithContext(ctx).Where("property_id = ?", propertyID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("check_in_date ASC, id ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindByHost returns reservations on every property the host owns.
func (r *reservationRepository) FindByHost(ctx context.Context, hostID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := r.db.WithContext(ctx).
		Joins("JOIN properties ON properties.id = reservations.property_id").
		Where("properties.host_id = ?", hostID).
		Order("reservations.check_in_date ASC, reservations.id ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) FindAll(ctx context.Context, status *models.ReservationStatus) ([]models.Reservation, error) {
	var reservations []models.Reservation
	q := r.db.WithContext(ctx).Preload("Property")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("id ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindOverlapping returns reservations in the given status whose dates collide with
// [checkIn, checkOut], boundaries inclusive.
func (r *reservationRepository) FindOverlapping(ctx context.Context, tx *gorm.DB, propertyID uint, status models.ReservationStatus, checkIn, checkOut time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := tx.WithContext(ctx).
		Where("property_id = ? AND status = ?", propertyID, status).
		Where("check_in_date <= ? AND check_out_date >= ?", checkOut, checkIn).
		Order("check_in_date ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// CountActiveByProperty counts reservations that are not cancelled.
func (r *reservationRepository) CountActiveByProperty(ctx context.Context, tx *gorm.DB, propertyID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("property_id = ? AND status <> ?", propertyID, models.StatusCancelled).
		Count(&count).Error
	return count, err
}

func (r *reservationRepository) CountByGuest(ctx context.Context, tx *gorm.DB, guestID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("guest_id = ?", guestID).
		Count(&count).Error
	return count, err
}

func (r *reservationRepository) DeleteByProperty(ctx context.Context, tx *gorm.DB, propertyID uint) error {
	return tx.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Delete(&models.Reservation{}).Error
}

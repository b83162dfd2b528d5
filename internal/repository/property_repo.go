package repository

import (
	"context"

	"github.com/Eursukkul/staybook/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PropertyRepository interface {
	Create(ctx context.Context, tx *gorm.DB, property *models.Property) error
	Save(ctx context.Context, tx *gorm.DB, property *models.Property) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Property, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error)
	FindActive(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error)
	FindAll(ctx context.Context) ([]models.Property, error)
	FindByHost(ctx context.Context, hostID uint) ([]models.Property, error)
	CountByHost(ctx context.Context, tx *gorm.DB, hostID uint) (int64, error)
	GetDB() *gorm.DB
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *propertyRepository) Create(ctx context.Context, tx *gorm.DB, property *models.Property) error {
	return tx.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) Save(ctx context.Context, tx *gorm.DB, property *models.Property) error {
	return tx.WithContext(ctx).Omit("Host").Save(property).Error
}

func (r *propertyRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.Property{}, id).Error
}

func (r *propertyRepository) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	if err := r.db.WithContext(ctx).First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// FindByIDForUpdate acquires a row-level lock on the property within the given transaction.
// Reservation writes for one property serialize on this lock.
func (r *propertyRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error) {
	var property models.Property
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) FindActive(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	var properties []models.Property
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	switch {
	case filter.City != "":
		q = q.Where("city = ?", filter.City)
	case filter.Country != "":
		q = q.Where("country = ?", filter.Country)
	}
	if err := q.Order("id ASC").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) FindAll(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) FindByHost(ctx context.Context, hostID uint) ([]models.Property, error) {
	var properties []models.Property
	if err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("id ASC").
		Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) CountByHost(ctx context.Context, tx *gorm.DB, hostID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Property{}).
		Where("host_id = ?", hostID).
		Count(&count).Error
	return count, err
}

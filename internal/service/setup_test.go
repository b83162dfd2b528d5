package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Eursukkul/staybook/internal/models"
	"github.com/Eursukkul/staybook/internal/repository"
	"github.com/Eursukkul/staybook/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedToday = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// --- Recording publisher ---

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return p.err
}

func (p *recordingPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

// --- Fixture ---

type fixture struct {
	db           *gorm.DB
	publisher    *recordingPublisher
	properties   *PropertyService
	reservations *ReservationService
	users        *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewSQLiteDB("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	pub := &recordingPublisher{}

	return &fixture{
		db:           db,
		publisher:    pub,
		properties:   NewPropertyService(propertyRepo, reservationRepo, pub),
		reservations: NewReservationService(reservationRepo, propertyRepo, pub).WithClock(func() time.Time { return fixedToday }),
		users:        NewUserService(userRepo, propertyRepo, reservationRepo),
	}
}

var userSeq int

func (f *fixture) user(t *testing.T, role models.Role) models.Actor {
	t.Helper()
	userSeq++
	u := &models.User{
		Email:        fmt.Sprintf("user%d@staybook.io", userSeq),
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     string(role),
		Role:         role,
	}
	require.NoError(t, f.db.Create(u).Error)
	return u.Actor()
}

func (f *fixture) property(t *testing.T, host models.Actor, price int64, maxGuests int) *models.Property {
	t.Helper()
	p, err := f.properties.CreateProperty(context.Background(), models.PropertyDraft{
		Title:         "Riverside loft",
		Address:       "1 Charoen Krung Rd",
		City:          "Bangkok",
		Country:       "Thailand",
		PricePerNight: decimal.NewFromInt(price),
		Bedrooms:      1,
		Bathrooms:     1,
		MaxGuests:     maxGuests,
	}, host)
	require.NoError(t, err)
	return p
}

func (f *fixture) reserve(t *testing.T, propertyID uint, in, out string, guest models.Actor) *models.Reservation {
	t.Helper()
	r, err := f.reservations.CreateReservation(context.Background(), CreateReservationInput{
		PropertyID:     propertyID,
		CheckIn:        date(in),
		CheckOut:       date(out),
		NumberOfGuests: 1,
	}, guest)
	require.NoError(t, err)
	return r
}

func (f *fixture) setStatus(t *testing.T, id uint, status models.ReservationStatus) {
	t.Helper()
	require.NoError(t, f.db.Model(&models.Reservation{}).Where("id = ?", id).Update("status", status).Error)
}

func (f *fixture) status(t *testing.T, id uint) models.ReservationStatus {
	t.Helper()
	var r models.Reservation
	require.NoError(t, f.db.First(&r, id).Error)
	return r.Status
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Eursukkul/staybook/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Host H lists P at 100/night for 2 guests. G books Jun 1-3, H confirms, G2 collides.
func TestReservationLifecycle_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, models.RoleHost)
	guest := f.user(t, models.RoleGuest)
	guest2 := f.user(t, models.RoleGuest)
	p := f.property(t, host, 100, 2)

	r, err := f.reservations.CreateReservation(ctx, CreateReservationInput{
		PropertyID: p.ID, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-03"), NumberOfGuests: 2,
	}, guest)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, r.Status)
	assert.Equal(t, "200.00", r.TotalPrice.StringFixed(2))

	confirmed, err := f.reservations.ConfirmReservation(ctx, r.ID, host)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)

	_, err = f.reservations.CreateReservation(ctx, CreateReservationInput{
		PropertyID: p.ID, CheckIn: date("2024-06-02"), CheckOut: date("2024-06-04"), NumberOfGuests: 1,
	}, guest2)
	assert.ErrorIs(t, err, ErrNotAvailable)

	// checkout day and check-in day coincide: collides under the inclusive test
	_, err = f.reservations.CreateReservation(ctx, CreateReservationInput{
		PropertyID: p.ID, CheckIn: date("2024-06-03"), CheckOut: date("2024-06-05"), NumberOfGuests: 1,
	}, guest2)
	assert.ErrorIs(t, err, ErrNotAvailable)

	later, err := f.reservations.CreateReservation(ctx, CreateReservationInput{
		PropertyID: p.ID, CheckIn: date("2024-06-04"), CheckOut: date("2024-06-06"), NumberOfGuests: 1,
	}, guest2)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, later.Status)

	assert.Equal(t, []string{
		EventPropertyCreated, EventReservationCreated, EventReservationConfirmed, EventReservationCreated,
	}, f.publisher.Keys())
}

func TestCreateReservation_Rules(t *testing.T) {
	f := newFixture(t)
	host := f.user(t, models.RoleHost)
	otherHost := f.user(t, models.RoleHost)
	guest := f.user(t, models.RoleGuest)
	admin := f.user(t, models.RoleAdmin)
	p := f.property(t, host, 100, 2)
	adminListing := f.property(t, admin, 100, 2)

	inactive := f.property(t, host, 100, 2)
	off := false
	_, err := f.properties.UpdateProperty(context.Background(), inactive.ID, models.PropertyPatch{IsActive: &off}, host)
	require.NoError(t, err)

	tests := []struct {
		name   string
		in     CreateReservationInput
		actor  models.Actor
		expect error
	}{
		{"missing property", CreateReservationInput{PropertyID: 999, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-02"), NumberOfGuests: 1}, guest, ErrPropertyNotFound},
		{"host books another host's listing", CreateReservationInput{PropertyID: p.ID, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-03"), NumberOfGuests: 1}, otherHost, ErrPermissionDenied},
		{"host books own listing", CreateReservationInput{PropertyID: p.ID, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-02"), NumberOfGuests: 1}, host, ErrPermissionDenied},
		{"admin books own listing", CreateReservationInput{PropertyID: adminListing.ID, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-02"), NumberOfGuests: 1}, admin, ErrSelfBooking},
		{"stay over a year", CreateReservationInput{PropertyID: p.ID, CheckIn: date("2024-06-01"), CheckOut: date("2025-06-02"), NumberOfGuests: 1}, guest, ErrInvalidDateRange},
		{"far-future checkout", CreateReservationInput{PropertyID: p.ID, CheckIn: date("2024-06-01"), CheckOut: date("9999-06-01"), NumberOfGuests: 1}, guest, ErrInvalidDateRange},
		{"inactive listing", CreateReservationInput{PropertyID: inactive.ID, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-02"), NumberOfGuests: 1}, guest, ErrPropertyInactive},
		{"check-in in the past", CreateReservationInput{PropertyID: p.ID, CheckIn: date("2024-04-30"), CheckOut: date("2024-05-02"), NumberOfGuests: 1}, guest, ErrInvalidDateRange},
		{"checkout equals check-in", CreateReservationInput{PropertyID: p.ID, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-01"), NumberOfGuests: 1}, guest, ErrInvalidDateRange},
		{"checkout before check-in", CreateReservationInput{PropertyID: p.ID, CheckIn: date("2024-06-05"), CheckOut: date("2024-06-01"), NumberOfGuests: 1}, guest, ErrInvalidDateRange},
		{"too many guests", CreateReservationInput{PropertyID: p.ID, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-02"), NumberOfGuests: 3}, guest, ErrCapacityExceeded},
		{"no guests", CreateReservationInput{PropertyID: p.ID, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-02"), NumberOfGuests: 0}, guest, ErrInvalidInput},
		// self-booking is reported before the date checks
		{"rule order", CreateReservationInput{PropertyID: adminListing.ID, CheckIn: date("2024-06-05"), CheckOut: date("2024-06-01"), NumberOfGuests: 9}, admin, ErrSelfBooking},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := f.reservations.CreateReservation(context.Background(), tt.in, tt.actor)
			assert.ErrorIs(t, err, tt.expect)
			assert.Nil(t, r)
		})
	}
}

func TestCreateReservation_TodayIsBookable(t *testing.T) {
	f := newFixture(t)
	host := f.user(t, models.RoleHost)
	guest := f.user(t, models.RoleGuest)
	p := f.property(t, host, 80, 2)

	r := f.reserve(t, p.ID, "2024-05-01", "2024-05-02", guest)
	assert.Equal(t, "80.00", r.TotalPrice.StringFixed(2))
}

func TestCreateReservation_PendingDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	host := f.user(t, models.RoleHost)
	p := f.property(t, host, 100, 2)

	a := f.reserve(t, p.ID, "2024-06-01", "2024-06-05", f.user(t, models.RoleGuest))
	b := f.reserve(t, p.ID, "2024-06-02", "2024-06-04", f.user(t, models.RoleGuest))

	assert.Equal(t, models.StatusPending, a.Status)
	assert.Equal(t, models.StatusPending, b.Status)

	// first confirmation wins, the second collides
	_, err := f.reservations.ConfirmReservation(context.Background(), a.ID, host)
	require.NoError(t, err)
	_, err = f.reservations.ConfirmReservation(context.Background(), b.ID, host)
	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.Equal(t, models.StatusPending, f.status(t, b.ID))
}

func TestConfirmReservation(t *testing.T) {
	f := newFixture(t)
	host := f.user(t, models.RoleHost)
	otherHost := f.user(t, models.RoleHost)
	admin := f.user(t, models.RoleAdmin)
	guest := f.user(t, models.RoleGuest)
	p := f.property(t, host, 100, 2)

	t.Run("not found", func(t *testing.T) {
		_, err := f.reservations.ConfirmReservation(context.Background(), 999, host)
		assert.ErrorIs(t, err, ErrReservationNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("guest cannot confirm", func(t *testing.T) {
		r := f.reserve(t, p.ID, "2024-06-01", "2024-06-02", guest)
		_, err := f.reservations.ConfirmReservation(context.Background(), r.ID, guest)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("other host cannot confirm", func(t *testing.T) {
		r := f.reserve(t, p.ID, "2024-06-10", "2024-06-11", guest)
		_, err := f.reservations.ConfirmReservation(context.Background(), r.ID, otherHost)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("cancelled cannot be confirmed", func(t *testing.T) {
		r := f.reserve(t, p.ID, "2024-07-01", "2024-07-02", guest)
		f.setStatus(t, r.ID, models.StatusCancelled)
		_, err := f.reservations.ConfirmReservation(context.Background(), r.ID, host)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("admin confirms pending", func(t *testing.T) {
		r := f.reserve(t, p.ID, "2024-08-01", "2024-08-03", guest)
		got, err := f.reservations.ConfirmReservation(context.Background(), r.ID, admin)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, got.Status)
		assert.Equal(t, models.StatusConfirmed, f.status(t, r.ID))

		_, err = f.reservations.ConfirmReservation(context.Background(), r.ID, admin)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestCompleteReservation(t *testing.T) {
	f := newFixture(t)
	host := f.user(t, models.RoleHost)
	guest := f.user(t, models.RoleGuest)
	p := f.property(t, host, 100, 2)

	r := f.reserve(t, p.ID, "2024-06-01", "2024-06-02", guest)

	_, err := f.reservations.CompleteReservation(context.Background(), r.ID, host)
	assert.ErrorIs(t, err, ErrInvalidTransition, "pending cannot complete")

	_, err = f.reservations.ConfirmReservation(context.Background(), r.ID, host)
	require.NoError(t, err)

	_, err = f.reservations.CompleteReservation(context.Background(), r.ID, guest)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	got, err := f.reservations.CompleteReservation(context.Background(), r.ID, host)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	_, err = f.reservations.CancelReservation(context.Background(), r.ID, host)
	assert.ErrorIs(t, err, ErrInvalidTransition, "completed is terminal")
}

func TestCancelReservation(t *testing.T) {
	f := newFixture(t)
	host := f.user(t, models.RoleHost)
	guest := f.user(t, models.RoleGuest)
	stranger := f.user(t, models.RoleGuest)
	admin := f.user(t, models.RoleAdmin)
	p := f.property(t, host, 100, 2)

	t.Run("stranger is denied", func(t *testing.T) {
		r := f.reserve(t, p.ID, "2024-06-01", "2024-06-02", guest)
		_, err := f.reservations.CancelReservation(context.Background(), r.ID, stranger)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.Equal(t, models.StatusPending, f.status(t, r.ID))
	})

	for name, actor := range map[string]models.Actor{"guest": guest, "host": host, "admin": admin} {
		t.Run(name+" cancels", func(t *testing.T) {
			r := f.reserve(t, p.ID, "2024-09-01", "2024-09-02", guest)
			got, err := f.reservations.CancelReservation(context.Background(), r.ID, actor)
			require.NoError(t, err)
			assert.Equal(t, models.StatusCancelled, got.Status)
		})
	}

	t.Run("confirmed can be cancelled and frees the dates", func(t *testing.T) {
		r := f.reserve(t, p.ID, "2024-10-01", "2024-10-03", guest)
		_, err := f.reservations.ConfirmReservation(context.Background(), r.ID, host)
		require.NoError(t, err)

		ok, err := f.reservations.IsPropertyAvailable(context.Background(), p.ID, date("2024-10-02"), date("2024-10-04"))
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = f.reservations.CancelReservation(context.Background(), r.ID, guest)
		require.NoError(t, err)

		ok, err = f.reservations.IsPropertyAvailable(context.Background(), p.ID, date("2024-10-02"), date("2024-10-04"))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("cancelled twice", func(t *testing.T) {
		r := f.reserve(t, p.ID, "2024-11-01", "2024-11-02", guest)
		_, err := f.reservations.CancelReservation(context.Background(), r.ID, guest)
		require.NoError(t, err)
		_, err = f.reservations.CancelReservation(context.Background(), r.ID, guest)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestIsPropertyAvailable(t *testing.T) {
	f := newFixture(t)
	host := f.user(t, models.RoleHost)
	guest := f.user(t, models.RoleGuest)
	p := f.property(t, host, 100, 2)

	_, err := f.reservations.IsPropertyAvailable(context.Background(), 999, date("2024-06-01"), date("2024-06-02"))
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	r := f.reserve(t, p.ID, "2024-06-10", "2024-06-12", guest)
	ok, err := f.reservations.IsPropertyAvailable(context.Background(), p.ID, date("2024-06-11"), date("2024-06-13"))
	require.NoError(t, err)
	assert.True(t, ok, "pending does not block")

	_, err = f.reservations.ConfirmReservation(context.Background(), r.ID, host)
	require.NoError(t, err)

	cases := map[string]struct {
		in, out string
		want    bool
	}{
		"inside":             {"2024-06-10", "2024-06-11", false},
		"covering":           {"2024-06-01", "2024-06-30", false},
		"ends on check-in":   {"2024-06-08", "2024-06-10", false},
		"starts on checkout": {"2024-06-12", "2024-06-14", false},
		"before":             {"2024-06-01", "2024-06-09", true},
		"after":              {"2024-06-13", "2024-06-15", true},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			ok, err := f.reservations.IsPropertyAvailable(context.Background(), p.ID, date(c.in), date(c.out))
			require.NoError(t, err)
			assert.Equal(t, c.want, ok)
		})
	}

	off := false
	_, err = f.properties.UpdateProperty(context.Background(), p.ID, models.PropertyPatch{IsActive: &off}, host)
	require.NoError(t, err)
	ok, err = f.reservations.IsPropertyAvailable(context.Background(), p.ID, date("2024-07-01"), date("2024-07-02"))
	require.NoError(t, err)
	assert.False(t, ok, "inactive property is never available")
}

func TestReservationQueries(t *testing.T) {
	f := newFixture(t)
	host := f.user(t, models.RoleHost)
	otherHost := f.user(t, models.RoleHost)
	guest := f.user(t, models.RoleGuest)
	admin := f.user(t, models.RoleAdmin)
	p1 := f.property(t, host, 100, 2)
	p2 := f.property(t, otherHost, 50, 2)

	r1 := f.reserve(t, p1.ID, "2024-06-01", "2024-06-02", guest)
	f.reserve(t, p2.ID, "2024-06-05", "2024-06-06", guest)
	_, err := f.reservations.ConfirmReservation(context.Background(), r1.ID, host)
	require.NoError(t, err)

	byGuest, err := f.reservations.ListByGuest(context.Background(), guest.UserID)
	require.NoError(t, err)
	assert.Len(t, byGuest, 2)

	byHost, err := f.reservations.ListByHost(context.Background(), host.UserID)
	require.NoError(t, err)
	require.Len(t, byHost, 1)
	assert.Equal(t, r1.ID, byHost[0].ID)

	byProperty, err := f.reservations.ListByProperty(context.Background(), p2.ID)
	require.NoError(t, err)
	assert.Len(t, byProperty, 1)

	_, err = f.reservations.ListByProperty(context.Background(), 999)
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	busy, err := f.reservations.BusyDates(context.Background(), p1.ID)
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.Equal(t, date("2024-06-01"), busy[0].CheckInDate.UTC())

	got, err := f.reservations.GetReservation(context.Background(), r1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	_, err = f.reservations.GetReservation(context.Background(), 999)
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = f.reservations.ListAll(context.Background(), nil, guest)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	pending := models.StatusPending
	all, err := f.reservations.ListAll(context.Background(), &pending, admin)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Property)
	assert.Equal(t, p2.ID, all[0].Property.ID)
}

func TestReservation_PublishFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	host := f.user(t, models.RoleHost)
	guest := f.user(t, models.RoleGuest)
	p := f.property(t, host, 100, 2)

	f.publisher.err = errors.New("broker down")
	r, err := f.reservations.CreateReservation(context.Background(), CreateReservationInput{
		PropertyID: p.ID, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-04"), NumberOfGuests: 1,
	}, guest)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(r.TotalPrice))
}

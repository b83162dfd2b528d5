package service

import (
	"fmt"
	"time"

	"github.com/Eursukkul/staybook/internal/models"
	"github.com/shopspring/decimal"
)

// MaxStayNights is the longest stay a single reservation may cover.
const MaxStayNights = 365

// CalculateTotalPrice multiplies the nightly rate by the number of nights.
func CalculateTotalPrice(pricePerNight decimal.Decimal, checkIn, checkOut time.Time) (decimal.Decimal, error) {
	nights := models.Nights(checkIn, checkOut)
	if nights <= 0 {
		return decimal.Zero, ErrInvalidDateRange
	}
	if nights > MaxStayNights {
		return decimal.Zero, fmt.Errorf("%w: stay longer than %d nights", ErrInvalidDateRange, MaxStayNights)
	}
	return pricePerNight.Mul(decimal.NewFromInt(int64(nights))).Round(2), nil
}

// Package report renders admin exports.
package report

import (
	"fmt"
	"time"

	"github.com/Eursukkul/staybook/internal/models"
	"github.com/xuri/excelize/v2"
)

const ReservationsSheet = "Reservations"

var reservationHeaders = []string{
	"ID", "Property ID", "Property", "Guest ID", "Check-in", "Check-out",
	"Nights", "Guests", "Total Price", "Status", "Created At",
}

// ReservationsWorkbook builds a single-sheet workbook, one row per reservation.
// The caller owns the returned file and must Close it.
func ReservationsWorkbook(reservations []models.Reservation) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ReservationsSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeHeader(f); err != nil {
		f.Close()
		return nil, err
	}

	for i := range reservations {
		r := &reservations[i]
		title := ""
		if r.Property != nil {
			title = r.Property.Title
		}
		row := []any{
			r.ID,
			r.PropertyID,
			title,
			r.GuestID,
			r.CheckInDate.Format(time.DateOnly),
			r.CheckOutDate.Format(time.DateOnly),
			models.Nights(r.CheckInDate, r.CheckOutDate),
			r.NumberOfGuests,
			r.TotalPrice.StringFixed(2),
			string(r.Status),
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(ReservationsSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

func writeHeader(f *excelize.File) error {
	for i, header := range reservationHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ReservationsSheet, cell, header); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(reservationHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ReservationsSheet, "A1", last, bold); err != nil {
		return err
	}
	return f.SetColWidth(ReservationsSheet, "C", "C", 30)
}

package database

import (
	"fmt"

	"github.com/Eursukkul/staybook/internal/models"
	"gorm.io/gorm"
)

// ConfirmedOverlapConstraint rejects two CONFIRMED reservations on one property
// whose inclusive date ranges intersect.
const ConfirmedOverlapConstraint = "reservations_no_confirmed_overlap"

var postgresConstraints = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '` + ConfirmedOverlapConstraint + `') THEN
			ALTER TABLE reservations ADD CONSTRAINT ` + ConfirmedOverlapConstraint + `
				EXCLUDE USING gist (
					property_id WITH =,
					daterange(check_in_date, check_out_date, '[]') WITH &&
				) WHERE (status = 'CONFIRMED');
		END IF;
	END $$`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'reservations_date_order') THEN
			ALTER TABLE reservations ADD CONSTRAINT reservations_date_order
				CHECK (check_out_date > check_in_date);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'properties_positive_price') THEN
			ALTER TABLE properties ADD CONSTRAINT properties_positive_price
				CHECK (price_per_night > 0);
		END IF;
	END $$`,
}

// Migrate creates the schema. On PostgreSQL it also installs the store-level
// constraints that back the reservation engine.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Property{}, &models.Reservation{}, &models.ActivityEntry{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, stmt := range postgresConstraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install constraint: %w", err)
		}
	}
	return nil
}

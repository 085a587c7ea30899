package model

import "gorm.io/gorm"

// Migrate runs the schema migration for all booking-core entities and then
// creates the partial unique index that backs the single-active-booking-per-
// slot invariant. The index is raw DDL because gorm tags cannot express a
// partial index; both postgres and sqlite support this form.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Customer{},
		&Booking{},
		&BlockedDate{},
		&Quote{},
		&Invoice{},
	); err != nil {
		return err
	}

	// Re-validates the admission pre-checks at insert time: two concurrent
	// requests for the same (date, time) cannot both commit an active row.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_slot
		 ON bookings (date, time)
		 WHERE status IN ('pending', 'confirmed')`,
	).Error
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReasonUnblockedWeekend is the sentinel reason marking a weekend date as
// explicitly open. A row with any other reason makes the date fully
// unavailable; a row with this reason only lifts the default weekend block.
const ReasonUnblockedWeekend = "unblocked_weekend"

// blocked_dates
type BlockedDate struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Date   string  `gorm:"type:varchar(10);not null;uniqueIndex"`
	Reason *string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (d *BlockedDate) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// IsWeekendUnblock reports whether the row is the informational weekend
// exemption rather than a real block.
func (d *BlockedDate) IsWeekendUnblock() bool {
	return d.Reason != nil && *d.Reason == ReasonUnblockedWeekend
}

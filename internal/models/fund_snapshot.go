package models

import (
	"time"

	"github.com/zack-schrag/treeline-emergency-fund/internal/uuid"

	"gorm.io/gorm"
)

// FundSnapshot is a date-keyed capture of one runway evaluation. At most one
// row exists per calendar date; a repeated capture on the same date
// overwrites the numeric fields and leaves ID and CreatedAt unchanged.
// Amounts are in cents.
type FundSnapshot struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	SnapshotDate    time.Time `gorm:"not null;uniqueIndex" json:"snapshot_date"`
	FundBalance     int64     `gorm:"type:bigint;not null" json:"fund_balance"`
	MonthlyExpenses int64     `gorm:"type:bigint;not null" json:"monthly_expenses"`
	MonthsOfRunway  float64   `gorm:"not null" json:"months_of_runway"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records.
func (s *FundSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}

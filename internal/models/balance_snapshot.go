package models

import (
	"time"

	"github.com/zack-schrag/treeline-emergency-fund/internal/uuid"

	"gorm.io/gorm"
)

// BalanceSnapshot is a point-in-time balance reading for one account.
// Immutable time-series data — no Base embed, no soft deletes. The latest
// snapshot per account takes precedence over the account's static balance.
type BalanceSnapshot struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID  string    `gorm:"type:uuid;not null;index" json:"account_id"`
	RecordedAt time.Time `gorm:"not null" json:"recorded_at"`
	Balance    int64     `gorm:"type:bigint;not null" json:"balance"`
}

// BeforeCreate hook generates a UUIDv7 for new records.
func (b *BalanceSnapshot) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

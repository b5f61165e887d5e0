package models

import "time"

// Tag labels transactions for the expense breakdown and exclusion filters.
type Tag struct {
	Base
	Name string `gorm:"not null;uniqueIndex" json:"name"`
}

// Transaction is one ledger row. Amount is in cents; negative amounts are
// outflows. Only outflows enter the runway engine's expense statistics.
type Transaction struct {
	Base
	AccountID   string    `gorm:"type:uuid;not null;index" json:"account_id"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`

	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Tags    []Tag   `gorm:"many2many:transaction_tags" json:"tags"`
}

package models

// Account is one household account whose balance can count toward the
// emergency fund or whose outflows feed the expense estimate. Balance is the
// stored static balance in cents; the most recent BalanceSnapshot overrides
// it when one exists.
type Account struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Balance     int64  `gorm:"type:bigint;not null;default:0" json:"balance"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}

package models

// FundConfig is the emergency fund configuration. Exactly one row exists per
// installation; it is only written by an explicit save, never partially
// updated by the engine. TargetMonths nil means "derive the target from the
// linked goal", which is only meaningful when LinkedGoalID is set. When a
// goal is linked, its allocation list replaces FundAllocations entirely.
type FundConfig struct {
	Base
	LinkedGoalID           *string  `gorm:"type:uuid" json:"linked_goal_id"`
	TargetMonths           *float64 `gorm:"type:decimal(10,2)" json:"target_months"`
	TargetMonthsIsOverride bool     `gorm:"not null;default:false" json:"target_months_is_override"`
	FundAllocations        string   `gorm:"type:text;not null;default:'[]'" json:"fund_allocations"`
	ExpenseAccountIDs      string   `gorm:"type:text;not null;default:'[]'" json:"expense_account_ids"`
	ExcludedTags           string   `gorm:"type:text;not null;default:'[]'" json:"excluded_tags"`
	LookbackMonths         int      `gorm:"not null;default:6" json:"lookback_months"`
	Estimator              string   `gorm:"not null;default:'mean'" json:"estimator"`
}

package models

// Goal is a savings goal whose allocation list and dollar target can stand
// in for the manually configured fund allocation. Allocations holds the
// JSON-encoded rule list in the same wire format as FundConfig; the engine
// decodes it once at the boundary. TargetAmount is in cents.
type Goal struct {
	Base
	Name         string `gorm:"not null" json:"name"`
	TargetAmount int64  `gorm:"type:bigint;not null" json:"target_amount"`
	Allocations  string `gorm:"type:text;not null;default:'[]'" json:"allocations"`
	Icon         string `json:"icon,omitempty"`
}

package services

import (
	"time"

	"github.com/zack-schrag/treeline-emergency-fund/internal/engine"
	"github.com/zack-schrag/treeline-emergency-fund/internal/models"
	"github.com/zack-schrag/treeline-emergency-fund/internal/pagination"
)

// FundConfigInput holds the full configuration payload for a save. The
// configuration is a singleton and is always written whole, never patched.
type FundConfigInput struct {
	LinkedGoalID           *string
	TargetMonths           *float64
	TargetMonthsIsOverride bool
	ManualAllocations      []engine.AllocationRule
	ExpenseAccountIDs      []string
	ExcludedTags           []string
	LookbackMonths         int
	Estimator              engine.Estimator
}

// RunwayEvaluation is the full outcome of one runway computation.
// AutoTargetMonths is the goal-derived target, present only when a goal is
// linked and the expense estimate is positive. MonthlyTotals carries the
// per-month expense points behind the estimate for charting.
type RunwayEvaluation struct {
	engine.Result
	AutoTargetMonths *float64              `json:"auto_target_months,omitempty"`
	MonthlyTotals    []engine.ExpensePoint `json:"monthly_totals"`
}

// FundServicer defines the contract for runway evaluation and configuration.
type FundServicer interface {
	GetConfig() (*models.FundConfig, error)
	SaveConfig(input FundConfigInput) (*models.FundConfig, error)
	EvaluateRunway(now time.Time) (*RunwayEvaluation, error)
	GetBreakdown(now time.Time) ([]engine.BreakdownEntry, error)
	ListTags() ([]string, error)
}

// SnapshotServicer defines the contract for the runway snapshot history.
// Upsert is keyed on the calendar date; Delete of a missing id is a no-op.
type SnapshotServicer interface {
	Capture(date time.Time, notes string, now time.Time) (*models.FundSnapshot, error)
	Upsert(date time.Time, fundBalance, monthlyExpenses int64, monthsOfRunway float64, notes string) (*models.FundSnapshot, error)
	List(page pagination.PageRequest) (*pagination.PageResponse[models.FundSnapshot], error)
	Delete(id string) error
}

// GoalServicer defines the contract for savings goals.
type GoalServicer interface {
	CreateGoal(name string, targetAmount int64, allocations []engine.AllocationRule, icon string) (*models.Goal, error)
	GetGoals(page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(id string) (*models.Goal, error)
	UpdateGoal(id, name string, targetAmount *int64, allocations []engine.AllocationRule, icon *string) (*models.Goal, error)
	DeleteGoal(id string) error
}

// AccountServicer defines the contract for household accounts.
type AccountServicer interface {
	CreateAccount(name, description string, initialBalance int64) (*models.Account, error)
	GetAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(id string) (*models.Account, error)
	UpdateAccount(id, name, description string) (*models.Account, error)
	RecordBalance(id string, balance int64, recordedAt time.Time) (*models.Account, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	AccountID *string
	Tag       *string
}

// TransactionServicer defines the contract for ledger transactions.
type TransactionServicer interface {
	CreateTransaction(accountID string, amount int64, description string, date time.Time, tags []string) (*models.Transaction, error)
	GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	DeleteTransaction(id string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}

package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zack-schrag/treeline-emergency-fund/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAccount creates an account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, 0)
}

// CreateTestAccountWithBalance creates an account with the given balance (in cents).
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Balance:  balance,
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTransaction creates a transaction with the given amount (in cents,
// negative for outflows) on the given date, attaching the named tags.
// Tags are created on first use and reused after that.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID string, amount int64, date time.Time, tags ...string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		AccountID:   accountID,
		Amount:      amount,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Date:        date,
	}
	for _, name := range tags {
		var tag models.Tag
		if err := db.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			t.Fatalf("failed to create test tag %q: %v", name, err)
		}
		tx.Tags = append(tx.Tags, tag)
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestGoal creates a goal with the given target amount (in cents) and
// JSON-encoded allocation list.
func CreateTestGoal(t *testing.T, db *gorm.DB, targetAmount int64, allocations string) *models.Goal {
	t.Helper()

	if allocations == "" {
		allocations = "[]"
	}
	goal := &models.Goal{
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: targetAmount,
		Allocations:  allocations,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// RecordTestBalance appends a balance snapshot for the account.
func RecordTestBalance(t *testing.T, db *gorm.DB, accountID string, balance int64, recordedAt time.Time) *models.BalanceSnapshot {
	t.Helper()

	snap := &models.BalanceSnapshot{
		AccountID:  accountID,
		Balance:    balance,
		RecordedAt: recordedAt,
	}
	if err := db.Create(snap).Error; err != nil {
		t.Fatalf("failed to create test balance snapshot: %v", err)
	}
	return snap
}

package services

import (
	"testing"
	"time"

	"github.com/zack-schrag/treeline-emergency-fund/internal/models"
	"github.com/zack-schrag/treeline-emergency-fund/internal/pagination"
	"github.com/zack-schrag/treeline-emergency-fund/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)

	account, err := svc.CreateAccount("High-Yield Savings", "emergency fund home", 250000)
	testutil.AssertNoError(t, err)

	if account.ID == "" {
		t.Fatal("expected persisted account")
	}
	if account.Balance != 250000 || !account.IsActive {
		t.Errorf("unexpected account: %+v", account)
	}
}

func TestGetAccount(t *testing.T) {
	t.Run("by_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		created := testutil.CreateTestAccountWithBalance(t, db, 100000)
		account, err := svc.GetAccountByID(created.ID)
		testutil.AssertNoError(t, err)
		if account.Balance != 100000 {
			t.Errorf("expected 100000, got %d", account.Balance)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		_, err := svc.GetAccountByID("0197a000-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("paginated_list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		for i := 0; i < 3; i++ {
			testutil.CreateTestAccount(t, db)
		}

		result, err := svc.GetAccounts(pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 3 || len(result.Data) != 2 {
			t.Errorf("unexpected page: total %d, data %d", result.TotalItems, len(result.Data))
		}
	})
}

func TestUpdateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)

	created := testutil.CreateTestAccount(t, db)
	updated, err := svc.UpdateAccount(created.ID, "Renamed", "new description")
	testutil.AssertNoError(t, err)
	if updated.Name != "Renamed" {
		t.Errorf("expected renamed account, got %q", updated.Name)
	}

	stored, err := svc.GetAccountByID(created.ID)
	testutil.AssertNoError(t, err)
	if stored.Description != "new description" {
		t.Errorf("expected description persisted, got %q", stored.Description)
	}
}

func TestRecordBalance(t *testing.T) {
	t.Run("updates_balance_and_appends_snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		created := testutil.CreateTestAccountWithBalance(t, db, 100000)
		recordedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

		account, err := svc.RecordBalance(created.ID, 175000, recordedAt)
		testutil.AssertNoError(t, err)
		if account.Balance != 175000 {
			t.Errorf("expected balance 175000, got %d", account.Balance)
		}

		var snapshots []models.BalanceSnapshot
		testutil.AssertNoError(t, db.Where("account_id = ?", created.ID).Find(&snapshots).Error)
		if len(snapshots) != 1 {
			t.Fatalf("expected 1 snapshot, got %d", len(snapshots))
		}
		if snapshots[0].Balance != 175000 || !snapshots[0].RecordedAt.Equal(recordedAt) {
			t.Errorf("unexpected snapshot: %+v", snapshots[0])
		}
	})

	t.Run("unknown_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		_, err := svc.RecordBalance("0197a000-0000-7000-8000-000000000000", 100, time.Time{})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

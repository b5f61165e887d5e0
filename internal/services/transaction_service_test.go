package services

import (
	"testing"
	"time"

	"github.com/zack-schrag/treeline-emergency-fund/internal/models"
	"github.com/zack-schrag/treeline-emergency-fund/internal/pagination"
	"github.com/zack-schrag/treeline-emergency-fund/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("outflow_with_tags", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		account := testutil.CreateTestAccountWithBalance(t, db, 100000)

		tx, err := txSvc.CreateTransaction(account.ID, -5000, "Groceries", monthDay(2025, time.May, 3), []string{"food", "groceries"})
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected persisted transaction")
		}
		if len(tx.Tags) != 2 {
			t.Errorf("expected 2 tags, got %d", len(tx.Tags))
		}

		// Transactions are history only; the account balance never moves.
		stored, err := acctSvc.GetAccountByID(account.ID)
		testutil.AssertNoError(t, err)
		if stored.Balance != 100000 {
			t.Errorf("expected untouched balance 100000, got %d", stored.Balance)
		}
	})

	t.Run("duplicate_tags_collapse", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		account := testutil.CreateTestAccount(t, db)

		tx, err := txSvc.CreateTransaction(account.ID, -5000, "", monthDay(2025, time.May, 3), []string{"food", "food", ""})
		testutil.AssertNoError(t, err)
		if len(tx.Tags) != 1 {
			t.Errorf("expected 1 tag, got %d", len(tx.Tags))
		}
	})

	t.Run("tags_reused_across_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		account := testutil.CreateTestAccount(t, db)

		_, err := txSvc.CreateTransaction(account.ID, -5000, "", monthDay(2025, time.May, 3), []string{"food"})
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(account.ID, -2000, "", monthDay(2025, time.May, 4), []string{"food"})
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.Tag{}).Where("name = ?", "food").Count(&count)
		if count != 1 {
			t.Errorf("expected 1 food tag row, got %d", count)
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		account := testutil.CreateTestAccount(t, db)

		_, err := txSvc.CreateTransaction(account.ID, 0, "", time.Now(), nil)
		testutil.AssertAppError(t, err, "ZERO_AMOUNT")
	})

	t.Run("unknown_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)

		_, err := txSvc.CreateTransaction("0197a000-0000-7000-8000-000000000000", -5000, "", time.Now(), nil)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestGetTransactions(t *testing.T) {
	t.Run("filter_by_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewAccountService(db))

		a := testutil.CreateTestAccount(t, db)
		b := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransaction(t, db, a.ID, -1000, monthDay(2025, time.May, 1))
		testutil.CreateTestTransaction(t, db, b.ID, -2000, monthDay(2025, time.May, 2))

		result, err := txSvc.GetTransactions(pagination.PageRequest{}, TransactionFilter{AccountID: &a.ID})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 || result.Data[0].AccountID != a.ID {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("filter_by_tag", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewAccountService(db))

		a := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransaction(t, db, a.ID, -1000, monthDay(2025, time.May, 1), "food")
		testutil.CreateTestTransaction(t, db, a.ID, -2000, monthDay(2025, time.May, 2), "rent")

		tag := "rent"
		result, err := txSvc.GetTransactions(pagination.PageRequest{}, TransactionFilter{Tag: &tag})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 || result.Data[0].Amount != -2000 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("filter_by_date_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewAccountService(db))

		a := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransaction(t, db, a.ID, -1000, monthDay(2025, time.March, 1))
		testutil.CreateTestTransaction(t, db, a.ID, -2000, monthDay(2025, time.April, 1))
		testutil.CreateTestTransaction(t, db, a.ID, -3000, monthDay(2025, time.May, 1))

		from := monthDay(2025, time.March, 15)
		to := monthDay(2025, time.April, 15)
		result, err := txSvc.GetTransactions(pagination.PageRequest{}, TransactionFilter{FromDate: &from, ToDate: &to})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 || result.Data[0].Amount != -2000 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("most_recent_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewAccountService(db))

		a := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransaction(t, db, a.ID, -1000, monthDay(2025, time.March, 1))
		testutil.CreateTestTransaction(t, db, a.ID, -2000, monthDay(2025, time.May, 1))

		result, err := txSvc.GetTransactions(pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.Data[0].Amount != -2000 {
			t.Errorf("expected May transaction first, got %+v", result.Data[0])
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("removes_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewAccountService(db))

		a := testutil.CreateTestAccount(t, db)
		tx := testutil.CreateTestTransaction(t, db, a.ID, -1000, monthDay(2025, time.May, 1))

		testutil.AssertNoError(t, txSvc.DeleteTransaction(tx.ID))

		result, err := txSvc.GetTransactions(pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected no transactions, got %d", result.TotalItems)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewAccountService(db))

		err := txSvc.DeleteTransaction("0197a000-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

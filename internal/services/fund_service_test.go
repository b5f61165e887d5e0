package services

import (
	"testing"
	"time"

	"github.com/zack-schrag/treeline-emergency-fund/internal/engine"
	"github.com/zack-schrag/treeline-emergency-fund/internal/models"
	"github.com/zack-schrag/treeline-emergency-fund/internal/testutil"
)

var evalNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func monthDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
}

func TestGetConfig(t *testing.T) {
	t.Run("defaults_before_first_save", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		cfg, err := svc.GetConfig()
		testutil.AssertNoError(t, err)
		if cfg.ID != "" {
			t.Errorf("expected unsaved default config, got id %q", cfg.ID)
		}
		if cfg.LookbackMonths != 6 || cfg.Estimator != "mean" {
			t.Errorf("unexpected defaults: %+v", cfg)
		}
	})
}

func TestSaveConfig(t *testing.T) {
	t.Run("create_then_update_single_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		first, err := svc.SaveConfig(FundConfigInput{
			LookbackMonths: 6,
			Estimator:      engine.EstimatorMean,
		})
		testutil.AssertNoError(t, err)
		if first.ID == "" {
			t.Fatal("expected persisted config")
		}

		second, err := svc.SaveConfig(FundConfigInput{
			LookbackMonths: 12,
			Estimator:      engine.EstimatorMedian,
		})
		testutil.AssertNoError(t, err)
		if second.ID != first.ID {
			t.Errorf("expected same singleton row, got %q and %q", first.ID, second.ID)
		}

		var count int64
		db.Model(&models.FundConfig{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 config row, got %d", count)
		}

		cfg, err := svc.GetConfig()
		testutil.AssertNoError(t, err)
		if cfg.LookbackMonths != 12 || cfg.Estimator != "median" {
			t.Errorf("expected updated values, got %+v", cfg)
		}
	})

	t.Run("rejects_lookback_below_one", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		_, err := svc.SaveConfig(FundConfigInput{LookbackMonths: 0, Estimator: engine.EstimatorMean})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_unknown_estimator", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		_, err := svc.SaveConfig(FundConfigInput{LookbackMonths: 6, Estimator: "mode"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_missing_linked_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		missing := "0197a000-0000-7000-8000-000000000000"
		_, err := svc.SaveConfig(FundConfigInput{
			LinkedGoalID:   &missing,
			LookbackMonths: 6,
			Estimator:      engine.EstimatorMean,
		})
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestEvaluateRunway(t *testing.T) {
	t.Run("on_track_scenario", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		savings := testutil.CreateTestAccountWithBalance(t, db, 500000)
		checking := testutil.CreateTestAccount(t, db)
		for i := 0; i < 3; i++ {
			testutil.CreateTestTransaction(t, db, checking.ID, -100000, monthDay(2025, time.March, 10).AddDate(0, i, 0))
		}

		_, err := svc.SaveConfig(FundConfigInput{
			ManualAllocations: []engine.AllocationRule{
				{AccountID: savings.ID, Kind: engine.AllocationPercentage, Value: 100},
			},
			ExpenseAccountIDs: []string{checking.ID},
			LookbackMonths:    6,
			Estimator:         engine.EstimatorMean,
		})
		testutil.AssertNoError(t, err)

		eval, err := svc.EvaluateRunway(evalNow)
		testutil.AssertNoError(t, err)

		if eval.FundBalance != 500000 {
			t.Errorf("expected fund balance 500000, got %d", eval.FundBalance)
		}
		if eval.MonthlyExpenses != 100000 {
			t.Errorf("expected monthly expenses 100000, got %d", eval.MonthlyExpenses)
		}
		if eval.MonthsOfRunway != 5 {
			t.Errorf("expected 5 months of runway, got %v", eval.MonthsOfRunway)
		}
		if eval.TargetMonths != 6 || eval.TargetAmount != 600000 {
			t.Errorf("expected default 6-month target, got %v / %d", eval.TargetMonths, eval.TargetAmount)
		}
		if eval.Status != engine.StatusOnTrack {
			t.Errorf("expected on_track, got %s", eval.Status)
		}
		if len(eval.MonthlyTotals) != 3 {
			t.Errorf("expected 3 monthly points, got %d", len(eval.MonthlyTotals))
		}
	})

	t.Run("empty_config_degrades_to_zeros", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		eval, err := svc.EvaluateRunway(evalNow)
		testutil.AssertNoError(t, err)
		if eval.FundBalance != 0 || eval.MonthlyExpenses != 0 || eval.MonthsOfRunway != 0 {
			t.Errorf("expected zeros, got %+v", eval)
		}
		if eval.Status != engine.StatusCritical {
			t.Errorf("expected critical, got %s", eval.Status)
		}
	})

	t.Run("balance_snapshot_overrides_static_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		savings := testutil.CreateTestAccountWithBalance(t, db, 100000)
		testutil.RecordTestBalance(t, db, savings.ID, 300000, evalNow.AddDate(0, 0, -2))
		testutil.RecordTestBalance(t, db, savings.ID, 400000, evalNow.AddDate(0, 0, -1))

		_, err := svc.SaveConfig(FundConfigInput{
			ManualAllocations: []engine.AllocationRule{
				{AccountID: savings.ID, Kind: engine.AllocationPercentage, Value: 100},
			},
			LookbackMonths: 6,
			Estimator:      engine.EstimatorMean,
		})
		testutil.AssertNoError(t, err)

		eval, err := svc.EvaluateRunway(evalNow)
		testutil.AssertNoError(t, err)
		if eval.FundBalance != 400000 {
			t.Errorf("expected latest snapshot balance 400000, got %d", eval.FundBalance)
		}
	})

	t.Run("linked_goal_replaces_manual_allocations", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		manual := testutil.CreateTestAccountWithBalance(t, db, 999999)
		goalAcct := testutil.CreateTestAccountWithBalance(t, db, 200000)
		checking := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransaction(t, db, checking.ID, -100000, monthDay(2025, time.May, 10))

		goalAllocations, err := engine.EncodeAllocations([]engine.AllocationRule{
			{AccountID: goalAcct.ID, Kind: engine.AllocationPercentage, Value: 100},
		})
		testutil.AssertNoError(t, err)
		goal := testutil.CreateTestGoal(t, db, 1200000, goalAllocations) // $12000 target

		_, err = svc.SaveConfig(FundConfigInput{
			LinkedGoalID: &goal.ID,
			ManualAllocations: []engine.AllocationRule{
				{AccountID: manual.ID, Kind: engine.AllocationPercentage, Value: 100},
			},
			ExpenseAccountIDs: []string{checking.ID},
			LookbackMonths:    6,
			Estimator:         engine.EstimatorMean,
		})
		testutil.AssertNoError(t, err)

		eval, err := svc.EvaluateRunway(evalNow)
		testutil.AssertNoError(t, err)

		// Only the goal's allocation counts, never the manual one.
		if eval.FundBalance != 200000 {
			t.Errorf("expected fund balance 200000 from goal allocations, got %d", eval.FundBalance)
		}
		// $12000 goal at $1000/month -> 12-month auto target.
		if eval.AutoTargetMonths == nil || *eval.AutoTargetMonths != 12 {
			t.Errorf("expected auto target 12, got %v", eval.AutoTargetMonths)
		}
		if eval.TargetMonths != 12 {
			t.Errorf("expected effective target 12, got %v", eval.TargetMonths)
		}
	})

	t.Run("dangling_goal_link_falls_back_to_manual", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		savings := testutil.CreateTestAccountWithBalance(t, db, 150000)
		goal := testutil.CreateTestGoal(t, db, 600000, "")

		_, err := svc.SaveConfig(FundConfigInput{
			LinkedGoalID: &goal.ID,
			ManualAllocations: []engine.AllocationRule{
				{AccountID: savings.ID, Kind: engine.AllocationPercentage, Value: 100},
			},
			LookbackMonths: 6,
			Estimator:      engine.EstimatorMean,
		})
		testutil.AssertNoError(t, err)

		// Goal removed out from under the configuration.
		if err := db.Delete(&models.Goal{}, "id = ?", goal.ID).Error; err != nil {
			t.Fatalf("failed to delete goal: %v", err)
		}

		eval, err := svc.EvaluateRunway(evalNow)
		testutil.AssertNoError(t, err)
		if eval.FundBalance != 150000 {
			t.Errorf("expected manual allocation balance 150000, got %d", eval.FundBalance)
		}
		if eval.AutoTargetMonths != nil {
			t.Errorf("expected no auto target, got %v", *eval.AutoTargetMonths)
		}
	})

	t.Run("config_read_failure_is_calculation_failed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewFundService(db)

		// Closing the connection makes the config read fail like any other
		// data-source error on the evaluation path.
		testutil.TeardownTestDB(t, db)

		_, err := svc.EvaluateRunway(evalNow)
		testutil.AssertAppError(t, err, "CALCULATION_FAILED")
	})

	t.Run("excluded_tag_drops_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		checking := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransaction(t, db, checking.ID, -50000, monthDay(2025, time.May, 5), "food")
		testutil.CreateTestTransaction(t, db, checking.ID, -80000, monthDay(2025, time.May, 6), "vacation", "food")

		_, err := svc.SaveConfig(FundConfigInput{
			ExpenseAccountIDs: []string{checking.ID},
			ExcludedTags:      []string{"vacation"},
			LookbackMonths:    6,
			Estimator:         engine.EstimatorMean,
		})
		testutil.AssertNoError(t, err)

		eval, err := svc.EvaluateRunway(evalNow)
		testutil.AssertNoError(t, err)
		if eval.MonthlyExpenses != 50000 {
			t.Errorf("expected 50000 after exclusion, got %d", eval.MonthlyExpenses)
		}
	})
}

func TestGetBreakdown(t *testing.T) {
	t.Run("buckets_by_tag", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		checking := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransaction(t, db, checking.ID, -90000, monthDay(2025, time.May, 1), "rent")
		testutil.CreateTestTransaction(t, db, checking.ID, -30000, monthDay(2025, time.May, 2))

		_, err := svc.SaveConfig(FundConfigInput{
			ExpenseAccountIDs: []string{checking.ID},
			LookbackMonths:    6,
			Estimator:         engine.EstimatorMean,
		})
		testutil.AssertNoError(t, err)

		entries, err := svc.GetBreakdown(evalNow)
		testutil.AssertNoError(t, err)
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Tag != "rent" {
			t.Errorf("expected rent first, got %s", entries[0].Tag)
		}
		if entries[1].Tag != engine.UntaggedBucket {
			t.Errorf("expected untagged bucket, got %s", entries[1].Tag)
		}
	})

	t.Run("no_expense_accounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundService(db)

		entries, err := svc.GetBreakdown(evalNow)
		testutil.AssertNoError(t, err)
		if len(entries) != 0 {
			t.Errorf("expected no entries, got %+v", entries)
		}
	})
}

func TestListTags(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewFundService(db)

	checking := testutil.CreateTestAccount(t, db)
	testutil.CreateTestTransaction(t, db, checking.ID, -1000, monthDay(2025, time.May, 1), "zeta", "alpha")
	testutil.CreateTestTransaction(t, db, checking.ID, -1000, monthDay(2025, time.May, 2), "alpha")

	tags, err := svc.ListTags()
	testutil.AssertNoError(t, err)
	if len(tags) != 2 || tags[0] != "alpha" || tags[1] != "zeta" {
		t.Errorf("expected sorted distinct tags, got %v", tags)
	}
}

package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/zack-schrag/treeline-emergency-fund/internal/engine"
	apperrors "github.com/zack-schrag/treeline-emergency-fund/internal/errors"
	"github.com/zack-schrag/treeline-emergency-fund/internal/logger"
	"github.com/zack-schrag/treeline-emergency-fund/internal/models"
)

// fundService orchestrates the runway evaluation: configuration, allocation
// resolution, expense estimation, target derivation, and classification.
type fundService struct {
	db *gorm.DB
}

// NewFundService creates a new FundServicer.
func NewFundService(db *gorm.DB) FundServicer {
	return &fundService{db: db}
}

// GetConfig returns the singleton fund configuration, or an unsaved default
// configuration when none has been stored yet.
func (s *fundService) GetConfig() (*models.FundConfig, error) {
	var cfg models.FundConfig
	err := s.db.First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cfg, nil
}

func defaultConfig() *models.FundConfig {
	return &models.FundConfig{
		FundAllocations:   "[]",
		ExpenseAccountIDs: "[]",
		ExcludedTags:      "[]",
		LookbackMonths:    6,
		Estimator:         string(engine.EstimatorMean),
	}
}

// SaveConfig validates and writes the whole configuration row, creating it on
// first save.
func (s *fundService) SaveConfig(input FundConfigInput) (*models.FundConfig, error) {
	if input.LookbackMonths < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "lookback_months must be at least 1")
	}
	if !engine.ValidEstimator(input.Estimator) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown estimator")
	}

	if input.LinkedGoalID != nil {
		var goal models.Goal
		if err := s.db.Where("id = ?", *input.LinkedGoalID).First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrGoalNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	allocations, err := engine.EncodeAllocations(input.ManualAllocations)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	accountIDs, err := encodeStringList(input.ExpenseAccountIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	excludedTags, err := encodeStringList(input.ExcludedTags)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	fields := map[string]interface{}{
		"linked_goal_id":            input.LinkedGoalID,
		"target_months":             input.TargetMonths,
		"target_months_is_override": input.TargetMonthsIsOverride,
		"fund_allocations":          allocations,
		"expense_account_ids":       accountIDs,
		"excluded_tags":             excludedTags,
		"lookback_months":           input.LookbackMonths,
		"estimator":                 string(input.Estimator),
	}

	var cfg models.FundConfig
	err = s.db.First(&cfg).Error
	switch {
	case err == nil:
		if err := s.db.Model(&cfg).Updates(fields).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		cfg = models.FundConfig{
			LinkedGoalID:           input.LinkedGoalID,
			TargetMonths:           input.TargetMonths,
			TargetMonthsIsOverride: input.TargetMonthsIsOverride,
			FundAllocations:        allocations,
			ExpenseAccountIDs:      accountIDs,
			ExcludedTags:           excludedTags,
			LookbackMonths:         input.LookbackMonths,
			Estimator:              string(input.Estimator),
		}
		if err := s.db.Create(&cfg).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &cfg, nil
}

// EvaluateRunway computes the full runway result as of now. Data-source
// failures surface as CALCULATION_FAILED; missing data (unknown accounts, no
// transactions, no linked goal) degrades to zeros instead of erroring.
func (s *fundService) EvaluateRunway(now time.Time) (*RunwayEvaluation, error) {
	cfg, err := s.evaluationConfig()
	if err != nil {
		return nil, err
	}

	rules, goal, err := s.resolveRules(cfg)
	if err != nil {
		return nil, err
	}

	balances, err := s.fetchBalances(rules)
	if err != nil {
		return nil, err
	}
	fundBalance := engine.ResolveAllocations(rules, balances)

	filter, err := expenseFilter(cfg)
	if err != nil {
		return nil, err
	}
	txns, err := s.fetchOutflows(filter, now)
	if err != nil {
		return nil, err
	}
	monthlyExpenses := engine.EstimateMonthlyExpenses(txns, filter, engine.Estimator(cfg.Estimator), now)

	spec := engine.TargetSpec{
		TargetMonths: cfg.TargetMonths,
		IsOverride:   cfg.TargetMonthsIsOverride,
	}
	if goal != nil {
		spec.GoalTargetAmount = &goal.TargetAmount
	}
	target := engine.ResolveTarget(spec, monthlyExpenses)

	result := engine.Evaluate(fundBalance, monthlyExpenses, target.TargetMonths, target.TargetAmount)

	// Alert on every evaluation that lands below target; repeated refreshes
	// re-emit intentionally.
	if result.Status != engine.StatusOnTrack {
		logger.Get().Warnw("emergency fund below target",
			"status", result.Status,
			"months_of_runway", result.MonthsOfRunway,
			"target_months", result.TargetMonths,
			"runway_percent", result.RunwayPercent,
		)
	}

	return &RunwayEvaluation{
		Result:           result,
		AutoTargetMonths: target.AutoTargetMonths,
		MonthlyTotals:    engine.MonthlyTotals(txns, filter, now),
	}, nil
}

// GetBreakdown returns the per-tag expense breakdown over the configured window.
func (s *fundService) GetBreakdown(now time.Time) ([]engine.BreakdownEntry, error) {
	cfg, err := s.evaluationConfig()
	if err != nil {
		return nil, err
	}
	filter, err := expenseFilter(cfg)
	if err != nil {
		return nil, err
	}
	txns, err := s.fetchOutflows(filter, now)
	if err != nil {
		return nil, err
	}
	return engine.Breakdown(txns, filter, now), nil
}

// evaluationConfig loads the configuration for a runway computation. On the
// evaluation path a config read failure is a data-source failure and
// surfaces as CALCULATION_FAILED like every other fetch.
func (s *fundService) evaluationConfig() (*models.FundConfig, error) {
	var cfg models.FundConfig
	err := s.db.First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCalculationFailed, err)
	}
	return &cfg, nil
}

// ListTags returns all distinct tag names, sorted.
func (s *fundService) ListTags() ([]string, error) {
	var names []string
	if err := s.db.Model(&models.Tag{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return names, nil
}

// resolveRules returns the allocation rule list and the linked goal, if any.
// A linked goal's allocation list replaces the manual one entirely; the two
// are never merged. A dangling goal link degrades to the manual allocations.
func (s *fundService) resolveRules(cfg *models.FundConfig) ([]engine.AllocationRule, *models.Goal, error) {
	if cfg.LinkedGoalID != nil {
		var goal models.Goal
		err := s.db.Where("id = ?", *cfg.LinkedGoalID).First(&goal).Error
		switch {
		case err == nil:
			rules, err := engine.DecodeAllocations(goal.Allocations)
			if err != nil {
				return nil, nil, apperrors.Wrap(apperrors.ErrCalculationFailed, err)
			}
			return rules, &goal, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			logger.Get().Warnw("linked goal no longer exists, using manual allocations",
				"goal_id", *cfg.LinkedGoalID)
		default:
			return nil, nil, apperrors.Wrap(apperrors.ErrCalculationFailed, err)
		}
	}

	rules, err := engine.DecodeAllocations(cfg.FundAllocations)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCalculationFailed, err)
	}
	return rules, nil, nil
}

// fetchBalances returns the current balance for every account referenced by
// the rules: the most recent balance snapshot wins, falling back to the
// stored static balance. Unknown accounts are simply absent and resolve to a
// zero contribution.
func (s *fundService) fetchBalances(rules []engine.AllocationRule) (map[string]int64, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rules))
	for _, rule := range rules {
		ids = append(ids, rule.AccountID)
	}

	var accounts []models.Account
	if err := s.db.Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCalculationFailed, err)
	}

	balances := make(map[string]int64, len(accounts))
	for _, account := range accounts {
		var snap models.BalanceSnapshot
		err := s.db.Where("account_id = ?", account.ID).
			Order("recorded_at DESC").
			First(&snap).Error
		switch {
		case err == nil:
			balances[account.ID] = snap.Balance
		case errors.Is(err, gorm.ErrRecordNotFound):
			balances[account.ID] = account.Balance
		default:
			return nil, apperrors.Wrap(apperrors.ErrCalculationFailed, err)
		}
	}
	return balances, nil
}

// fetchOutflows loads the outflow transactions inside the lookback window for
// the configured expense accounts and maps them into the engine's view.
func (s *fundService) fetchOutflows(filter engine.ExpenseFilter, now time.Time) ([]engine.Transaction, error) {
	if len(filter.AccountIDs) == 0 {
		return nil, nil
	}
	lookback := filter.LookbackMonths
	if lookback < 1 {
		lookback = 1
	}
	start := now.AddDate(0, -lookback, 0)

	var rows []models.Transaction
	if err := s.db.Preload("Tags").
		Where("account_id IN ? AND amount < 0 AND date >= ? AND date < ?", filter.AccountIDs, start, now).
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCalculationFailed, err)
	}

	txns := make([]engine.Transaction, 0, len(rows))
	for _, row := range rows {
		tags := make([]string, 0, len(row.Tags))
		for _, tag := range row.Tags {
			tags = append(tags, tag.Name)
		}
		txns = append(txns, engine.Transaction{
			AccountID: row.AccountID,
			Amount:    row.Amount,
			Date:      row.Date,
			Tags:      tags,
		})
	}
	return txns, nil
}

// expenseFilter decodes the configured account and tag lists into the
// engine's filter.
func expenseFilter(cfg *models.FundConfig) (engine.ExpenseFilter, error) {
	accountIDs, err := decodeStringList(cfg.ExpenseAccountIDs)
	if err != nil {
		return engine.ExpenseFilter{}, apperrors.Wrap(apperrors.ErrCalculationFailed, err)
	}
	excludedTags, err := decodeStringList(cfg.ExcludedTags)
	if err != nil {
		return engine.ExpenseFilter{}, apperrors.Wrap(apperrors.ErrCalculationFailed, err)
	}
	return engine.ExpenseFilter{
		AccountIDs:     accountIDs,
		ExcludedTags:   excludedTags,
		LookbackMonths: cfg.LookbackMonths,
	}, nil
}

package engine

import (
	"math"
	"sort"
	"time"
)

// Estimator selects the statistic used to reduce monthly totals to a single
// representative monthly expense.
type Estimator string

const (
	EstimatorMean        Estimator = "mean"
	EstimatorMedian      Estimator = "median"
	EstimatorTrimmedMean Estimator = "trimmed_mean"
)

// ValidEstimator reports whether e names a supported estimator.
func ValidEstimator(e Estimator) bool {
	switch e {
	case EstimatorMean, EstimatorMedian, EstimatorTrimmedMean:
		return true
	}
	return false
}

// Transaction is the engine's view of one ledger row. Amount is in cents;
// negative amounts are outflows. Only outflows enter the expense statistics.
type Transaction struct {
	AccountID string
	Amount    int64
	Date      time.Time
	Tags      []string
}

// ExpenseFilter scopes which outflows enter the expense estimate and the
// tag breakdown. A transaction carrying any excluded tag is dropped entirely.
type ExpenseFilter struct {
	AccountIDs     []string
	ExcludedTags   []string
	LookbackMonths int
}

func (f ExpenseFilter) lookback() int {
	if f.LookbackMonths < 1 {
		return 1
	}
	return f.LookbackMonths
}

// ExpensePoint is one calendar month's total outflow in cents.
type ExpensePoint struct {
	Month time.Time `json:"month"`
	Total int64     `json:"total"`
}

// MonthlyTotals groups the absolute values of matching outflows by calendar
// month, over the window [now - lookback months, now). Months with no
// matching transactions are absent from the result, not zero. An empty
// account filter matches nothing.
func MonthlyTotals(txns []Transaction, filter ExpenseFilter, now time.Time) []ExpensePoint {
	accounts := toSet(filter.AccountIDs)
	if len(accounts) == 0 {
		return nil
	}
	excluded := toSet(filter.ExcludedTags)
	start := now.AddDate(0, -filter.lookback(), 0)

	totals := make(map[time.Time]int64)
	for _, tx := range txns {
		if !matchesOutflow(tx, accounts, excluded, start, now) {
			continue
		}
		month := time.Date(tx.Date.Year(), tx.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		totals[month] += -tx.Amount
	}

	points := make([]ExpensePoint, 0, len(totals))
	for month, total := range totals {
		points = append(points, ExpensePoint{Month: month, Total: total})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month.Before(points[j].Month) })
	return points
}

// EstimateMonthlyExpenses reduces the monthly totals of the window to a
// single monthly expense figure in cents. Returns 0 when no month has data
// or when the account filter is empty.
func EstimateMonthlyExpenses(txns []Transaction, filter ExpenseFilter, estimator Estimator, now time.Time) int64 {
	points := MonthlyTotals(txns, filter, now)
	if len(points) == 0 {
		return 0
	}

	totals := make([]float64, len(points))
	for i, p := range points {
		totals[i] = float64(p.Total)
	}

	var result float64
	switch estimator {
	case EstimatorMedian:
		result = median(totals)
	case EstimatorTrimmedMean:
		result = trimmedMean(totals)
	default:
		result = mean(totals)
	}
	return int64(math.Round(result))
}

// matchesOutflow applies the shared outflow/account/window/tag filter used by
// both the estimate and the breakdown.
func matchesOutflow(tx Transaction, accounts, excluded map[string]bool, start, end time.Time) bool {
	if tx.Amount >= 0 {
		return false
	}
	if !accounts[tx.AccountID] {
		return false
	}
	if tx.Date.Before(start) || !tx.Date.Before(end) {
		return false
	}
	return !hasAnyTag(tx.Tags, excluded)
}

func toSet(xs []string) map[string]bool {
	set := make(map[string]bool, len(xs))
	for _, x := range xs {
		set[x] = true
	}
	return set
}

func hasAnyTag(tags []string, set map[string]bool) bool {
	if len(set) == 0 {
		return false
	}
	for _, tag := range tags {
		if set[tag] {
			return true
		}
	}
	return false
}

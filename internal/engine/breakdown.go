package engine

import (
	"math"
	"sort"
	"time"
)

// UntaggedBucket collects outflows that carry no tags.
const UntaggedBucket = "Untagged"

// BreakdownEntry is one tag's share of the expense window. MonthlyAmount is
// the window total divided by the lookback months, in cents.
type BreakdownEntry struct {
	Tag            string  `json:"tag"`
	MonthlyAmount  int64   `json:"monthly_amount"`
	PercentOfTotal float64 `json:"percent_of_total"`
}

// Breakdown explodes each matching outflow into one bucket per tag and
// returns the buckets ordered by descending monthly amount. Excluded tags
// drop the whole transaction before the explosion. A transaction carrying
// several tags is counted once per tag, so percentages across entries can
// sum to more than 100. The monthly amount is always a straight average over
// the lookback window, regardless of the configured estimator.
func Breakdown(txns []Transaction, filter ExpenseFilter, now time.Time) []BreakdownEntry {
	accounts := toSet(filter.AccountIDs)
	if len(accounts) == 0 {
		return nil
	}
	excluded := toSet(filter.ExcludedTags)
	lookback := filter.lookback()
	start := now.AddDate(0, -lookback, 0)

	sums := make(map[string]int64)
	var grand int64
	for _, tx := range txns {
		if !matchesOutflow(tx, accounts, excluded, start, now) {
			continue
		}
		amount := -tx.Amount
		grand += amount

		tags := tx.Tags
		if len(tags) == 0 {
			tags = []string{UntaggedBucket}
		}
		for _, tag := range tags {
			sums[tag] += amount
		}
	}

	entries := make([]BreakdownEntry, 0, len(sums))
	for tag, sum := range sums {
		var percent float64
		if grand > 0 {
			percent = 100 * float64(sum) / float64(grand)
		}
		entries = append(entries, BreakdownEntry{
			Tag:            tag,
			MonthlyAmount:  int64(math.Round(float64(sum) / float64(lookback))),
			PercentOfTotal: percent,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].MonthlyAmount != entries[j].MonthlyAmount {
			return entries[i].MonthlyAmount > entries[j].MonthlyAmount
		}
		return entries[i].Tag < entries[j].Tag
	})
	return entries
}

package engine

import "math"

// DefaultTargetMonths is used when no target is configured and no linked
// goal can derive one.
const DefaultTargetMonths = 6.0

// TargetSpec carries the configured target and, when a goal is linked, the
// goal's dollar target in cents. TargetMonths nil means "derive from the
// linked goal".
type TargetSpec struct {
	TargetMonths     *float64
	IsOverride       bool
	GoalTargetAmount *int64
}

// TargetResolution is the resolved target pair. AutoTargetMonths is the
// months figure derived from the linked goal, nil when no goal is linked or
// monthly expenses are zero.
type TargetResolution struct {
	TargetMonths     float64
	TargetAmount     int64
	AutoTargetMonths *float64
}

// ResolveTarget derives the effective target months and target amount.
// The target amount is always derived from months, even in goal mode. The
// goal-derived months figure only takes effect when the configured months is
// nil and the override flag is unset.
func ResolveTarget(spec TargetSpec, monthlyExpenses int64) TargetResolution {
	months := DefaultTargetMonths
	if spec.TargetMonths != nil {
		months = *spec.TargetMonths
	}

	var auto *float64
	if spec.GoalTargetAmount != nil && monthlyExpenses > 0 {
		derived := float64(*spec.GoalTargetAmount) / float64(monthlyExpenses)
		auto = &derived
		if !spec.IsOverride && spec.TargetMonths == nil {
			months = derived
		}
	}

	return TargetResolution{
		TargetMonths:     months,
		TargetAmount:     int64(math.Round(months * float64(monthlyExpenses))),
		AutoTargetMonths: auto,
	}
}

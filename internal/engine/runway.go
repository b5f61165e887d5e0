package engine

// Status classifies a runway evaluation against its target.
type Status string

const (
	StatusCritical Status = "critical"
	StatusWarning  Status = "warning"
	StatusOnTrack  Status = "on_track"
)

// Result is one runway evaluation. Dollar amounts are in cents. The result
// is recomputed fresh on every evaluation; no state is carried between calls.
type Result struct {
	FundBalance       int64   `json:"fund_balance"`
	MonthlyExpenses   int64   `json:"monthly_expenses"`
	MonthsOfRunway    float64 `json:"months_of_runway"`
	TargetMonths      float64 `json:"target_months"`
	TargetAmount      int64   `json:"target_amount"`
	ProgressPercent   float64 `json:"progress_percent"`
	RemainingToTarget int64   `json:"remaining_to_target"`
	RunwayPercent     float64 `json:"runway_percent"`
	Status            Status  `json:"status"`
}

// Evaluate composes the fund balance, monthly expense estimate, and resolved
// target into a classified result. Zero monthly expenses means zero runway,
// and a zero target resolves the ratios to zero rather than an error.
func Evaluate(fundBalance, monthlyExpenses int64, targetMonths float64, targetAmount int64) Result {
	var months float64
	if monthlyExpenses > 0 {
		months = float64(fundBalance) / float64(monthlyExpenses)
	}

	var progress float64
	if targetAmount > 0 {
		progress = 100 * float64(fundBalance) / float64(targetAmount)
	}

	remaining := targetAmount - fundBalance
	if remaining < 0 {
		remaining = 0
	}

	var runwayPercent float64
	if targetMonths > 0 {
		runwayPercent = 100 * months / targetMonths
	}

	status := StatusOnTrack
	switch {
	case runwayPercent < 50:
		status = StatusCritical
	case runwayPercent < 80:
		status = StatusWarning
	}

	return Result{
		FundBalance:       fundBalance,
		MonthlyExpenses:   monthlyExpenses,
		MonthsOfRunway:    months,
		TargetMonths:      targetMonths,
		TargetAmount:      targetAmount,
		ProgressPercent:   progress,
		RemainingToTarget: remaining,
		RunwayPercent:     runwayPercent,
		Status:            status,
	}
}

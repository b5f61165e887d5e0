// Package engine implements the emergency fund runway calculations:
// allocation resolution, expense estimation, target derivation, and status
// classification. Everything in this package is a pure function of its
// arguments; all I/O lives in the service layer.
package engine

import (
	"encoding/json"
	"fmt"
	"math"
)

// AllocationKind selects how an allocation rule counts an account toward the fund.
type AllocationKind string

const (
	AllocationPercentage AllocationKind = "percentage"
	AllocationFixed      AllocationKind = "fixed"
)

// ValidAllocationKind reports whether k names a supported allocation kind.
func ValidAllocationKind(k AllocationKind) bool {
	return k == AllocationPercentage || k == AllocationFixed
}

// AllocationRule assigns a portion of one account to the emergency fund.
// For percentage rules Value is interpreted as 0-100 but is not clamped;
// out-of-range values simply scale the result. For fixed rules Value is an
// amount in cents.
type AllocationRule struct {
	AccountID string         `json:"account_id"`
	Kind      AllocationKind `json:"allocation_type"`
	Value     float64        `json:"allocation_value"`
}

// ResolveAllocations sums each rule's contribution against the given account
// balances (cents) and returns the fund balance in cents. An account missing
// from balances contributes zero. A fixed allocation never claims more than
// the account actually holds. An empty rule list resolves to zero.
func ResolveAllocations(rules []AllocationRule, balances map[string]int64) int64 {
	var total int64
	for _, rule := range rules {
		balance := balances[rule.AccountID]
		switch rule.Kind {
		case AllocationPercentage:
			total += int64(math.Round(float64(balance) * rule.Value / 100))
		case AllocationFixed:
			fixed := int64(math.Round(rule.Value))
			if fixed > balance {
				fixed = balance
			}
			total += fixed
		}
	}
	return total
}

// DecodeAllocations parses the JSON-encoded allocation list stored on goals
// and on the fund configuration. An empty string decodes to no rules.
func DecodeAllocations(s string) ([]AllocationRule, error) {
	if s == "" {
		return nil, nil
	}
	var rules []AllocationRule
	if err := json.Unmarshal([]byte(s), &rules); err != nil {
		return nil, fmt.Errorf("invalid allocation list: %w", err)
	}
	for i, rule := range rules {
		if !ValidAllocationKind(rule.Kind) {
			return nil, fmt.Errorf("allocation %d: unknown allocation_type %q", i, rule.Kind)
		}
	}
	return rules, nil
}

// EncodeAllocations serializes rules into the stored JSON form. A nil slice
// encodes as an empty list.
func EncodeAllocations(rules []AllocationRule) (string, error) {
	if rules == nil {
		rules = []AllocationRule{}
	}
	for i, rule := range rules {
		if !ValidAllocationKind(rule.Kind) {
			return "", fmt.Errorf("allocation %d: unknown allocation_type %q", i, rule.Kind)
		}
	}
	data, err := json.Marshal(rules)
	if err != nil {
		return "", fmt.Errorf("encode allocation list: %w", err)
	}
	return string(data), nil
}

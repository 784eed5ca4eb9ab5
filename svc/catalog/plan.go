// Package catalog is the static registry of purchasable subscription plans.
// Plans are versioned configuration, never mutated at runtime: a Source loads
// them once and the Catalog hands out copies. Feature lists on plans are
// display copy only; entitlement decisions come from svc/entitlement.
package catalog

import "time"

// BillingCycle is the recurrence unit governing plan price and expiry.
type BillingCycle string

const (
	CycleMonthly  BillingCycle = "monthly"
	CycleYearly   BillingCycle = "yearly"
	CycleSemester BillingCycle = "semester" // six calendar months, student pricing
)

// Valid reports whether the cycle is one of the known billing cycles.
func (c BillingCycle) Valid() bool {
	switch c {
	case CycleMonthly, CycleYearly, CycleSemester:
		return true
	}
	return false
}

// ExpiryFrom returns the subscription expiry for a cycle starting at the
// given time, using calendar arithmetic: one month, one year, or six months.
// time.AddDate normalizes overflow dates (Jan 31 + 1 month = Mar 2/3), which
// matches billing-anchor behavior.
func (c BillingCycle) ExpiryFrom(start time.Time) time.Time {
	switch c {
	case CycleYearly:
		return start.AddDate(1, 0, 0)
	case CycleSemester:
		return start.AddDate(0, 6, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}

// Plan is an immutable catalog entry. PriceCents avoids floating-point
// currency arithmetic.
type Plan struct {
	ID         string       `yaml:"id" json:"id"`
	Name       string       `yaml:"name" json:"name"`
	PriceCents int64        `yaml:"price_cents" json:"price_cents"`
	Currency   string       `yaml:"currency" json:"currency"`
	Cycle      BillingCycle `yaml:"cycle" json:"cycle"`
	Features   []string     `yaml:"features" json:"features"` // ordered display copy, not entitlement data
	Popular    bool         `yaml:"popular,omitempty" json:"popular,omitempty"`
	Savings    string       `yaml:"savings,omitempty" json:"savings,omitempty"` // e.g. "Save 36%"
}

// clone returns a deep copy so callers can never mutate catalog state.
func (p Plan) clone() Plan {
	cp := p
	cp.Features = append([]string(nil), p.Features...)
	return cp
}

// DefaultPlans returns the built-in three-plan catalog of the coding
// assistant: monthly, yearly and a semester plan for students.
func DefaultPlans() []Plan {
	return []Plan{
		{
			ID:         "pro-monthly",
			Name:       "Pro Monthly",
			PriceCents: 1299,
			Currency:   "USD",
			Cycle:      CycleMonthly,
			Features: []string{
				"Unlimited code analysis",
				"Unlimited code generation",
				"Unlimited problem solving",
				"Video explanations",
			},
		},
		{
			ID:         "pro-yearly",
			Name:       "Pro Yearly",
			PriceCents: 9999,
			Currency:   "USD",
			Cycle:      CycleYearly,
			Popular:    true,
			Savings:    "Save 36%",
			Features: []string{
				"Everything in Pro Monthly",
				"Priority AI responses",
				"Early access to new features",
			},
		},
		{
			ID:         "student-semester",
			Name:       "Student Semester",
			PriceCents: 4999,
			Currency:   "USD",
			Cycle:      CycleSemester,
			Savings:    "Student pricing",
			Features: []string{
				"Everything in Pro Monthly",
				"Valid for one semester",
			},
		},
	}
}

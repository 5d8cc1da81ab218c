package util

import "github.com/shopspring/decimal"

// BudgetProgress computes the derived budget fields from the cap and the spent
// amount. Percentage is rounded to two places; a budget at exactly 100% spent
// is not over budget.
func BudgetProgress(amount, spent float64) (remaining, percentageUsed float64, over bool) {
	a := decimal.NewFromFloat(amount)
	s := decimal.NewFromFloat(spent)

	remaining = a.Sub(s).InexactFloat64()
	if a.IsPositive() {
		percentageUsed = s.Div(a).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	over = s.GreaterThan(a)
	return remaining, percentageUsed, over
}

// GoalProgress computes the derived goal fields. Progress is capped at 100 and
// remaining is floored at zero once the goal is funded past its target.
func GoalProgress(target, current float64) (remaining, progressPercentage float64, achieved bool) {
	t := decimal.NewFromFloat(target)
	c := decimal.NewFromFloat(current)

	rem := t.Sub(c)
	if rem.IsNegative() {
		rem = decimal.Zero
	}
	remaining = rem.InexactFloat64()

	if t.IsPositive() {
		p := c.Div(t).Mul(decimal.NewFromInt(100)).Round(2)
		if p.GreaterThan(decimal.NewFromInt(100)) {
			p = decimal.NewFromInt(100)
		}
		progressPercentage = p.InexactFloat64()
		achieved = c.GreaterThanOrEqual(t)
	}
	return remaining, progressPercentage, achieved
}

// Utilization is spent/budgeted*100 across all active budgets, 0 when nothing
// is budgeted.
func Utilization(budgeted, spent float64) float64 {
	b := decimal.NewFromFloat(budgeted)
	if !b.IsPositive() {
		return 0
	}
	return decimal.NewFromFloat(spent).Div(b).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

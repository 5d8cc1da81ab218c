package util

import (
	"fmt"
	"time"
)

var BudgetPeriods = map[string]bool{
	"weekly":    true,
	"monthly":   true,
	"quarterly": true,
	"yearly":    true,
}

// DefaultPeriodStart is the first instant of the current month.
func DefaultPeriodStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// PeriodEnd derives a budget window's end date from its start and period.
func PeriodEnd(period string, start time.Time) (time.Time, error) {
	switch period {
	case "weekly":
		return start.AddDate(0, 0, 6), nil
	case "monthly":
		// Last day of the start month
		firstOfNext := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()).AddDate(0, 1, 0)
		return firstOfNext.AddDate(0, 0, -1), nil
	case "quarterly":
		return start.AddDate(0, 0, 90), nil
	case "yearly":
		return start.AddDate(1, 0, 0).AddDate(0, 0, -1), nil
	default:
		return time.Time{}, fmt.Errorf("invalid budget period: %s", period)
	}
}

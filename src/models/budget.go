package models

import "time"

type Budget struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Period    string    `json:"period"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BudgetStatus is a Budget with its derived fields, computed at read time
// from the transactions inside the budget window.
type BudgetStatus struct {
	Budget
	SpentAmount     float64 `json:"spent_amount"`
	RemainingAmount float64 `json:"remaining_amount"`
	PercentageUsed  float64 `json:"percentage_used"`
	OverBudget      bool    `json:"over_budget"`
}

type BudgetSummary struct {
	TotalBudgets      int     `json:"total_budgets"`
	TotalBudgeted     float64 `json:"total_budgeted"`
	TotalSpent        float64 `json:"total_spent"`
	Remaining         float64 `json:"remaining"`
	OverBudgetCount   int     `json:"over_budget_count"`
	BudgetUtilization float64 `json:"budget_utilization"`
}

type GoalSummary struct {
	TotalGoals      int     `json:"total_goals"`
	AchievedGoals   int     `json:"achieved_goals"`
	TotalTarget     float64 `json:"total_target"`
	TotalCurrent    float64 `json:"total_current"`
	OverallProgress float64 `json:"overall_progress"`
}

package handlers

import (
	"context"
	"encoding/json"
	db "finflow-server/src/db/sql"
	"finflow-server/src/models"
	"finflow-server/src/util"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// budgetStatus attaches the derived fields to a stored budget.
func budgetStatus(ctx context.Context, pool *pgxpool.Pool, b models.Budget) (*models.BudgetStatus, error) {
	spent, err := db.SumSpentInWindow(ctx, pool, b.UserID, b.Category, b.StartDate, b.EndDate)
	if err != nil {
		return nil, err
	}
	remaining, pct, over := util.BudgetProgress(b.Amount, spent)
	return &models.BudgetStatus{
		Budget:          b,
		SpentAmount:     spent,
		RemainingAmount: remaining,
		PercentageUsed:  pct,
		OverBudget:      over,
	}, nil
}

func CreateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name      string  `json:"name"`
			Category  string  `json:"category"`
			Amount    float64 `json:"amount"`
			Period    string  `json:"period"`
			StartDate *string `json:"start_date"`
			EndDate   *string `json:"end_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Amount <= 0 {
			http.Error(w, "budget amount must be positive", http.StatusBadRequest)
			return
		}
		if req.Category == "" {
			http.Error(w, "budget category is required", http.StatusBadRequest)
			return
		}
		if req.Period == "" {
			req.Period = "monthly"
		}
		if !util.BudgetPeriods[req.Period] {
			http.Error(w, "invalid budget period", http.StatusBadRequest)
			return
		}

		start := util.DefaultPeriodStart(time.Now())
		if req.StartDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.StartDate)
			if err != nil {
				http.Error(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			start = parsed
		}

		var end time.Time
		if req.EndDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.EndDate)
			if err != nil {
				http.Error(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = parsed
		} else {
			var err error
			end, err = util.PeriodEnd(req.Period, start)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		budget := &models.Budget{
			UserID:    userID,
			Name:      req.Name,
			Category:  req.Category,
			Amount:    req.Amount,
			Period:    req.Period,
			StartDate: start,
			EndDate:   end,
		}
		created, err := db.CreateBudget(r.Context(), pool, budget)
		if err != nil {
			log.Printf("ERROR: Failed to create budget for user %d: %v", userID, err)
			http.Error(w, "failed to create budget", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created budget id %d for user %d, category %s", created.ID, userID, created.Category)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetBudgetByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgetID, err := strconv.ParseInt(chi.URLParam(r, "budget_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid budget id param: %s", chi.URLParam(r, "budget_id"))
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}
		budget, err := db.GetBudgetByID(r.Context(), pool, userID, budgetID)
		if err != nil {
			log.Printf("ERROR: Budget id %d not found for user %d: %v", budgetID, userID, err)
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		status, err := budgetStatus(r.Context(), pool, *budget)
		if err != nil {
			log.Printf("ERROR: Failed to compute budget status for budget %d: %v", budgetID, err)
			http.Error(w, "failed to get budget", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}

func GetAllBudgets(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var isActive *bool
		if v := r.URL.Query().Get("is_active"); v != "" {
			parsed := v == "true"
			isActive = &parsed
		}

		budgets, err := db.GetAllBudgetsForUser(r.Context(), pool, userID, isActive)
		if err != nil {
			log.Printf("ERROR: Failed to get budgets for user %d: %v", userID, err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}

		statuses := make([]models.BudgetStatus, 0, len(budgets))
		for _, b := range budgets {
			status, err := budgetStatus(r.Context(), pool, b)
			if err != nil {
				log.Printf("ERROR: Failed to compute budget status for budget %d: %v", b.ID, err)
				http.Error(w, "failed to get budgets", http.StatusInternalServerError)
				return
			}
			statuses = append(statuses, *status)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"budgets":       statuses,
			"total_budgets": len(statuses),
		})
	}
}

func UpdateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgetID, err := strconv.ParseInt(chi.URLParam(r, "budget_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid budget id param: %s", chi.URLParam(r, "budget_id"))
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}

		existing, err := db.GetBudgetByID(r.Context(), pool, userID, budgetID)
		if err != nil {
			log.Printf("ERROR: Budget id %d not found for user %d: %v", budgetID, userID, err)
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}

		var req struct {
			Name     *string  `json:"name"`
			Category *string  `json:"category"`
			Amount   *float64 `json:"amount"`
			IsActive *bool    `json:"is_active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if req.Name != nil {
			existing.Name = *req.Name
		}
		if req.Category != nil {
			existing.Category = *req.Category
		}
		if req.Amount != nil {
			if *req.Amount <= 0 {
				http.Error(w, "budget amount must be positive", http.StatusBadRequest)
				return
			}
			existing.Amount = *req.Amount
		}
		if req.IsActive != nil {
			existing.IsActive = *req.IsActive
		}

		updated, err := db.UpdateBudget(r.Context(), pool, existing)
		if err != nil {
			log.Printf("ERROR: Failed to update budget id %d for user %d: %v", budgetID, userID, err)
			http.Error(w, "failed to update budget", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated budget id %d for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgetID, err := strconv.ParseInt(chi.URLParam(r, "budget_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid budget id param: %s", chi.URLParam(r, "budget_id"))
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}
		err = db.DeleteBudget(r.Context(), pool, userID, budgetID)
		if err != nil {
			log.Printf("ERROR: Failed to delete budget id %d for user %d: %v", budgetID, userID, err)
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted budget id %d for user %d", budgetID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "budget deleted"})
	}
}

// GetBudgetSummary rolls active budgets and goals up into one overview.
func GetBudgetSummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		active := true

		budgets, err := db.GetAllBudgetsForUser(r.Context(), pool, userID, &active)
		if err != nil {
			log.Printf("ERROR: Failed to get budgets for summary - user %d: %v", userID, err)
			http.Error(w, "failed to get summary", http.StatusInternalServerError)
			return
		}

		var budgetSummary models.BudgetSummary
		budgetSummary.TotalBudgets = len(budgets)
		for _, b := range budgets {
			spent, err := db.SumSpentInWindow(r.Context(), pool, userID, b.Category, b.StartDate, b.EndDate)
			if err != nil {
				log.Printf("ERROR: Failed to sum spent for budget %d: %v", b.ID, err)
				http.Error(w, "failed to get summary", http.StatusInternalServerError)
				return
			}
			budgetSummary.TotalBudgeted += b.Amount
			budgetSummary.TotalSpent += spent
			if _, _, over := util.BudgetProgress(b.Amount, spent); over {
				budgetSummary.OverBudgetCount++
			}
		}
		budgetSummary.Remaining = budgetSummary.TotalBudgeted - budgetSummary.TotalSpent
		budgetSummary.BudgetUtilization = util.Utilization(budgetSummary.TotalBudgeted, budgetSummary.TotalSpent)

		goals, err := db.GetAllGoalsForUser(r.Context(), pool, userID, &active)
		if err != nil {
			log.Printf("ERROR: Failed to get goals for summary - user %d: %v", userID, err)
			http.Error(w, "failed to get summary", http.StatusInternalServerError)
			return
		}

		var goalSummary models.GoalSummary
		goalSummary.TotalGoals = len(goals)
		for _, g := range goals {
			goalSummary.TotalTarget += g.TargetAmount
			goalSummary.TotalCurrent += g.CurrentAmount
			if g.IsAchieved {
				goalSummary.AchievedGoals++
			}
		}
		goalSummary.OverallProgress = util.Utilization(goalSummary.TotalTarget, goalSummary.TotalCurrent)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"budgets": budgetSummary,
			"goals":   goalSummary,
		})
	}
}

package handlers

import (
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

// recomputeAchievement reconciles the achievement flags with the amounts.
// Funding past the target sets the flag and stamps the time; raising the
// target back above the current amount clears both.
func recomputeAchievement(g *models.Goal, now time.Time) {
	_, _, achieved := util.GoalProgress(g.TargetAmount, g.CurrentAmount)
	switch {
	case achieved && !g.IsAchieved:
		g.IsAchieved = true
		g.AchievedAt = &now
	case !achieved && g.IsAchieved:
		g.IsAchieved = false
		g.AchievedAt = nil
	}
}

func goalStatus(g models.Goal) models.GoalStatus {
	remaining, progress, _ := util.GoalProgress(g.TargetAmount, g.CurrentAmount)
	return models.GoalStatus{
		Goal:               g,
		RemainingAmount:    remaining,
		ProgressPercentage: progress,
	}
}

func CreateGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name         string  `json:"name"`
			Description  *string `json:"description"`
			TargetAmount float64 `json:"target_amount"`
			TargetDate   *string `json:"target_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create goal request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "goal name is required", http.StatusBadRequest)
			return
		}
		if req.TargetAmount <= 0 {
			http.Error(w, "target amount must be positive", http.StatusBadRequest)
			return
		}

		var targetDate *time.Time
		if req.TargetDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.TargetDate)
			if err != nil {
				http.Error(w, "invalid target_date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			targetDate = &parsed
		}

		goal := &models.Goal{
			UserID:       userID,
			Name:         req.Name,
			Description:  req.Description,
			TargetAmount: req.TargetAmount,
			TargetDate:   targetDate,
		}
		created, err := db.CreateGoal(r.Context(), pool, goal)
		if err != nil {
			log.Printf("ERROR: Failed to create goal for user %d: %v", userID, err)
			http.Error(w, "failed to create goal", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created goal id %d for user %d, target %.2f", created.ID, userID, created.TargetAmount)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(goalStatus(*created))
	}
}

func GetGoalByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		goalID, err := strconv.ParseInt(chi.URLParam(r, "goal_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid goal id param: %s", chi.URLParam(r, "goal_id"))
			http.Error(w, "invalid goal id", http.StatusBadRequest)
			return
		}
		goal, err := db.GetGoalByID(r.Context(), pool, userID, goalID)
		if err != nil {
			log.Printf("ERROR: Goal id %d not found for user %d: %v", goalID, userID, err)
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(goalStatus(*goal))
	}
}

func GetAllGoals(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var isActive *bool
		if v := r.URL.Query().Get("is_active"); v != "" {
			parsed := v == "true"
			isActive = &parsed
		}

		goals, err := db.GetAllGoalsForUser(r.Context(), pool, userID, isActive)
		if err != nil {
			log.Printf("ERROR: Failed to get goals for user %d: %v", userID, err)
			http.Error(w, "failed to get goals", http.StatusInternalServerError)
			return
		}

		statuses := make([]models.GoalStatus, 0, len(goals))
		for _, g := range goals {
			statuses = append(statuses, goalStatus(g))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"goals":       statuses,
			"total_goals": len(statuses),
		})
	}
}

func UpdateGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		goalID, err := strconv.ParseInt(chi.URLParam(r, "goal_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid goal id param: %s", chi.URLParam(r, "goal_id"))
			http.Error(w, "invalid goal id", http.StatusBadRequest)
			return
		}

		existing, err := db.GetGoalByID(r.Context(), pool, userID, goalID)
		if err != nil {
			log.Printf("ERROR: Goal id %d not found for user %d: %v", goalID, userID, err)
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}

		var req struct {
			Name          *string  `json:"name"`
			Description   *string  `json:"description"`
			TargetAmount  *float64 `json:"target_amount"`
			CurrentAmount *float64 `json:"current_amount"`
			TargetDate    *string  `json:"target_date"`
			IsActive      *bool    `json:"is_active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update goal request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if req.Name != nil {
			existing.Name = *req.Name
		}
		if req.Description != nil {
			existing.Description = req.Description
		}
		if req.TargetAmount != nil {
			if *req.TargetAmount <= 0 {
				http.Error(w, "target amount must be positive", http.StatusBadRequest)
				return
			}
			existing.TargetAmount = *req.TargetAmount
		}
		if req.CurrentAmount != nil {
			if *req.CurrentAmount < 0 {
				http.Error(w, "current amount must be non-negative", http.StatusBadRequest)
				return
			}
			existing.CurrentAmount = *req.CurrentAmount
		}
		if req.TargetDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.TargetDate)
			if err != nil {
				http.Error(w, "invalid target_date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			existing.TargetDate = &parsed
		}
		if req.IsActive != nil {
			existing.IsActive = *req.IsActive
		}

		recomputeAchievement(existing, time.Now())

		updated, err := db.UpdateGoal(r.Context(), pool, existing)
		if err != nil {
			log.Printf("ERROR: Failed to update goal id %d for user %d: %v", goalID, userID, err)
			http.Error(w, "failed to update goal", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated goal id %d for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(goalStatus(*updated))
	}
}

func ContributeToGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		goalID, err := strconv.ParseInt(chi.URLParam(r, "goal_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid goal id param: %s", chi.URLParam(r, "goal_id"))
			http.Error(w, "invalid goal id", http.StatusBadRequest)
			return
		}

		var req struct {
			Amount float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode contribute request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Amount <= 0 {
			http.Error(w, "contribution amount must be positive", http.StatusBadRequest)
			return
		}

		updated, err := db.ContributeToGoal(r.Context(), pool, userID, goalID, req.Amount)
		if err != nil {
			log.Printf("ERROR: Failed to contribute to goal id %d for user %d: %v", goalID, userID, err)
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Contributed %.2f to goal id %d for user %d", req.Amount, goalID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(goalStatus(*updated))
	}
}

func DeleteGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		goalID, err := strconv.ParseInt(chi.URLParam(r, "goal_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid goal id param: %s", chi.URLParam(r, "goal_id"))
			http.Error(w, "invalid goal id", http.StatusBadRequest)
			return
		}
		err = db.DeleteGoal(r.Context(), pool, userID, goalID)
		if err != nil {
			log.Printf("ERROR: Failed to delete goal id %d for user %d: %v", goalID, userID, err)
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted goal id %d for user %d", goalID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "goal deleted"})
	}
}

package handlers

import (
	"encoding/json"
	db "finflow-server/src/db/sql"
	"finflow-server/src/models"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateCategoryRule(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name       string          `json:"name"`
			Conditions json.RawMessage `json:"conditions"`
			Category   string          `json:"category"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create rule request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Name == "" || req.Category == "" {
			http.Error(w, "rule name and category are required", http.StatusBadRequest)
			return
		}
		var cond models.Condition
		if err := json.Unmarshal(req.Conditions, &cond); err != nil {
			http.Error(w, "invalid rule conditions", http.StatusBadRequest)
			return
		}

		rule := &models.CategoryRule{
			UserID:     userID,
			Name:       req.Name,
			Conditions: req.Conditions,
			Category:   req.Category,
		}
		created, err := db.CreateCategoryRule(r.Context(), pool, rule)
		if err != nil {
			log.Printf("ERROR: Failed to create category rule for user %d: %v", userID, err)
			http.Error(w, "failed to create rule", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created category rule id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllCategoryRules(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		rules, err := db.GetAllCategoryRules(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get category rules for user %d: %v", userID, err)
			http.Error(w, "failed to get rules", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"rules":       rules,
			"total_rules": len(rules),
		})
	}
}

func GetCategoryRuleByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		ruleID, err := strconv.ParseInt(chi.URLParam(r, "rule_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid rule id param: %s", chi.URLParam(r, "rule_id"))
			http.Error(w, "invalid rule id", http.StatusBadRequest)
			return
		}
		rule, err := db.GetCategoryRuleByID(r.Context(), pool, userID, ruleID)
		if err != nil {
			log.Printf("ERROR: Category rule id %d not found for user %d: %v", ruleID, userID, err)
			http.Error(w, "rule not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rule)
	}
}

func UpdateCategoryRule(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		ruleID, err := strconv.ParseInt(chi.URLParam(r, "rule_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid rule id param: %s", chi.URLParam(r, "rule_id"))
			http.Error(w, "invalid rule id", http.StatusBadRequest)
			return
		}

		existing, err := db.GetCategoryRuleByID(r.Context(), pool, userID, ruleID)
		if err != nil {
			log.Printf("ERROR: Category rule id %d not found for user %d: %v", ruleID, userID, err)
			http.Error(w, "rule not found", http.StatusNotFound)
			return
		}

		var req struct {
			Name       *string         `json:"name"`
			Conditions json.RawMessage `json:"conditions"`
			Category   *string         `json:"category"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update rule request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if req.Name != nil {
			existing.Name = *req.Name
		}
		if req.Category != nil {
			existing.Category = *req.Category
		}
		if len(req.Conditions) > 0 {
			var cond models.Condition
			if err := json.Unmarshal(req.Conditions, &cond); err != nil {
				http.Error(w, "invalid rule conditions", http.StatusBadRequest)
				return
			}
			existing.Conditions = req.Conditions
		}

		updated, err := db.UpdateCategoryRule(r.Context(), pool, existing)
		if err != nil {
			log.Printf("ERROR: Failed to update category rule id %d for user %d: %v", ruleID, userID, err)
			http.Error(w, "failed to update rule", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated category rule id %d for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteCategoryRule(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		ruleID, err := strconv.ParseInt(chi.URLParam(r, "rule_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid rule id param: %s", chi.URLParam(r, "rule_id"))
			http.Error(w, "invalid rule id", http.StatusBadRequest)
			return
		}
		err = db.DeleteCategoryRule(r.Context(), pool, userID, ruleID)
		if err != nil {
			log.Printf("ERROR: Failed to delete category rule id %d for user %d: %v", ruleID, userID, err)
			http.Error(w, "rule not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted category rule id %d for user %d", ruleID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "rule deleted"})
	}
}

// ApplyCategoryRules runs every rule of the caller over their full
// transaction history and reports how many rows were recategorized.
func ApplyCategoryRules(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		adjusted, err := db.ApplyCategoryRulesToUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to apply category rules for user %d: %v", userID, err)
			http.Error(w, "failed to apply rules", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":               "rules applied",
			"transactions_adjusted": adjusted,
		})
	}
}

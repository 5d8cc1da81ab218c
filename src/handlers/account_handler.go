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

// Credit accounts may carry a negative balance; every other type must not.
func validBalance(accountType string, balance float64) bool {
	return accountType == "credit" || balance >= 0
}

func CreateAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name             string   `json:"name"`
			Type             string   `json:"type"`
			InstitutionName  *string  `json:"institution_name"`
			CurrentBalance   float64  `json:"current_balance"`
			AvailableBalance *float64 `json:"available_balance"`
			CreditLimit      *float64 `json:"credit_limit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create account request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "account name is required", http.StatusBadRequest)
			return
		}
		if !models.AccountTypes[req.Type] {
			http.Error(w, "invalid account type", http.StatusBadRequest)
			return
		}
		if !validBalance(req.Type, req.CurrentBalance) {
			http.Error(w, "balance must be non-negative", http.StatusBadRequest)
			return
		}

		account := &models.Account{
			UserID:           userID,
			Name:             req.Name,
			Type:             req.Type,
			InstitutionName:  req.InstitutionName,
			CurrentBalance:   req.CurrentBalance,
			AvailableBalance: req.AvailableBalance,
			CreditLimit:      req.CreditLimit,
			IsManual:         true,
		}
		created, err := db.CreateAccount(r.Context(), pool, account)
		if err != nil {
			log.Printf("ERROR: Failed to create account for user %d: %v", userID, err)
			http.Error(w, "failed to create account", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created account id %d for user %d, type %s", created.ID, userID, created.Type)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAccountByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID, err := strconv.ParseInt(chi.URLParam(r, "account_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid account id param: %s", chi.URLParam(r, "account_id"))
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}
		account, err := db.GetAccountByID(r.Context(), pool, userID, accountID)
		if err != nil {
			log.Printf("ERROR: Account id %d not found for user %d: %v", accountID, userID, err)
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(account)
	}
}

func GetAllAccounts(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		activeOnly := r.URL.Query().Get("include_inactive") != "true"

		accounts, err := db.GetAllAccountsForUser(r.Context(), pool, userID, activeOnly)
		if err != nil {
			log.Printf("ERROR: Failed to get accounts for user %d: %v", userID, err)
			http.Error(w, "failed to get accounts", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"accounts":       accounts,
			"total_accounts": len(accounts),
		})
	}
}

func UpdateAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID, err := strconv.ParseInt(chi.URLParam(r, "account_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid account id param: %s", chi.URLParam(r, "account_id"))
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		existing, err := db.GetAccountByID(r.Context(), pool, userID, accountID)
		if err != nil {
			log.Printf("ERROR: Account id %d not found for user %d: %v", accountID, userID, err)
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		var req struct {
			Name             *string  `json:"name"`
			InstitutionName  *string  `json:"institution_name"`
			CurrentBalance   *float64 `json:"current_balance"`
			AvailableBalance *float64 `json:"available_balance"`
			CreditLimit      *float64 `json:"credit_limit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update account request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if req.Name != nil {
			existing.Name = *req.Name
		}
		if req.InstitutionName != nil {
			existing.InstitutionName = req.InstitutionName
		}
		if req.CurrentBalance != nil {
			if !validBalance(existing.Type, *req.CurrentBalance) {
				http.Error(w, "balance must be non-negative", http.StatusBadRequest)
				return
			}
			existing.CurrentBalance = *req.CurrentBalance
		}
		if req.AvailableBalance != nil {
			existing.AvailableBalance = req.AvailableBalance
		}
		if req.CreditLimit != nil {
			existing.CreditLimit = req.CreditLimit
		}

		updated, err := db.UpdateAccount(r.Context(), pool, existing)
		if err != nil {
			log.Printf("ERROR: Failed to update account id %d for user %d: %v", accountID, userID, err)
			http.Error(w, "failed to update account", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated account id %d for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID, err := strconv.ParseInt(chi.URLParam(r, "account_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid account id param: %s", chi.URLParam(r, "account_id"))
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}
		err = db.DeactivateAccount(r.Context(), pool, userID, accountID)
		if err != nil {
			log.Printf("ERROR: Failed to deactivate account id %d for user %d: %v", accountID, userID, err)
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deactivated account id %d for user %d", accountID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "account deleted"})
	}
}

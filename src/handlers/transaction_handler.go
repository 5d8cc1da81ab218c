package handlers

import (
	"encoding/json"
	db "finflow-server/src/db/sql"
	"finflow-server/src/models"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			AccountID    int64   `json:"account_id"`
			Amount       float64 `json:"amount"`
			Description  string  `json:"description"`
			MerchantName *string `json:"merchant_name"`
			Category     string  `json:"category"`
			Date         *string `json:"date"`
			Notes        *string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		// Verify account belongs to the caller
		if _, err := db.GetAccountByID(r.Context(), pool, userID, req.AccountID); err != nil {
			log.Printf("ERROR: Account id %d not found for user %d: %v", req.AccountID, userID, err)
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		date := time.Now()
		if req.Date != nil {
			parsed, err := time.Parse("2006-01-02", *req.Date)
			if err != nil {
				http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = parsed
		}

		category := req.Category
		if category == "" {
			category = "uncategorized"
		}

		txn := &models.Transaction{
			UserID:       userID,
			AccountID:    req.AccountID,
			Amount:       req.Amount,
			Description:  req.Description,
			MerchantName: req.MerchantName,
			Category:     category,
			Date:         date,
			Notes:        req.Notes,
		}
		created, err := db.CreateTransaction(r.Context(), pool, txn)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for user %d: %v", userID, err)
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created transaction id %d for user %d, category %s", created.ID, userID, created.Category)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		filter := db.TransactionFilter{
			Category: r.URL.Query().Get("category"),
		}
		if v := r.URL.Query().Get("account_id"); v != "" {
			accountID, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				http.Error(w, "invalid account_id", http.StatusBadRequest)
				return
			}
			filter.AccountID = &accountID
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			limit, err := strconv.Atoi(v)
			if err != nil || limit < 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			filter.Limit = limit
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			offset, err := strconv.Atoi(v)
			if err != nil || offset < 0 {
				http.Error(w, "invalid offset", http.StatusBadRequest)
				return
			}
			filter.Offset = offset
		}

		txns, err := db.GetTransactions(r.Context(), pool, userID, filter)
		if err != nil {
			log.Printf("ERROR: Failed to get transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transactions": txns,
			"count":        len(txns),
			"offset":       filter.Offset,
		})
	}
}

func GetTransactionByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		txnID, err := strconv.ParseInt(chi.URLParam(r, "transaction_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", chi.URLParam(r, "transaction_id"))
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		txn, err := db.GetTransactionByID(r.Context(), pool, userID, txnID)
		if err != nil {
			log.Printf("ERROR: Transaction id %d not found for user %d: %v", txnID, userID, err)
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(txn)
	}
}

func UpdateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		txnID, err := strconv.ParseInt(chi.URLParam(r, "transaction_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", chi.URLParam(r, "transaction_id"))
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		var req struct {
			Category    *string `json:"category"`
			Description *string `json:"description"`
			Notes       *string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		updated, err := db.UpdateTransaction(r.Context(), pool, userID, txnID, req.Category, req.Description, req.Notes)
		if err != nil {
			log.Printf("ERROR: Failed to update transaction id %d for user %d: %v", txnID, userID, err)
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Updated transaction id %d for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		txnID, err := strconv.ParseInt(chi.URLParam(r, "transaction_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", chi.URLParam(r, "transaction_id"))
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		err = db.DeleteTransaction(r.Context(), pool, userID, txnID)
		if err != nil {
			log.Printf("ERROR: Failed to delete transaction id %d for user %d: %v", txnID, userID, err)
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted transaction id %d for user %d", txnID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "transaction deleted"})
	}
}

func GetCategorySummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var start, end *time.Time
		if v := r.URL.Query().Get("start_date"); v != "" {
			parsed, err := time.Parse("2006-01-02", v)
			if err != nil {
				http.Error(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			start = &parsed
		}
		if v := r.URL.Query().Get("end_date"); v != "" {
			parsed, err := time.Parse("2006-01-02", v)
			if err != nil {
				http.Error(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = &parsed
		}

		totals, err := db.CategorySummary(r.Context(), pool, userID, start, end)
		if err != nil {
			log.Printf("ERROR: Failed to get category summary for user %d: %v", userID, err)
			http.Error(w, "failed to get category summary", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"categories":       totals,
			"total_categories": len(totals),
		})
	}
}

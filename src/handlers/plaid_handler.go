package handlers

import (
	"encoding/json"
	db "finflow-server/src/db/sql"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
)

func CreateLinkToken(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		user := plaid.LinkTokenCreateRequestUser{
			ClientUserId: strconv.FormatInt(userID, 10),
		}
		request := plaid.NewLinkTokenCreateRequest(
			"FinFlow",
			"en",
			[]plaid.CountryCode{plaid.COUNTRYCODE_US},
		)
		request.SetUser(user)
		request.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})
		resp, _, err := plaidClient.PlaidApi.LinkTokenCreate(r.Context()).LinkTokenCreateRequest(*request).Execute()
		if err != nil {
			log.Printf("ERROR: Plaid link token creation failed for user %d: %v", userID, err)
			http.Error(w, "Failed to create link token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"link_token": resp.GetLinkToken(),
		})
	}
}

func ExchangePublicToken(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			PublicToken string `json:"public_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode exchange public token request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.PublicToken == "" {
			http.Error(w, "public_token is required", http.StatusBadRequest)
			return
		}

		exchangeReq := plaid.NewItemPublicTokenExchangeRequest(req.PublicToken)
		exchangeResp, _, err := plaidClient.PlaidApi.ItemPublicTokenExchange(r.Context()).ItemPublicTokenExchangeRequest(*exchangeReq).Execute()
		if err != nil {
			log.Printf("ERROR: Plaid public token exchange failed for user %d: %v", userID, err)
			http.Error(w, "Failed to exchange public token", http.StatusInternalServerError)
			return
		}

		accessToken := exchangeResp.GetAccessToken()
		itemID := exchangeResp.GetItemId()

		// Institution details are optional, the link still works without them.
		institutionName := ""
		itemReq := plaid.NewItemGetRequest(accessToken)
		itemResp, _, err := plaidClient.PlaidApi.ItemGet(r.Context()).ItemGetRequest(*itemReq).Execute()
		if err != nil {
			log.Printf("ERROR: Failed to fetch item details for user %d: %v", userID, err)
		} else {
			item := itemResp.GetItem()
			institutionName = item.GetInstitutionName()
		}

		itemRowID, err := db.SavePlaidItem(r.Context(), pool, userID, itemID, accessToken, institutionName)
		if err != nil {
			log.Printf("ERROR: Failed to save plaid item for user %d: %v", userID, err)
			http.Error(w, "Failed to save plaid item", http.StatusInternalServerError)
			return
		}

		accountsReq := plaid.NewAccountsGetRequest(accessToken)
		accountsResp, _, err := plaidClient.PlaidApi.AccountsGet(r.Context()).AccountsGetRequest(*accountsReq).Execute()
		if err != nil {
			log.Printf("ERROR: Failed to fetch accounts for user %d, item %s: %v", userID, itemID, err)
			http.Error(w, "Failed to fetch accounts from Plaid", http.StatusInternalServerError)
			return
		}

		err = db.SavePlaidAccounts(r.Context(), pool, userID, itemRowID, institutionName, accountsResp.GetAccounts())
		if err != nil {
			log.Printf("ERROR: Failed to save accounts for user %d: %v", userID, err)
			http.Error(w, "Failed to save accounts", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Linked plaid item %s for user %d with %d accounts", itemID, userID, len(accountsResp.GetAccounts()))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"item_id":          itemRowID,
			"institution_name": institutionName,
			"accounts_linked":  len(accountsResp.GetAccounts()),
		})
	}
}

func GetPlaidItems(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		items, err := db.GetPlaidItemsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get plaid items for user %d: %v", userID, err)
			http.Error(w, "Failed to retrieve plaid items", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items":       items,
			"total_items": len(items),
		})
	}
}

// SyncTransactions pulls the item's transaction feed forward from the stored
// cursor, applying added, modified, and removed entries until Plaid reports
// no more pages.
func SyncTransactions(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		itemRowID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid plaid item id param: %s", chi.URLParam(r, "item_id"))
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}

		item, err := db.GetPlaidItemByID(r.Context(), pool, userID, itemRowID)
		if err != nil {
			log.Printf("ERROR: Plaid item %d not found for user %d: %v", itemRowID, userID, err)
			http.Error(w, "plaid item not found", http.StatusNotFound)
			return
		}

		cursor := item.SyncCursor
		added, modified, removed := 0, 0, 0
		for {
			request := plaid.NewTransactionsSyncRequest(item.AccessToken)
			if cursor != "" {
				request.SetCursor(cursor)
			}

			resp, _, err := plaidClient.PlaidApi.TransactionsSync(r.Context()).TransactionsSyncRequest(*request).Execute()
			if err != nil {
				log.Printf("ERROR: Failed to sync transactions for user %d, item %d: %v", userID, itemRowID, err)
				http.Error(w, "Failed to sync transactions", http.StatusInternalServerError)
				return
			}

			if err := db.SaveSyncedTransactions(r.Context(), pool, userID, resp.GetAdded()); err != nil {
				log.Printf("ERROR: Failed to save added transactions for user %d: %v", userID, err)
				http.Error(w, "Failed to save transactions", http.StatusInternalServerError)
				return
			}
			if err := db.SaveSyncedTransactions(r.Context(), pool, userID, resp.GetModified()); err != nil {
				log.Printf("ERROR: Failed to save modified transactions for user %d: %v", userID, err)
				http.Error(w, "Failed to save transactions", http.StatusInternalServerError)
				return
			}
			if err := db.RemoveSyncedTransactions(r.Context(), pool, userID, resp.GetRemoved()); err != nil {
				log.Printf("ERROR: Failed to remove transactions for user %d: %v", userID, err)
				http.Error(w, "Failed to remove transactions", http.StatusInternalServerError)
				return
			}

			added += len(resp.GetAdded())
			modified += len(resp.GetModified())
			removed += len(resp.GetRemoved())
			cursor = resp.GetNextCursor()

			if !resp.GetHasMore() {
				break
			}
		}

		if err := db.UpdateSyncCursor(r.Context(), pool, itemRowID, cursor); err != nil {
			log.Printf("ERROR: Failed to update sync cursor for item %d: %v", itemRowID, err)
			http.Error(w, "Failed to update sync cursor", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Synced plaid item %d for user %d: %d added, %d modified, %d removed", itemRowID, userID, added, modified, removed)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"added":    added,
			"modified": modified,
			"removed":  removed,
		})
	}
}

func DeletePlaidItem(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		itemRowID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid plaid item id param: %s", chi.URLParam(r, "item_id"))
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}

		err = db.DeletePlaidItem(r.Context(), pool, userID, itemRowID)
		if err != nil {
			log.Printf("ERROR: Failed to delete plaid item %d for user %d: %v", itemRowID, userID, err)
			http.Error(w, "plaid item not found", http.StatusNotFound)
			return
		}

		log.Printf("INFO: Deleted plaid item %d for user %d", itemRowID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "plaid item deleted"})
	}
}

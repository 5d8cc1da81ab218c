package db

import (
	"context"
	"finflow-server/src/db"
	"finflow-server/src/models"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
)

func SavePlaidItem(ctx context.Context, pool *pgxpool.Pool, userID int64, itemID, accessToken, institutionName string) (int64, error) {
	query := `
		INSERT INTO plaid_items (user_id, item_id, access_token, institution_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id) DO UPDATE SET access_token = $3
		RETURNING id
	`
	var id int64
	err := pool.QueryRow(ctx, query, userID, itemID, accessToken, institutionName).Scan(&id)
	return id, err
}

func GetPlaidItemsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.PlaidItem, error) {
	query := `
		SELECT id, user_id, item_id, access_token, institution_name, COALESCE(sync_cursor, ''), created_at
		FROM plaid_items
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.PlaidItem
	for rows.Next() {
		var item models.PlaidItem
		err := rows.Scan(&item.ID, &item.UserID, &item.ItemID, &item.AccessToken, &item.InstitutionName, &item.SyncCursor, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func GetPlaidItemByID(ctx context.Context, pool *pgxpool.Pool, userID, id int64) (*models.PlaidItem, error) {
	query := `
		SELECT id, user_id, item_id, access_token, institution_name, COALESCE(sync_cursor, ''), created_at
		FROM plaid_items
		WHERE id = $1 AND user_id = $2
	`
	var item models.PlaidItem
	err := pool.QueryRow(ctx, query, id, userID).
		Scan(&item.ID, &item.UserID, &item.ItemID, &item.AccessToken, &item.InstitutionName, &item.SyncCursor, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateSyncCursor(ctx context.Context, pool *pgxpool.Pool, itemID int64, cursor string) error {
	query := `UPDATE plaid_items SET sync_cursor = $1 WHERE id = $2`
	_, err := pool.Exec(ctx, query, cursor, itemID)
	return err
}

// DeletePlaidItem unlinks the item and deactivates the accounts it imported.
func DeletePlaidItem(ctx context.Context, pool *pgxpool.Pool, userID, itemID int64) error {
	_, err := pool.Exec(ctx,
		`UPDATE accounts SET is_active = false, updated_at = NOW() WHERE user_id = $1 AND plaid_item_id = $2`,
		userID, itemID)
	if err != nil {
		return err
	}

	cmd, err := pool.Exec(ctx, `DELETE FROM plaid_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("plaid item not found")
	}

	db.ClearAllAccountCaches()
	return nil
}

// SavePlaidAccounts upserts the accounts Plaid reports for an item as
// non-manual accounts of the owning user.
func SavePlaidAccounts(ctx context.Context, pool *pgxpool.Pool, userID, itemRowID int64, institutionName string, accounts []plaid.AccountBase) error {
	for _, acc := range accounts {
		balances := acc.GetBalances()
		query := `
			INSERT INTO accounts (user_id, name, type, institution_name, current_balance, available_balance, is_manual, plaid_account_id, plaid_item_id)
			VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8)
			ON CONFLICT (plaid_account_id) DO UPDATE SET
				name = $2,
				current_balance = $5,
				available_balance = $6,
				is_active = true,
				updated_at = NOW()
		`
		_, err := pool.Exec(ctx, query,
			userID,
			acc.GetName(),
			plaidAccountType(string(acc.GetType())),
			institutionName,
			balances.GetCurrent(),
			balances.GetAvailable(),
			acc.GetAccountId(),
			itemRowID,
		)
		if err != nil {
			return err
		}
	}

	db.ClearAllAccountCaches()
	return nil
}

// plaidAccountType maps Plaid's account taxonomy onto ours.
func plaidAccountType(t string) string {
	switch strings.ToLower(t) {
	case "depository":
		return "checking"
	case "credit":
		return "credit"
	case "investment", "brokerage":
		return "investment"
	default:
		return "checking"
	}
}

// SaveSyncedTransactions upserts added and modified transactions from a sync
// page, resolving Plaid account ids to our account rows.
func SaveSyncedTransactions(ctx context.Context, pool *pgxpool.Pool, userID int64, transactions []plaid.Transaction) error {
	for _, txn := range transactions {
		category := "uncategorized"
		if pfc, ok := txn.GetPersonalFinanceCategoryOk(); ok {
			category = strings.ToLower(pfc.GetPrimary())
		}

		merchant := txn.GetMerchantName()
		query := `
			INSERT INTO transactions (user_id, account_id, amount, description, merchant_name, category, date, pending, plaid_transaction_id)
			SELECT $1, a.id, $2, $3, NULLIF($4, ''), $5, $6, $7, $8
			FROM accounts a
			WHERE a.user_id = $1 AND a.plaid_account_id = $9
			ON CONFLICT (plaid_transaction_id) DO UPDATE SET
				amount = $2,
				description = $3,
				merchant_name = NULLIF($4, ''),
				category = $5,
				date = $6,
				pending = $7,
				updated_at = NOW()
		`
		_, err := pool.Exec(ctx, query,
			userID,
			txn.GetAmount(),
			txn.GetName(),
			merchant,
			category,
			txn.GetDate(),
			txn.GetPending(),
			txn.GetTransactionId(),
			txn.GetAccountId(),
		)
		if err != nil {
			return err
		}
	}

	if len(transactions) > 0 {
		db.ClearAllTransactionCaches()
	}
	return nil
}

// RemoveSyncedTransactions deletes transactions Plaid reports as removed.
func RemoveSyncedTransactions(ctx context.Context, pool *pgxpool.Pool, userID int64, removed []plaid.RemovedTransaction) error {
	for _, txn := range removed {
		_, err := pool.Exec(ctx,
			`DELETE FROM transactions WHERE user_id = $1 AND plaid_transaction_id = $2`,
			userID, txn.GetTransactionId())
		if err != nil {
			return err
		}
	}

	if len(removed) > 0 {
		db.ClearAllTransactionCaches()
	}
	return nil
}

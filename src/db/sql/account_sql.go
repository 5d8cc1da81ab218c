package db

import (
	"context"
	"finflow-server/src/db"
	"finflow-server/src/models"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `id, user_id, name, type, institution_name, current_balance, available_balance, credit_limit, is_manual, is_active, plaid_account_id, plaid_item_id, created_at, updated_at`

func scanAccount(row interface{ Scan(dest ...any) error }, a *models.Account) error {
	return row.Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&a.Type,
		&a.InstitutionName,
		&a.CurrentBalance,
		&a.AvailableBalance,
		&a.CreditLimit,
		&a.IsManual,
		&a.IsActive,
		&a.PlaidAccountID,
		&a.PlaidItemID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

func CreateAccount(ctx context.Context, pool *pgxpool.Pool, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_id, name, type, institution_name, current_balance, available_balance, credit_limit, is_manual)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + accountColumns
	var a models.Account
	err := scanAccount(pool.QueryRow(ctx, query,
		account.UserID,
		account.Name,
		account.Type,
		account.InstitutionName,
		account.CurrentBalance,
		account.AvailableBalance,
		account.CreditLimit,
		account.IsManual,
	), &a)
	if err != nil {
		return nil, err
	}
	db.ClearAllAccountCaches()
	return &a, nil
}

func GetAccountByID(ctx context.Context, pool *pgxpool.Pool, userID, accountID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`
	var a models.Account
	if err := scanAccount(pool.QueryRow(ctx, query, accountID, userID), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func GetAllAccountsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, activeOnly bool) ([]models.Account, error) {
	cacheKey := fmt.Sprintf("accounts:%d:%t", userID, activeOnly)
	if cached, found := db.Cache.Get(cacheKey); found {
		if accounts, ok := cached.([]models.Account); ok {
			return accounts, nil
		}
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY created_at`

	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := scanAccount(rows, &a); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.SetAccountCache(cacheKey, accounts)
	return accounts, nil
}

func UpdateAccount(ctx context.Context, pool *pgxpool.Pool, account *models.Account) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET name = $1, institution_name = $2, current_balance = $3, available_balance = $4, credit_limit = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + accountColumns
	var a models.Account
	err := scanAccount(pool.QueryRow(ctx, query,
		account.Name,
		account.InstitutionName,
		account.CurrentBalance,
		account.AvailableBalance,
		account.CreditLimit,
		account.ID,
		account.UserID,
	), &a)
	if err != nil {
		return nil, err
	}
	db.ClearAllAccountCaches()
	return &a, nil
}

// DeactivateAccount is the delete path: the row stays so its transactions
// keep a valid account reference.
func DeactivateAccount(ctx context.Context, pool *pgxpool.Pool, userID, accountID int64) error {
	query := `UPDATE accounts SET is_active = false, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, accountID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("account not found")
	}
	db.ClearAllAccountCaches()
	return nil
}

// SumActiveBalances returns the user's net worth split into assets and
// liabilities. Credit balances count as liabilities by magnitude, so an
// overpaid card still reduces net worth by what is owed, not less.
func SumActiveBalances(ctx context.Context, pool *pgxpool.Pool, userID int64) (assets, liabilities float64, err error) {
	query := `
		SELECT
			COALESCE(SUM(current_balance) FILTER (WHERE type <> 'credit'), 0),
			COALESCE(SUM(ABS(current_balance)) FILTER (WHERE type = 'credit'), 0)
		FROM accounts
		WHERE user_id = $1 AND is_active = true
	`
	err = pool.QueryRow(ctx, query, userID).Scan(&assets, &liabilities)
	return assets, liabilities, err
}

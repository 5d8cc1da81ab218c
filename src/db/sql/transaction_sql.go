package db

import (
	"context"
	"finflow-server/src/db"
	"finflow-server/src/models"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `id, user_id, account_id, amount, description, merchant_name, category, date, pending, notes, plaid_transaction_id, created_at, updated_at`

func scanTransaction(row interface{ Scan(dest ...any) error }, t *models.Transaction) error {
	return row.Scan(
		&t.ID,
		&t.UserID,
		&t.AccountID,
		&t.Amount,
		&t.Description,
		&t.MerchantName,
		&t.Category,
		&t.Date,
		&t.Pending,
		&t.Notes,
		&t.PlaidTransactionID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}

type TransactionFilter struct {
	AccountID *int64
	Category  string
	Limit     int
	Offset    int
}

func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, account_id, amount, description, merchant_name, category, date, pending, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + transactionColumns
	var t models.Transaction
	err := scanTransaction(pool.QueryRow(ctx, query,
		txn.UserID,
		txn.AccountID,
		txn.Amount,
		txn.Description,
		txn.MerchantName,
		txn.Category,
		txn.Date,
		txn.Pending,
		txn.Notes,
	), &t)
	if err != nil {
		return nil, err
	}
	db.ClearAllTransactionCaches()
	return &t, nil
}

func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID, txnID int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	var t models.Transaction
	if err := scanTransaction(pool.QueryRow(ctx, query, txnID, userID), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func GetTransactions(ctx context.Context, pool *pgxpool.Pool, userID int64, filter TransactionFilter) ([]models.Transaction, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	accountKey := int64(0)
	if filter.AccountID != nil {
		accountKey = *filter.AccountID
	}
	cacheKey := fmt.Sprintf("txns:%d:%d:%s:%d:%d", userID, accountKey, filter.Category, filter.Limit, filter.Offset)
	if cached, found := db.Cache.Get(cacheKey); found {
		if txns, ok := cached.([]models.Transaction); ok {
			return txns, nil
		}
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []interface{}{userID}
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.SetTransactionCache(cacheKey, txns)
	return txns, nil
}

func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, userID, txnID int64, category, description, notes *string) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET category = COALESCE($1, category),
		    description = COALESCE($2, description),
		    notes = COALESCE($3, notes),
		    updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING ` + transactionColumns
	var t models.Transaction
	if err := scanTransaction(pool.QueryRow(ctx, query, category, description, notes, txnID, userID), &t); err != nil {
		return nil, err
	}
	db.ClearAllTransactionCaches()
	return &t, nil
}

func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, userID, txnID int64) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, txnID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found")
	}
	db.ClearAllTransactionCaches()
	return nil
}

// CategorySummary rolls up expenses (amount > 0) per category inside an
// optional date window, largest total first.
func CategorySummary(ctx context.Context, pool *pgxpool.Pool, userID int64, start, end *time.Time) ([]models.CategoryTotal, error) {
	cacheKey := fmt.Sprintf("catsum:%d:%v:%v", userID, start, end)
	if cached, found := db.Cache.Get(cacheKey); found {
		if totals, ok := cached.([]models.CategoryTotal); ok {
			return totals, nil
		}
	}

	query := `
		SELECT category, SUM(amount), COUNT(*), AVG(amount)
		FROM transactions
		WHERE user_id = $1 AND amount > 0
	`
	args := []interface{}{userID}
	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " GROUP BY category ORDER BY SUM(amount) DESC"

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var c models.CategoryTotal
		if err := rows.Scan(&c.Category, &c.Total, &c.Count, &c.Average); err != nil {
			return nil, err
		}
		totals = append(totals, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.SetSummaryCache(cacheKey, totals)
	return totals, nil
}

// SumSpentInWindow is the spent amount a budget is measured against: positive
// transaction amounts in the budget's category between its start and end dates.
func SumSpentInWindow(ctx context.Context, pool *pgxpool.Pool, userID int64, category string, start, end time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category = $2 AND amount > 0 AND date >= $3 AND date <= $4
	`
	var spent float64
	err := pool.QueryRow(ctx, query, userID, category, start, end).Scan(&spent)
	return spent, err
}

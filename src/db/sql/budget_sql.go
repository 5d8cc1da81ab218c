package db

import (
	"context"
	"finflow-server/src/db"
	"finflow-server/src/models"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const budgetColumns = `id, user_id, name, category, amount, period, start_date, end_date, is_active, created_at, updated_at`

func scanBudget(row interface{ Scan(dest ...any) error }, b *models.Budget) error {
	return row.Scan(
		&b.ID,
		&b.UserID,
		&b.Name,
		&b.Category,
		&b.Amount,
		&b.Period,
		&b.StartDate,
		&b.EndDate,
		&b.IsActive,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}

func CreateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, name, category, amount, period, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + budgetColumns
	var b models.Budget
	err := scanBudget(pool.QueryRow(ctx, query,
		budget.UserID,
		budget.Name,
		budget.Category,
		budget.Amount,
		budget.Period,
		budget.StartDate,
		budget.EndDate,
	), &b)
	if err != nil {
		return nil, err
	}
	db.ClearAllSummaryCaches()
	return &b, nil
}

func GetBudgetByID(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int64) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1 AND user_id = $2`
	var b models.Budget
	if err := scanBudget(pool.QueryRow(ctx, query, budgetID, userID), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func GetAllBudgetsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, isActive *bool) ([]models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1`
	args := []interface{}{userID}
	if isActive != nil {
		args = append(args, *isActive)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := scanBudget(rows, &b); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func UpdateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET name = $1, category = $2, amount = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING ` + budgetColumns
	var b models.Budget
	err := scanBudget(pool.QueryRow(ctx, query,
		budget.Name,
		budget.Category,
		budget.Amount,
		budget.IsActive,
		budget.ID,
		budget.UserID,
	), &b)
	if err != nil {
		return nil, err
	}
	db.ClearAllSummaryCaches()
	return &b, nil
}

func DeleteBudget(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int64) error {
	query := `DELETE FROM budgets WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, budgetID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("budget not found")
	}
	db.ClearAllSummaryCaches()
	return nil
}

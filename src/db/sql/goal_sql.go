package db

import (
	"context"
	"finflow-server/src/models"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const goalColumns = `id, user_id, name, description, target_amount, current_amount, target_date, is_active, is_achieved, achieved_at, created_at, updated_at`

func scanGoal(row interface{ Scan(dest ...any) error }, g *models.Goal) error {
	return row.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&g.Description,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.TargetDate,
		&g.IsActive,
		&g.IsAchieved,
		&g.AchievedAt,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
}

func CreateGoal(ctx context.Context, pool *pgxpool.Pool, goal *models.Goal) (*models.Goal, error) {
	query := `
		INSERT INTO goals (user_id, name, description, target_amount, target_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + goalColumns
	var g models.Goal
	err := scanGoal(pool.QueryRow(ctx, query,
		goal.UserID,
		goal.Name,
		goal.Description,
		goal.TargetAmount,
		goal.TargetDate,
	), &g)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func GetGoalByID(ctx context.Context, pool *pgxpool.Pool, userID, goalID int64) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`
	var g models.Goal
	if err := scanGoal(pool.QueryRow(ctx, query, goalID, userID), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func GetAllGoalsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, isActive *bool) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1`
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

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := scanGoal(rows, &g); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateGoal persists the full goal row, including the achievement flags the
// handler recomputed.
func UpdateGoal(ctx context.Context, pool *pgxpool.Pool, goal *models.Goal) (*models.Goal, error) {
	query := `
		UPDATE goals
		SET name = $1, description = $2, target_amount = $3, current_amount = $4,
		    target_date = $5, is_active = $6, is_achieved = $7, achieved_at = $8,
		    updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING ` + goalColumns
	var g models.Goal
	err := scanGoal(pool.QueryRow(ctx, query,
		goal.Name,
		goal.Description,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.TargetDate,
		goal.IsActive,
		goal.IsAchieved,
		goal.AchievedAt,
		goal.ID,
		goal.UserID,
	), &g)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ContributeToGoal adds to current_amount and flips the achievement flags in
// the same statement, so concurrent contributions cannot miss the threshold.
func ContributeToGoal(ctx context.Context, pool *pgxpool.Pool, userID, goalID int64, amount float64) (*models.Goal, error) {
	query := `
		UPDATE goals
		SET current_amount = current_amount + $1,
		    is_achieved = (current_amount + $1 >= target_amount),
		    achieved_at = CASE
		        WHEN current_amount + $1 >= target_amount AND achieved_at IS NULL THEN NOW()
		        WHEN current_amount + $1 < target_amount THEN NULL
		        ELSE achieved_at
		    END,
		    updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + goalColumns
	var g models.Goal
	if err := scanGoal(pool.QueryRow(ctx, query, amount, goalID, userID), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func DeleteGoal(ctx context.Context, pool *pgxpool.Pool, userID, goalID int64) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, goalID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("goal not found")
	}
	return nil
}

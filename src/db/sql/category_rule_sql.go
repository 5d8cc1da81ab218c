package db

import (
	"context"
	"encoding/json"
	"finflow-server/src/db"
	"finflow-server/src/models"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateCategoryRule(ctx context.Context, pool *pgxpool.Pool, rule *models.CategoryRule) (*models.CategoryRule, error) {
	query := `
		INSERT INTO category_rules (user_id, name, conditions, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, conditions, category, created_at, updated_at
	`
	var r models.CategoryRule
	err := pool.QueryRow(ctx, query, rule.UserID, rule.Name, rule.Conditions, rule.Category).
		Scan(&r.ID, &r.UserID, &r.Name, &r.Conditions, &r.Category, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func GetCategoryRuleByID(ctx context.Context, pool *pgxpool.Pool, userID, ruleID int64) (*models.CategoryRule, error) {
	query := `
		SELECT id, user_id, name, conditions, category, created_at, updated_at
		FROM category_rules
		WHERE id = $1 AND user_id = $2
	`
	var r models.CategoryRule
	err := pool.QueryRow(ctx, query, ruleID, userID).
		Scan(&r.ID, &r.UserID, &r.Name, &r.Conditions, &r.Category, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func GetAllCategoryRules(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.CategoryRule, error) {
	query := `
		SELECT id, user_id, name, conditions, category, created_at, updated_at
		FROM category_rules
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.CategoryRule
	for rows.Next() {
		var r models.CategoryRule
		err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Conditions, &r.Category, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func UpdateCategoryRule(ctx context.Context, pool *pgxpool.Pool, rule *models.CategoryRule) (*models.CategoryRule, error) {
	query := `
		UPDATE category_rules
		SET name = $1, conditions = $2, category = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING id, user_id, name, conditions, category, created_at, updated_at
	`
	var r models.CategoryRule
	err := pool.QueryRow(ctx, query, rule.Name, rule.Conditions, rule.Category, rule.ID, rule.UserID).
		Scan(&r.ID, &r.UserID, &r.Name, &r.Conditions, &r.Category, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func DeleteCategoryRule(ctx context.Context, pool *pgxpool.Pool, userID, ruleID int64) error {
	query := `DELETE FROM category_rules WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, ruleID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("category rule not found")
	}
	return nil
}

type ruleTxn struct {
	ID           int64
	Description  string
	MerchantName *string
	Amount       float64
	AccountName  string
	Category     string
}

// ApplyCategoryRulesToUser re-evaluates every transaction of the user against
// their rules. The first matching rule wins.
func ApplyCategoryRulesToUser(ctx context.Context, pool *pgxpool.Pool, userID int64) (int, error) {
	rules, err := GetAllCategoryRules(ctx, pool, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch category rules: %w", err)
	}
	if len(rules) == 0 {
		return 0, nil
	}

	query := `
		SELECT t.id, t.description, t.merchant_name, t.amount, a.name, t.category
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE t.user_id = $1
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer rows.Close()

	var txns []ruleTxn
	for rows.Next() {
		var row ruleTxn
		if err := rows.Scan(&row.ID, &row.Description, &row.MerchantName, &row.Amount, &row.AccountName, &row.Category); err != nil {
			return 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, row)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	adjusted := 0
	for _, txn := range txns {
		for _, rule := range rules {
			var cond models.Condition
			if err := json.Unmarshal(rule.Conditions, &cond); err != nil {
				continue // skip invalid rule
			}
			if evaluateCondition(cond, txn) {
				if txn.Category != rule.Category {
					_, err := pool.Exec(ctx, "UPDATE transactions SET category = $1, updated_at = NOW() WHERE id = $2", rule.Category, txn.ID)
					if err != nil {
						return adjusted, fmt.Errorf("failed to update transaction category: %w", err)
					}
					adjusted++
				}
				break // stop at first matching rule
			}
		}
	}

	if adjusted > 0 {
		log.Printf("INFO: Category rules recategorized %d transactions for user %d", adjusted, userID)
		db.ClearAllTransactionCaches()
	}

	return adjusted, nil
}

func evaluateCondition(cond models.Condition, txn ruleTxn) bool {
	// Logical AND
	if len(cond.And) > 0 {
		for _, c := range cond.And {
			if !evaluateCondition(c, txn) {
				return false
			}
		}
		return true
	}
	// Logical OR
	if len(cond.Or) > 0 {
		for _, c := range cond.Or {
			if evaluateCondition(c, txn) {
				return true
			}
		}
		return false
	}
	// Leaf node: evaluate field/op/value
	var fieldValue interface{}
	switch cond.Field {
	case "description":
		fieldValue = txn.Description
	case "merchant_name":
		if txn.MerchantName != nil {
			fieldValue = *txn.MerchantName
		} else {
			fieldValue = ""
		}
	case "amount":
		fieldValue = txn.Amount
	case "account":
		fieldValue = txn.AccountName
	default:
		return false
	}
	switch cond.Op {
	case "equals":
		switch v := fieldValue.(type) {
		case string:
			val, ok := cond.Value.(string)
			return ok && strings.EqualFold(v, val)
		case float64:
			val, ok := cond.Value.(float64)
			return ok && v == val
		default:
			return false
		}
	case "contains":
		s, ok := fieldValue.(string)
		val, ok2 := cond.Value.(string)
		return ok && ok2 && strings.Contains(strings.ToLower(s), strings.ToLower(val))
	case "gt":
		v, ok := fieldValue.(float64)
		val, ok2 := cond.Value.(float64)
		return ok && ok2 && v > val
	case "lt":
		v, ok := fieldValue.(float64)
		val, ok2 := cond.Value.(float64)
		return ok && ok2 && v < val
	default:
		return false
	}
}

package assistant

import (
	"context"
	sql "finflow-server/src/db/sql"
	"finflow-server/src/models"
	"finflow-server/src/util"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const fallbackMessage = "I'm having trouble accessing my AI capabilities right now. Please try again later."

// Assistant answers financial questions. Data questions are answered from
// SQL aggregates; open-ended ones are delegated to the completion API.
type Assistant struct {
	pool   *pgxpool.Pool
	client *openai.Client
}

func New(pool *pgxpool.Pool, apiKey string) *Assistant {
	a := &Assistant{pool: pool}
	if apiKey != "" {
		a.client = openai.NewClient(apiKey)
	}
	return a
}

type Reply struct {
	Intent  string      `json:"intent"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (a *Assistant) ProcessQuery(ctx context.Context, userID int64, query string) (*Reply, error) {
	intent := AnalyzeIntent(query)
	logger.Info().Int64("user_id", userID).Str("intent", intent).Msg("assistant query")

	switch intent {
	case "spending_summary":
		return a.spendingSummary(ctx, userID, query)
	case "budget_status":
		return a.budgetStatus(ctx, userID)
	case "transaction_search":
		return a.searchTransactions(ctx, userID, query)
	case "goal_progress":
		return a.goalProgress(ctx, userID)
	case "category_analysis":
		return a.categoryAnalysis(ctx, userID, query)
	case "net_worth":
		return a.netWorth(ctx, userID)
	case "account_summary":
		return a.accountSummary(ctx, userID)
	case "financial_advice":
		return a.financialAdvice(ctx, userID, query)
	default:
		return a.generalChat(ctx, query)
	}
}

func (a *Assistant) spendingSummary(ctx context.Context, userID int64, query string) (*Reply, error) {
	label, start, end := ExtractPeriod(query, time.Now())

	totals, err := sql.CategorySummary(ctx, a.pool, userID, &start, &end)
	if err != nil {
		return nil, err
	}

	totalSpent := 0.0
	count := 0
	for _, c := range totals {
		totalSpent += c.Total
		count += c.Count
	}

	msg := fmt.Sprintf("You spent $%.2f %s across %d transactions.", totalSpent, label, count)
	if len(totals) > 0 {
		msg += fmt.Sprintf(" Your biggest expense category was %s at $%.2f.", totals[0].Category, totals[0].Total)
	}

	top := totals
	if len(top) > 5 {
		top = top[:5]
	}
	return &Reply{Intent: "spending_summary", Message: msg, Data: top}, nil
}

func (a *Assistant) budgetStatus(ctx context.Context, userID int64) (*Reply, error) {
	active := true
	budgets, err := sql.GetAllBudgetsForUser(ctx, a.pool, userID, &active)
	if err != nil {
		return nil, err
	}

	var statuses []models.BudgetStatus
	totalBudgeted, totalSpent := 0.0, 0.0
	for _, b := range budgets {
		spent, err := sql.SumSpentInWindow(ctx, a.pool, userID, b.Category, b.StartDate, b.EndDate)
		if err != nil {
			return nil, err
		}
		remaining, pct, over := util.BudgetProgress(b.Amount, spent)
		statuses = append(statuses, models.BudgetStatus{
			Budget:          b,
			SpentAmount:     spent,
			RemainingAmount: remaining,
			PercentageUsed:  pct,
			OverBudget:      over,
		})
		totalBudgeted += b.Amount
		totalSpent += spent
	}

	msg := fmt.Sprintf("You have %d active budgets. You've spent $%.2f out of $%.2f budgeted this month.",
		len(budgets), totalSpent, totalBudgeted)
	return &Reply{Intent: "budget_status", Message: msg, Data: statuses}, nil
}

func (a *Assistant) searchTransactions(ctx context.Context, userID int64, query string) (*Reply, error) {
	terms := ExtractSearchTerms(query)

	txns, err := sql.GetTransactions(ctx, a.pool, userID, sql.TransactionFilter{Limit: 100})
	if err != nil {
		return nil, err
	}

	var matched []models.Transaction
	for _, t := range txns {
		if len(terms) == 0 || matchesAnyTerm(t, terms) {
			matched = append(matched, t)
			if len(matched) == 20 {
				break
			}
		}
	}

	msg := fmt.Sprintf("Found %d transactions matching your search.", len(matched))
	return &Reply{Intent: "transaction_search", Message: msg, Data: matched}, nil
}

func matchesAnyTerm(t models.Transaction, terms []string) bool {
	haystack := strings.ToLower(t.Description + " " + t.Category)
	if t.MerchantName != nil {
		haystack += " " + strings.ToLower(*t.MerchantName)
	}
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func (a *Assistant) goalProgress(ctx context.Context, userID int64) (*Reply, error) {
	active := true
	goals, err := sql.GetAllGoalsForUser(ctx, a.pool, userID, &active)
	if err != nil {
		return nil, err
	}

	var statuses []models.GoalStatus
	for _, g := range goals {
		remaining, pct, _ := util.GoalProgress(g.TargetAmount, g.CurrentAmount)
		statuses = append(statuses, models.GoalStatus{
			Goal:               g,
			RemainingAmount:    remaining,
			ProgressPercentage: pct,
		})
	}

	msg := fmt.Sprintf("You have %d active savings goals.", len(goals))
	return &Reply{Intent: "goal_progress", Message: msg, Data: statuses}, nil
}

func (a *Assistant) categoryAnalysis(ctx context.Context, userID int64, query string) (*Reply, error) {
	label, start, end := ExtractPeriod(query, time.Now())

	totals, err := sql.CategorySummary(ctx, a.pool, userID, &start, &end)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return &Reply{Intent: "category_analysis", Message: fmt.Sprintf("No spending recorded %s.", label)}, nil
	}

	msg := fmt.Sprintf("Your top spending category %s was %s at $%.2f across %d transactions.",
		label, totals[0].Category, totals[0].Total, totals[0].Count)
	return &Reply{Intent: "category_analysis", Message: msg, Data: totals}, nil
}

func (a *Assistant) netWorth(ctx context.Context, userID int64) (*Reply, error) {
	assets, liabilities, err := sql.SumActiveBalances(ctx, a.pool, userID)
	if err != nil {
		return nil, err
	}
	net := assets - liabilities

	msg := fmt.Sprintf("Your net worth is $%.2f ($%.2f in assets, $%.2f in liabilities).", net, assets, liabilities)
	return &Reply{Intent: "net_worth", Message: msg, Data: map[string]float64{
		"assets":      assets,
		"liabilities": liabilities,
		"net_worth":   net,
	}}, nil
}

func (a *Assistant) accountSummary(ctx context.Context, userID int64) (*Reply, error) {
	accounts, err := sql.GetAllAccountsForUser(ctx, a.pool, userID, true)
	if err != nil {
		return nil, err
	}

	var parts []string
	for _, acc := range accounts {
		parts = append(parts, fmt.Sprintf("%s ($%.2f)", acc.Name, acc.CurrentBalance))
	}

	msg := fmt.Sprintf("You have %d active accounts", len(accounts))
	if len(parts) > 0 {
		msg += ": " + strings.Join(parts, ", ")
	}
	msg += "."
	return &Reply{Intent: "account_summary", Message: msg, Data: accounts}, nil
}

func (a *Assistant) financialAdvice(ctx context.Context, userID int64, query string) (*Reply, error) {
	if a.client == nil {
		return &Reply{Intent: "financial_advice", Message: "AI advice is not configured on this server."}, nil
	}

	promptCtx, err := a.buildFinancialContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`You are a personal finance advisor. Based on the user's financial data, provide helpful advice.

User's Financial Context:
%s

User Question: %s

Provide specific, actionable financial advice in 2-3 sentences.`, promptCtx, query)

	msg, err := a.complete(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("completion request failed")
		return &Reply{Intent: "financial_advice", Message: fallbackMessage}, nil
	}
	return &Reply{Intent: "financial_advice", Message: msg}, nil
}

func (a *Assistant) generalChat(ctx context.Context, query string) (*Reply, error) {
	if a.client == nil {
		return &Reply{
			Intent:  "general_chat",
			Message: "I can answer questions about your spending, budgets, goals, accounts and net worth.",
		}, nil
	}

	msg, err := a.complete(ctx, query)
	if err != nil {
		logger.Error().Err(err).Msg("completion request failed")
		return &Reply{Intent: "general_chat", Message: fallbackMessage}, nil
	}
	return &Reply{Intent: "general_chat", Message: msg}, nil
}

func (a *Assistant) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a helpful personal finance advisor."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (a *Assistant) buildFinancialContext(ctx context.Context, userID int64) (string, error) {
	accounts, err := sql.GetAllAccountsForUser(ctx, a.pool, userID, true)
	if err != nil {
		return "", err
	}

	start := time.Now().AddDate(0, 0, -30)
	end := time.Now()
	totals, err := sql.CategorySummary(ctx, a.pool, userID, &start, &end)
	if err != nil {
		return "", err
	}
	recentSpending := 0.0
	var topCategories []string
	for i, c := range totals {
		recentSpending += c.Total
		if i < 3 {
			topCategories = append(topCategories, c.Category)
		}
	}

	active := true
	budgets, err := sql.GetAllBudgetsForUser(ctx, a.pool, userID, &active)
	if err != nil {
		return "", err
	}
	goals, err := sql.GetAllGoalsForUser(ctx, a.pool, userID, &active)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`- Total Accounts: %d
- Recent Spending: $%.2f in the last 30 days
- Top Spending Categories: %s
- Active Budgets: %d
- Savings Goals: %d`,
		len(accounts), recentSpending, strings.Join(topCategories, ", "), len(budgets), len(goals)), nil
}

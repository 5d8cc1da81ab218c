package api

import (
	"finflow-server/src/assistant"
	"finflow-server/src/handlers"
	"finflow-server/src/middleware"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
)

func NewRouter(pool *pgxpool.Pool, plaidClient *plaid.APIClient, a *assistant.Assistant, allowedOrigins []string, isDemo bool) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.DemoModeMiddleware(isDemo))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handlers.Register(pool))
		r.Post("/auth/login", handlers.Login(pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// Auth
			r.Post("/auth/refresh", handlers.RefreshToken(pool))
			r.Get("/auth/me", handlers.Me(pool))

			// User
			r.Put("/user", handlers.UpdateUser(pool))
			r.Post("/user/change-password", handlers.ChangePassword(pool))
			r.Delete("/user", handlers.DeleteUser(pool))

			// Accounts
			r.Post("/accounts", handlers.CreateAccount(pool))
			r.Get("/accounts", handlers.GetAllAccounts(pool))
			r.Get("/accounts/{account_id}", handlers.GetAccountByID(pool))
			r.Put("/accounts/{account_id}", handlers.UpdateAccount(pool))
			r.Delete("/accounts/{account_id}", handlers.DeleteAccount(pool))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(pool))
			r.Get("/transactions", handlers.GetTransactions(pool))
			r.Get("/transactions/categories/summary", handlers.GetCategorySummary(pool))
			r.Get("/transactions/{transaction_id}", handlers.GetTransactionByID(pool))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(pool))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(pool))

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(pool))
			r.Get("/budgets", handlers.GetAllBudgets(pool))
			r.Get("/budgets/summary", handlers.GetBudgetSummary(pool))
			r.Get("/budgets/{budget_id}", handlers.GetBudgetByID(pool))
			r.Put("/budgets/{budget_id}", handlers.UpdateBudget(pool))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(pool))

			// Goals
			r.Post("/goals", handlers.CreateGoal(pool))
			r.Get("/goals", handlers.GetAllGoals(pool))
			r.Get("/goals/{goal_id}", handlers.GetGoalByID(pool))
			r.Put("/goals/{goal_id}", handlers.UpdateGoal(pool))
			r.Post("/goals/{goal_id}/contribute", handlers.ContributeToGoal(pool))
			r.Delete("/goals/{goal_id}", handlers.DeleteGoal(pool))

			// Category rules
			r.Post("/category-rules", handlers.CreateCategoryRule(pool))
			r.Post("/category-rules/apply", handlers.ApplyCategoryRules(pool))
			r.Get("/category-rules", handlers.GetAllCategoryRules(pool))
			r.Get("/category-rules/{rule_id}", handlers.GetCategoryRuleByID(pool))
			r.Put("/category-rules/{rule_id}", handlers.UpdateCategoryRule(pool))
			r.Delete("/category-rules/{rule_id}", handlers.DeleteCategoryRule(pool))

			// Plaid
			r.Post("/plaid/create-link-token", handlers.CreateLinkToken(plaidClient, pool))
			r.Post("/plaid/exchange-public-token", handlers.ExchangePublicToken(plaidClient, pool))
			r.Get("/plaid/items", handlers.GetPlaidItems(pool))
			r.Post("/plaid/items/{item_id}/sync", handlers.SyncTransactions(plaidClient, pool))
			r.Delete("/plaid/items/{item_id}", handlers.DeletePlaidItem(pool))

			// Assistant
			r.Post("/assistant/chat", handlers.Chat(a))
		})
	})

	return r
}

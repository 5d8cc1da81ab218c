package assistant

import (
	"strings"
	"time"
)

// AnalyzeIntent does keyword-based routing of a financial query. Checks run
// in priority order; the first group with a hit wins.
func AnalyzeIntent(query string) string {
	q := strings.ToLower(query)

	groups := []struct {
		intent   string
		keywords []string
	}{
		{"net_worth", []string{"net worth", "worth", "assets", "liabilities"}},
		{"account_summary", []string{"account", "accounts", "balance", "balances"}},
		{"spending_summary", []string{"spend", "spent", "spending", "expense"}},
		{"budget_status", []string{"budget", "budgets", "remaining"}},
		{"transaction_search", []string{"find", "search", "show me", "transactions"}},
		{"financial_advice", []string{"advice", "recommend", "suggest", "should i"}},
		{"goal_progress", []string{"goal", "goals", "save", "saving"}},
		{"category_analysis", []string{"category", "categories", "groceries", "restaurants"}},
	}

	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(q, kw) {
				return g.intent
			}
		}
	}
	return "general_chat"
}

// ExtractPeriod pulls a coarse time window out of the query. Defaults to the
// current month.
func ExtractPeriod(query string, now time.Time) (label string, start, end time.Time) {
	q := strings.ToLower(query)
	end = now

	switch {
	case strings.Contains(q, "last month"):
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return "last month", firstOfThis.AddDate(0, -1, 0), firstOfThis.AddDate(0, 0, -1)
	case strings.Contains(q, "this week") || strings.Contains(q, "week"):
		return "this week", now.AddDate(0, 0, -7), end
	case strings.Contains(q, "this year") || strings.Contains(q, "year"):
		return "this year", time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), end
	case strings.Contains(q, "today"):
		return "today", time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), end
	default:
		return "this month", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), end
	}
}

// ExtractSearchTerms strips filler words so the remainder can be matched
// against descriptions and merchants.
func ExtractSearchTerms(query string) []string {
	stopwords := map[string]bool{
		"find": true, "search": true, "show": true, "me": true, "my": true,
		"transactions": true, "transaction": true, "for": true, "from": true,
		"in": true, "the": true, "all": true, "of": true, "a": true, "on": true,
		"this": true, "last": true, "month": true, "week": true, "year": true,
	}

	var terms []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?\"'")
		if len(word) > 2 && !stopwords[word] {
			terms = append(terms, word)
		}
	}
	return terms
}

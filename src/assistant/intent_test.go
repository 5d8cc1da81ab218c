package assistant

import (
	"testing"
	"time"
)

func TestAnalyzeIntent(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"what is my net worth", "net_worth"},
		{"show my account balances", "account_summary"},
		{"how much did I spend this month", "spending_summary"},
		{"how are my budgets doing", "budget_status"},
		{"find coffee purchases", "transaction_search"},
		{"should I pay off my card first", "financial_advice"},
		{"how close am I to my goal", "goal_progress"},
		{"break down my categories", "category_analysis"},
		{"hello there", "general_chat"},
	}

	for _, tt := range tests {
		if got := AnalyzeIntent(tt.query); got != tt.want {
			t.Errorf("AnalyzeIntent(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestExtractPeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	label, start, end := ExtractPeriod("spending last month", now)
	if label != "last month" {
		t.Errorf("label = %q, want last month", label)
	}
	wantStart := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Errorf("window = %v..%v, want %v..%v", start, end, wantStart, wantEnd)
	}

	label, start, _ = ExtractPeriod("spending this year", now)
	if label != "this year" {
		t.Errorf("label = %q, want this year", label)
	}
	if !start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("year start = %v", start)
	}

	label, start, _ = ExtractPeriod("how much did I spend", now)
	if label != "this month" {
		t.Errorf("default label = %q, want this month", label)
	}
	if !start.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("default start = %v", start)
	}
}

func TestExtractSearchTerms(t *testing.T) {
	terms := ExtractSearchTerms("Find my transactions for Starbucks this month")
	want := []string{"starbucks"}
	if len(terms) != len(want) {
		t.Fatalf("terms = %v, want %v", terms, want)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("terms[%d] = %q, want %q", i, terms[i], want[i])
		}
	}

	if terms := ExtractSearchTerms("show me all"); len(terms) != 0 {
		t.Errorf("expected no terms, got %v", terms)
	}
}

package handlers

import "testing"

func TestValidBalance(t *testing.T) {
	tests := []struct {
		name        string
		accountType string
		balance     float64
		want        bool
	}{
		{"checking positive", "checking", 100, true},
		{"checking zero", "checking", 0, true},
		{"checking negative", "checking", -50, false},
		{"savings negative", "savings", -0.01, false},
		{"investment negative", "investment", -200, false},
		{"credit negative", "credit", -500, true},
		{"credit positive", "credit", 250, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validBalance(tt.accountType, tt.balance); got != tt.want {
				t.Errorf("validBalance(%q, %v) = %v, want %v", tt.accountType, tt.balance, got, tt.want)
			}
		})
	}
}

package util

import "testing"

func TestBudgetProgress(t *testing.T) {
	tests := []struct {
		name          string
		amount        float64
		spent         float64
		wantRemaining float64
		wantPct       float64
		wantOver      bool
	}{
		{"under budget", 500, 200, 300, 40, false},
		{"exactly at limit", 500, 500, 0, 100, false},
		{"over budget", 500, 600, -100, 120, true},
		{"nothing spent", 500, 0, 500, 0, false},
		{"zero amount", 0, 100, -100, 0, true},
		{"fractional cents", 100, 33.33, 66.67, 33.33, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining, pct, over := BudgetProgress(tt.amount, tt.spent)
			if remaining != tt.wantRemaining {
				t.Errorf("remaining = %v, want %v", remaining, tt.wantRemaining)
			}
			if pct != tt.wantPct {
				t.Errorf("percentageUsed = %v, want %v", pct, tt.wantPct)
			}
			if over != tt.wantOver {
				t.Errorf("over = %v, want %v", over, tt.wantOver)
			}
		})
	}
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name          string
		target        float64
		current       float64
		wantRemaining float64
		wantProgress  float64
		wantAchieved  bool
	}{
		{"partially funded", 1000, 250, 750, 25, false},
		{"fully funded", 1000, 1000, 0, 100, true},
		{"over funded", 1000, 1200, 0, 100, true},
		{"not started", 1000, 0, 1000, 0, false},
		{"zero target", 0, 100, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining, progress, achieved := GoalProgress(tt.target, tt.current)
			if remaining != tt.wantRemaining {
				t.Errorf("remaining = %v, want %v", remaining, tt.wantRemaining)
			}
			if progress != tt.wantProgress {
				t.Errorf("progress = %v, want %v", progress, tt.wantProgress)
			}
			if achieved != tt.wantAchieved {
				t.Errorf("achieved = %v, want %v", achieved, tt.wantAchieved)
			}
		})
	}
}

func TestUtilization(t *testing.T) {
	if got := Utilization(0, 500); got != 0 {
		t.Errorf("Utilization(0, 500) = %v, want 0", got)
	}
	if got := Utilization(1000, 250); got != 25 {
		t.Errorf("Utilization(1000, 250) = %v, want 25", got)
	}
	if got := Utilization(300, 300); got != 100 {
		t.Errorf("Utilization(300, 300) = %v, want 100", got)
	}
}

package util

import (
	"testing"
	"time"
)

func TestDefaultPeriodStart(t *testing.T) {
	now := time.Date(2025, 6, 17, 15, 30, 0, 0, time.UTC)
	got := DefaultPeriodStart(now)
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DefaultPeriodStart = %v, want %v", got, want)
	}
}

func TestPeriodEnd(t *testing.T) {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		period string
		want   time.Time
	}{
		{"weekly", time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC)},
		{"monthly", time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"quarterly", time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)},
		{"yearly", time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, err := PeriodEnd(tt.period, start)
			if err != nil {
				t.Fatalf("PeriodEnd(%q) returned error: %v", tt.period, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("PeriodEnd(%q) = %v, want %v", tt.period, got, tt.want)
			}
		})
	}

	if _, err := PeriodEnd("fortnightly", start); err == nil {
		t.Error("expected error for invalid period")
	}
}

func TestPeriodEndMonthlyDecember(t *testing.T) {
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	got, err := PeriodEnd("monthly", start)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("PeriodEnd(monthly, december) = %v, want %v", got, want)
	}
}

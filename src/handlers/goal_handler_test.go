package handlers

import (
	"finflow-server/src/models"
	"testing"
	"time"
)

func TestRecomputeAchievement(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	earlier := now.AddDate(0, -1, 0)

	t.Run("funding to target sets flag and stamp", func(t *testing.T) {
		g := &models.Goal{TargetAmount: 1000, CurrentAmount: 1000}
		recomputeAchievement(g, now)
		if !g.IsAchieved {
			t.Fatal("expected is_achieved to be set")
		}
		if g.AchievedAt == nil || !g.AchievedAt.Equal(now) {
			t.Errorf("achieved_at = %v, want %v", g.AchievedAt, now)
		}
	})

	t.Run("overfunding sets flag", func(t *testing.T) {
		g := &models.Goal{TargetAmount: 1000, CurrentAmount: 1200}
		recomputeAchievement(g, now)
		if !g.IsAchieved {
			t.Fatal("expected is_achieved to be set")
		}
	})

	t.Run("raising target clears flag and stamp", func(t *testing.T) {
		g := &models.Goal{
			TargetAmount:  2000,
			CurrentAmount: 1000,
			IsAchieved:    true,
			AchievedAt:    &earlier,
		}
		recomputeAchievement(g, now)
		if g.IsAchieved {
			t.Fatal("expected is_achieved to be cleared")
		}
		if g.AchievedAt != nil {
			t.Errorf("achieved_at = %v, want nil", g.AchievedAt)
		}
	})

	t.Run("already achieved keeps original stamp", func(t *testing.T) {
		g := &models.Goal{
			TargetAmount:  1000,
			CurrentAmount: 1500,
			IsAchieved:    true,
			AchievedAt:    &earlier,
		}
		recomputeAchievement(g, now)
		if !g.IsAchieved {
			t.Fatal("expected is_achieved to stay set")
		}
		if g.AchievedAt == nil || !g.AchievedAt.Equal(earlier) {
			t.Errorf("achieved_at = %v, want %v", g.AchievedAt, earlier)
		}
	})

	t.Run("partial funding stays unachieved", func(t *testing.T) {
		g := &models.Goal{TargetAmount: 1000, CurrentAmount: 999.99}
		recomputeAchievement(g, now)
		if g.IsAchieved {
			t.Fatal("expected is_achieved to stay clear")
		}
		if g.AchievedAt != nil {
			t.Errorf("achieved_at = %v, want nil", g.AchievedAt)
		}
	})
}

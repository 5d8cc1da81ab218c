package models

import "time"

type Goal struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	TargetDate    *time.Time `json:"target_date"`
	IsActive      bool       `json:"is_active"`
	IsAchieved    bool       `json:"is_achieved"`
	AchievedAt    *time.Time `json:"achieved_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type GoalStatus struct {
	Goal
	RemainingAmount    float64 `json:"remaining_amount"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

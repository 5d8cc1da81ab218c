package db

import (
	"encoding/json"
	"finflow-server/src/models"
	"testing"
)

func mustCondition(t *testing.T, raw string) models.Condition {
	t.Helper()
	var cond models.Condition
	if err := json.Unmarshal([]byte(raw), &cond); err != nil {
		t.Fatalf("failed to parse condition: %v", err)
	}
	return cond
}

func TestEvaluateCondition(t *testing.T) {
	merchant := "Starbucks"
	txn := ruleTxn{
		ID:           1,
		Description:  "STARBUCKS STORE 123",
		MerchantName: &merchant,
		Amount:       6.75,
		AccountName:  "Rewards Card",
		Category:     "uncategorized",
	}

	tests := []struct {
		name string
		cond string
		want bool
	}{
		{"contains match", `{"field": "description", "op": "contains", "value": "starbucks"}`, true},
		{"contains miss", `{"field": "description", "op": "contains", "value": "chipotle"}`, false},
		{"equals case insensitive", `{"field": "merchant_name", "op": "equals", "value": "starbucks"}`, true},
		{"amount gt", `{"field": "amount", "op": "gt", "value": 5}`, true},
		{"amount lt miss", `{"field": "amount", "op": "lt", "value": 5}`, false},
		{"account match", `{"field": "account", "op": "equals", "value": "Rewards Card"}`, true},
		{"unknown field", `{"field": "color", "op": "equals", "value": "red"}`, false},
		{"unknown op", `{"field": "amount", "op": "between", "value": 5}`, false},
		{
			"and both hold",
			`{"and": [
				{"field": "merchant_name", "op": "contains", "value": "star"},
				{"field": "amount", "op": "lt", "value": 10}
			]}`,
			true,
		},
		{
			"and one fails",
			`{"and": [
				{"field": "merchant_name", "op": "contains", "value": "star"},
				{"field": "amount", "op": "gt", "value": 10}
			]}`,
			false,
		},
		{
			"or one holds",
			`{"or": [
				{"field": "description", "op": "contains", "value": "chipotle"},
				{"field": "amount", "op": "gt", "value": 5}
			]}`,
			true,
		},
		{
			"nested and of or",
			`{"and": [
				{"or": [
					{"field": "merchant_name", "op": "contains", "value": "starbucks"},
					{"field": "merchant_name", "op": "contains", "value": "peets"}
				]},
				{"field": "account", "op": "equals", "value": "rewards card"}
			]}`,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluateCondition(mustCondition(t, tt.cond), txn); got != tt.want {
				t.Errorf("evaluateCondition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateConditionNilMerchant(t *testing.T) {
	txn := ruleTxn{Description: "ATM WITHDRAWAL", Amount: 100}
	cond := mustCondition(t, `{"field": "merchant_name", "op": "contains", "value": "star"}`)
	if evaluateCondition(cond, txn) {
		t.Error("nil merchant should not match contains")
	}
}

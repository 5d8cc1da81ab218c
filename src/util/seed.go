package util

import (
	"context"
	db "finflow-server/src/db/sql"
	"finflow-server/src/models"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoEmail    = "demo@finflow.app"
	demoPassword = "DemoPass1!"
)

var seedCategories = []string{
	"groceries", "dining", "transportation", "entertainment",
	"utilities", "shopping", "health", "travel",
}

var seedMerchants = map[string][]string{
	"groceries":      {"Whole Foods", "Trader Joe's", "Safeway", "Costco"},
	"dining":         {"Chipotle", "Olive Garden", "Starbucks", "Local Diner"},
	"transportation": {"Shell", "Uber", "Lyft", "Chevron"},
	"entertainment":  {"Netflix", "Spotify", "AMC Theatres", "Steam"},
	"utilities":      {"PG&E", "Comcast", "Water District", "T-Mobile"},
	"shopping":       {"Amazon", "Target", "Best Buy", "IKEA"},
	"health":         {"CVS Pharmacy", "Walgreens", "Kaiser", "24 Hour Fitness"},
	"travel":         {"United Airlines", "Airbnb", "Marriott", "Hertz"},
}

// SeedDemoData provisions the demo user with a few months of plausible
// activity. Safe to call on every boot, it is a no-op once the user exists.
func SeedDemoData(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := db.GetUserByEmail(ctx, pool, DemoEmail); err == nil {
		log.Printf("INFO: Demo user already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user, err := db.CreateUser(ctx, pool, DemoEmail, "Demo User", hash)
	if err != nil {
		return err
	}

	checking, err := db.CreateAccount(ctx, pool, &models.Account{
		UserID:          user.ID,
		Name:            "Everyday Checking",
		Type:            "checking",
		InstitutionName: strPtr("First Demo Bank"),
		CurrentBalance:  gofakeit.Price(2000, 8000),
		IsManual:        true,
	})
	if err != nil {
		return err
	}

	savings, err := db.CreateAccount(ctx, pool, &models.Account{
		UserID:          user.ID,
		Name:            "Rainy Day Savings",
		Type:            "savings",
		InstitutionName: strPtr("First Demo Bank"),
		CurrentBalance:  gofakeit.Price(5000, 20000),
		IsManual:        true,
	})
	if err != nil {
		return err
	}

	creditLimit := 5000.0
	credit, err := db.CreateAccount(ctx, pool, &models.Account{
		UserID:          user.ID,
		Name:            "Rewards Card",
		Type:            "credit",
		InstitutionName: strPtr("Demo Card Services"),
		CurrentBalance:  gofakeit.Price(200, 1500),
		CreditLimit:     &creditLimit,
		IsManual:        true,
	})
	if err != nil {
		return err
	}

	spendingAccounts := []int64{checking.ID, credit.ID}
	for i := 0; i < 120; i++ {
		category := seedCategories[rand.Intn(len(seedCategories))]
		merchants := seedMerchants[category]
		merchant := merchants[rand.Intn(len(merchants))]

		_, err := db.CreateTransaction(ctx, pool, &models.Transaction{
			UserID:       user.ID,
			AccountID:    spendingAccounts[rand.Intn(len(spendingAccounts))],
			Amount:       gofakeit.Price(5, 250),
			Description:  merchant,
			MerchantName: strPtr(merchant),
			Category:     category,
			Date:         time.Now().AddDate(0, 0, -rand.Intn(90)),
		})
		if err != nil {
			return err
		}
	}

	// A couple of paychecks so income shows up in summaries.
	for i := 0; i < 3; i++ {
		_, err := db.CreateTransaction(ctx, pool, &models.Transaction{
			UserID:      user.ID,
			AccountID:   checking.ID,
			Amount:      -gofakeit.Price(2800, 3200),
			Description: "Payroll Deposit",
			Category:    "income",
			Date:        time.Now().AddDate(0, -i, 0),
		})
		if err != nil {
			return err
		}
	}

	start := DefaultPeriodStart(time.Now())
	for _, b := range []struct {
		name     string
		category string
		amount   float64
	}{
		{"Grocery Budget", "groceries", 600},
		{"Dining Out", "dining", 250},
		{"Fun Money", "entertainment", 150},
	} {
		end, err := PeriodEnd("monthly", start)
		if err != nil {
			return err
		}
		_, err = db.CreateBudget(ctx, pool, &models.Budget{
			UserID:    user.ID,
			Name:      b.name,
			Category:  b.category,
			Amount:    b.amount,
			Period:    "monthly",
			StartDate: start,
			EndDate:   end,
		})
		if err != nil {
			return err
		}
	}

	vacation, err := db.CreateGoal(ctx, pool, &models.Goal{
		UserID:       user.ID,
		Name:         "Vacation Fund",
		Description:  strPtr("Two weeks somewhere warm"),
		TargetAmount: 3000,
	})
	if err != nil {
		return err
	}
	if _, err := db.ContributeToGoal(ctx, pool, user.ID, vacation.ID, gofakeit.Price(500, 1500)); err != nil {
		return err
	}

	_, err = db.CreateGoal(ctx, pool, &models.Goal{
		UserID:       user.ID,
		Name:         "Emergency Fund",
		Description:  strPtr("Six months of expenses"),
		TargetAmount: 15000,
	})
	if err != nil {
		return err
	}

	log.Printf("INFO: Seeded demo user %s with accounts %d, %d, %d", DemoEmail, checking.ID, savings.ID, credit.ID)
	return nil
}

func strPtr(s string) *string { return &s }

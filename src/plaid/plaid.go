// Package plaid builds the API client the bank-linking handlers share.
package plaid

import (
	"log"

	"github.com/plaid/plaid-go/v41/plaid"
)

// NewPlaidClient returns a client bound to the configured environment.
// Anything other than sandbox or production fails the boot.
func NewPlaidClient(clientID, secret, env string) *plaid.APIClient {
	cfg := plaid.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	cfg.AddDefaultHeader("PLAID-SECRET", secret)

	switch env {
	case "sandbox":
		cfg.UseEnvironment(plaid.Sandbox)
	case "production":
		cfg.UseEnvironment(plaid.Production)
	default:
		log.Fatalf("Invalid Plaid environment: %s", env)
	}

	return plaid.NewAPIClient(cfg)
}

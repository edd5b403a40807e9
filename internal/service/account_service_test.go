package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Broker-Statement-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Statement-Importer/internal/testutil"
)

func TestAccountService(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty slice when no accounts exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)

		accounts, err := svc.GetAccounts(ctx)
		if err != nil {
			t.Fatalf("GetAccounts() returned unexpected error: %v", err)
		}
		if len(accounts) != 0 {
			t.Errorf("Expected empty slice, got %d accounts", len(accounts))
		}
	})

	t.Run("creates an active account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)

		account, err := svc.CreateAccount(ctx, request.CreateAccountRequest{
			Name:     "  US stocks ",
			Broker:   "Vested",
			Currency: "USD",
		})
		if err != nil {
			t.Fatalf("CreateAccount() returned unexpected error: %v", err)
		}

		if account.Name != "US stocks" {
			t.Errorf("Expected trimmed name, got %q", account.Name)
		}
		if !account.IsActive {
			t.Error("Expected new account to be active")
		}

		stored, err := svc.GetAccount(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		if stored.Broker != "Vested" || stored.BrokerName() != "Vested" {
			t.Errorf("Expected broker Vested, got %+v", stored)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)

		if _, err := svc.GetAccount(ctx, testutil.MakeID()); !errors.Is(err, apperrors.ErrAccountNotFound) {
			t.Errorf("Expected ErrAccountNotFound, got %v", err)
		}
	})
}

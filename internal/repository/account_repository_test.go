package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
	"github.com/ndewijer/Broker-Statement-Importer/internal/repository"
	"github.com/ndewijer/Broker-Statement-Importer/internal/testutil"
)

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("insert then get", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewAccountRepository(db)

		want := &model.Account{
			ID:        testutil.MakeID(),
			Name:      "US stocks",
			Broker:    "Vested",
			Currency:  "USD",
			IsActive:  true,
			CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		}
		if err := repo.InsertAccount(ctx, want); err != nil {
			t.Fatalf("InsertAccount() returned unexpected error: %v", err)
		}

		got, err := repo.GetAccount(ctx, want.ID)
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		if got.Name != want.Name || got.Broker != want.Broker || got.Currency != want.Currency || !got.IsActive {
			t.Errorf("Expected %+v, got %+v", want, got)
		}
		if !got.CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("Expected createdAt %v, got %v", want.CreatedAt, got.CreatedAt)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewAccountRepository(db)

		_, err := repo.GetAccount(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrAccountNotFound) {
			t.Errorf("Expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("lists accounts by name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewAccountRepository(db)
		testutil.NewAccount().WithName("Zerodha").Build(t, db)
		testutil.NewAccount().WithName("Kuvera").Build(t, db)

		accounts, err := repo.GetAccounts(ctx)
		if err != nil {
			t.Fatalf("GetAccounts() returned unexpected error: %v", err)
		}
		if len(accounts) != 2 {
			t.Fatalf("Expected 2 accounts, got %d", len(accounts))
		}
		if accounts[0].Name != "Kuvera" {
			t.Errorf("Expected Kuvera first, got %s", accounts[0].Name)
		}
	})
}

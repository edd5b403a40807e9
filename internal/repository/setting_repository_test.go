package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Broker-Statement-Importer/internal/repository"
	"github.com/ndewijer/Broker-Statement-Importer/internal/testutil"
)

func TestSettingRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewSettingRepository(db)

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, repository.ErrSettingNotFound) {
		t.Errorf("Expected ErrSettingNotFound, got %v", err)
	}

	if err := repo.Set(ctx, "importer_configs", `{"kuveraFunds":[]}`); err != nil {
		t.Fatalf("Set() returned unexpected error: %v", err)
	}
	if err := repo.Set(ctx, "importer_configs", `{"kuveraFunds":[{"name":"A","symbol":"B"}]}`); err != nil {
		t.Fatalf("Set() returned unexpected error: %v", err)
	}

	value, err := repo.Get(ctx, "importer_configs")
	if err != nil {
		t.Fatalf("Get() returned unexpected error: %v", err)
	}
	if value != `{"kuveraFunds":[{"name":"A","symbol":"B"}]}` {
		t.Errorf("Expected latest value, got %s", value)
	}
	testutil.AssertRowCount(t, db, "app_setting", 1)
}

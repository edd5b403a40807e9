package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/Broker-Statement-Importer/internal/testutil"
)

func TestSystemService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSystemService(t, db)

	if err := svc.CheckHealth(); err != nil {
		t.Errorf("CheckHealth() returned unexpected error: %v", err)
	}

	info, err := svc.CheckVersion(context.Background())
	if err != nil {
		t.Fatalf("CheckVersion() returned unexpected error: %v", err)
	}

	if info.DbVersion != "4" {
		t.Errorf("Expected db version 4, got %s", info.DbVersion)
	}
	if info.MigrationNeeded {
		t.Errorf("Expected no pending migration, got %v", *info.MigrationMessage)
	}
	for _, feature := range []string{"kuvera_import", "vested_import"} {
		if !info.Features[feature] {
			t.Errorf("Expected feature %s, got %v", feature, info.Features)
		}
	}
}

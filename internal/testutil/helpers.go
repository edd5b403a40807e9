package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"

	"github.com/ndewijer/Broker-Statement-Importer/internal/broker"
	"github.com/ndewijer/Broker-Statement-Importer/internal/dedup"
	"github.com/ndewijer/Broker-Statement-Importer/internal/fingerprint"
	"github.com/ndewijer/Broker-Statement-Importer/internal/logging"
	"github.com/ndewijer/Broker-Statement-Importer/internal/repository"
	"github.com/ndewijer/Broker-Statement-Importer/internal/service"
)

// TestImportTTL is how long test import results stay cached.
const TestImportTTL = time.Hour

// NewTestHasher returns the hasher used by the test services, normalizing
// dates to India Standard Time.
func NewTestHasher(t *testing.T) *fingerprint.Hasher {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fixed offset when no tz database is available
		loc = time.FixedZone("IST", 5*60*60+30*60)
	}
	return fingerprint.NewHasher(loc)
}

// NewTestKey generates a fresh fernet key.
func NewTestKey(t *testing.T) *fernet.Key {
	t.Helper()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	return &key
}

func NewTestAccountService(t *testing.T, db *sql.DB) *service.AccountService {
	t.Helper()

	return service.NewAccountService(repository.NewAccountRepository(db))
}

func NewTestActivityService(t *testing.T, db *sql.DB) *service.ActivityService {
	t.Helper()

	return service.NewActivityService(
		repository.NewAccountRepository(db),
		repository.NewActivityRepository(db),
	)
}

func NewTestConfigService(t *testing.T, db *sql.DB) *service.ConfigService {
	t.Helper()

	return service.NewConfigService(repository.NewSettingRepository(db), logging.Discard())
}

func NewTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	return NewTestImportServiceWithRegistry(t, db, nil)
}

// NewTestImportServiceWithRegistry builds an ImportService around registry.
// A nil registry uses the default brokers.
func NewTestImportServiceWithRegistry(t *testing.T, db *sql.DB, registry *broker.Registry) *service.ImportService {
	t.Helper()

	hasher := NewTestHasher(t)
	if registry == nil {
		registry = broker.NewDefaultRegistry(hasher)
	}

	activityRepo := repository.NewActivityRepository(db)
	collector := dedup.NewCollector(activityRepo, hasher, dedup.DefaultPageSize)

	return service.NewImportService(
		repository.NewAccountRepository(db),
		activityRepo,
		repository.NewImportCacheRepository(db, 0, NewTestKey(t)),
		NewTestConfigService(t, db),
		registry,
		hasher,
		dedup.NewCache(collector, time.Minute),
		TestImportTTL,
		logging.Discard(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, broker.NewDefaultRegistry(NewTestHasher(t)))
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeAccountName generates a unique account name for testing.
//
// Example usage:
//
//	name := testutil.MakeAccountName("Brokerage")
//	// Returns: "Brokerage ABC123"
func MakeAccountName(base string) string {
	if base == "" {
		base = "Account"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/ndewijer/Broker-Statement-Importer/internal/broker"
	"github.com/ndewijer/Broker-Statement-Importer/internal/database"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
	"github.com/ndewijer/Broker-Statement-Importer/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	registry *broker.Registry
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB, registry *broker.Registry) *SystemService {
	return &SystemService{
		db:       db,
		registry: registry,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application and schema versions. Every registered
// broker is listed as an enabled feature.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	current, latest, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	info := model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  fmt.Sprintf("%d", current),
		Features:   make(map[string]bool),
	}

	brokers := s.registry.Brokers()
	slices.Sort(brokers)
	for _, b := range brokers {
		info.Features[b+"_import"] = true
	}

	if current < latest {
		msg := fmt.Sprintf("database schema is at version %d, latest is %d", current, latest)
		info.MigrationNeeded = true
		info.MigrationMessage = &msg
	}

	return info, nil
}

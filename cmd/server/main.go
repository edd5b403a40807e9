package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	_ "time/tzdata" // IMPORT_TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Broker-Statement-Importer/internal/api"
	"github.com/ndewijer/Broker-Statement-Importer/internal/broker"
	"github.com/ndewijer/Broker-Statement-Importer/internal/config"
	"github.com/ndewijer/Broker-Statement-Importer/internal/database"
	"github.com/ndewijer/Broker-Statement-Importer/internal/dedup"
	"github.com/ndewijer/Broker-Statement-Importer/internal/fingerprint"
	"github.com/ndewijer/Broker-Statement-Importer/internal/logging"
	"github.com/ndewijer/Broker-Statement-Importer/internal/repository"
	"github.com/ndewijer/Broker-Statement-Importer/internal/scheduler"
	"github.com/ndewijer/Broker-Statement-Importer/internal/service"
)

const purgeTimeout = time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Fatal("failed to load configuration", "err", err)
	}

	logger := logging.New(cfg.LogLevel)

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			logger.Fatal("failed to create database directory", "dir", dir, "err", err)
		}
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", "err", err)
	}
	defer db.Close()

	applied, err := database.Migrate(context.Background(), db)
	if err != nil {
		logger.Fatal("failed to migrate database", "err", err)
	}
	logger.Info("connected to database", "path", cfg.Database.Path, "migrations_applied", applied)

	loc, err := time.LoadLocation(cfg.Import.Timezone)
	if err != nil {
		logger.Fatal("invalid IMPORT_TIMEZONE", "timezone", cfg.Import.Timezone, "err", err)
	}

	key, generated, err := loadCacheKey(cfg.Import.CacheKey)
	if err != nil {
		logger.Fatal("invalid IMPORT_CACHE_KEY", "err", err)
	}
	if generated {
		logger.Warn("IMPORT_CACHE_KEY not set, cached imports will not survive a restart")
	}

	hasher := fingerprint.NewHasher(loc)
	registry := broker.NewDefaultRegistry(hasher)

	// Create repositories
	accountRepo := repository.NewAccountRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	importRepo := repository.NewImportCacheRepository(db, cfg.Import.CacheTTL, key)

	// Create services
	configService := service.NewConfigService(settingRepo, logger)
	importService := service.NewImportService(
		accountRepo,
		activityRepo,
		importRepo,
		configService,
		registry,
		hasher,
		dedup.NewCache(dedup.NewCollector(activityRepo, hasher, cfg.Import.PageSize), cfg.Import.HashCacheTTL),
		cfg.Import.CacheTTL,
		logger,
	)
	services := api.Services{
		System:   service.NewSystemService(db, registry),
		Account:  service.NewAccountService(accountRepo),
		Activity: service.NewActivityService(accountRepo, activityRepo),
		Config:   configService,
		Import:   importService,
	}

	sched := scheduler.New(logger)
	if err := sched.SchedulePurge(cfg.Import.PurgeSchedule, importService, purgeTimeout); err != nil {
		logger.Fatal("failed to schedule import purge", "err", err)
	}
	sched.Start()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(services, cfg, logger),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr, "brokers", registry.Brokers())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", "err", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sched.Stop(ctx)
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
		return
	}

	logger.Info("server exited")
}

// loadCacheKey decodes the configured fernet key, generating a fresh one when
// none is configured.
func loadCacheKey(encoded string) (key *fernet.Key, generated bool, err error) {
	if encoded == "" {
		var k fernet.Key
		if err := k.Generate(); err != nil {
			return nil, false, fmt.Errorf("failed to generate key: %w", err)
		}
		return &k, true, nil
	}

	key, err = fernet.DecodeKey(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode key: %w", err)
	}
	return key, false, nil
}

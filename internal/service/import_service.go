package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Statement-Importer/internal/broker"
	"github.com/ndewijer/Broker-Statement-Importer/internal/dedup"
	"github.com/ndewijer/Broker-Statement-Importer/internal/export"
	"github.com/ndewijer/Broker-Statement-Importer/internal/fingerprint"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
	"github.com/ndewijer/Broker-Statement-Importer/internal/repository"
)

// ImportService runs the statement pipeline: processor selection, broker
// processing, dedup against the account history, review and commit.
type ImportService struct {
	accountRepo   *repository.AccountRepository
	activityRepo  *repository.ActivityRepository
	importRepo    *repository.ImportCacheRepository
	configService *ConfigService
	registry      *broker.Registry
	hasher        *fingerprint.Hasher
	hashes        *dedup.Cache
	ttl           time.Duration
	logger        *log.Logger

	selections *selectionTracker
	// commitMu serializes commits so one cached import is never written twice.
	commitMu sync.Mutex
}

// NewImportService creates a new ImportService. Processed results stay
// reviewable for ttl.
func NewImportService(
	accountRepo *repository.AccountRepository,
	activityRepo *repository.ActivityRepository,
	importRepo *repository.ImportCacheRepository,
	configService *ConfigService,
	registry *broker.Registry,
	hasher *fingerprint.Hasher,
	hashes *dedup.Cache,
	ttl time.Duration,
	logger *log.Logger,
) *ImportService {
	return &ImportService{
		accountRepo:   accountRepo,
		activityRepo:  activityRepo,
		importRepo:    importRepo,
		configService: configService,
		registry:      registry,
		hasher:        hasher,
		hashes:        hashes,
		ttl:           ttl,
		logger:        logger,
		selections:    newSelectionTracker(),
	}
}

// Import processes file for the account and caches the deduplicated result.
//
// A newer Import with the same sessionID cancels this one; its outcome is then
// discarded with apperrors.ErrStaleSelection. Statement errors
// (apperrors.IsUserFacing) are returned unwrapped.
func (s *ImportService) Import(ctx context.Context, sessionID, accountID string, file model.File) (*model.ImportResult, error) {
	ctx, gen, release := s.selections.begin(ctx, sessionID)
	defer release()

	result, err := s.process(ctx, accountID, file)
	if !s.selections.current(sessionID, gen) {
		s.logger.Debug("discarding superseded import", "session", sessionID, "file", file.Name)
		return nil, apperrors.ErrStaleSelection
	}
	if err != nil {
		return nil, err
	}

	if err := s.saveResult(ctx, sessionID, gen, result); err != nil {
		return nil, err
	}

	s.logger.Info("statement processed",
		"account", result.AccountID,
		"file", result.FileName,
		"transactions", result.Summary.Transactions,
		"errors", result.Summary.Errors,
		"duplicates", result.Summary.Duplicates,
	)
	return result, nil
}

// saveResult caches result. A newer import of the session may cancel ctx
// mid-save; that failure is reported as apperrors.ErrStaleSelection.
func (s *ImportService) saveResult(ctx context.Context, sessionID string, gen uint64, result *model.ImportResult) error {
	if err := s.importRepo.SaveImport(ctx, *result); err != nil {
		if !s.selections.current(sessionID, gen) {
			s.logger.Debug("discarding superseded import", "session", sessionID, "file", result.FileName)
			return apperrors.ErrStaleSelection
		}
		return fmt.Errorf("failed to cache import: %w", err)
	}
	return nil
}

func (s *ImportService) process(ctx context.Context, accountID string, file model.File) (*model.ImportResult, error) {
	account, err := s.accountRepo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	processor, ok := s.registry.FindProcessor(account, file.Name)
	if !ok {
		return nil, &apperrors.NoProcessorError{Broker: account.BrokerName()}
	}

	var configs model.Configs
	var seen dedup.HashSet

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		configs = s.configService.LoadConfigs(gctx)
		return nil
	})
	g.Go(func() error {
		hashes, err := s.hashes.Hashes(gctx, account.ID)
		if err != nil {
			return fmt.Errorf("failed to collect existing activities: %w", err)
		}
		seen = hashes
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	parsed, err := processor.Process(ctx, broker.ProcessRequest{
		AccountID: account.ID,
		Configs:   configs,
		File:      file,
	})
	if err != nil {
		if apperrors.IsUserFacing(err) {
			s.logger.Warn("statement rejected", "broker", processor.Broker(), "file", file.Name, "err", err)
		}
		return nil, err
	}

	filtered, duplicates := dedup.Filter(parsed, seen)

	now := time.Now().UTC().Truncate(time.Second)
	return &model.ImportResult{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		FileName:  file.Name,
		Data:      filtered,
		Summary:   model.Summarize(filtered, duplicates),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}, nil
}

// GetImport returns a cached result.
// Returns apperrors.ErrImportNotFound if it does not exist or has expired.
func (s *ImportService) GetImport(ctx context.Context, importID string) (*model.ImportResult, error) {
	result, err := s.importRepo.GetImport(ctx, importID)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportImport serializes a cached result and hands it to saver under
// "<statement>_processed.csv".
func (s *ImportService) ExportImport(ctx context.Context, importID string, saver export.Saver) error {
	result, err := s.importRepo.GetImport(ctx, importID)
	if err != nil {
		return err
	}

	content := export.ToCSV(result.Data.AllRows())
	return saver.Save(content, export.ProcessedFileName(result.FileName))
}

// CommitImport writes the transactions of a cached result to the account
// history. Transactions already present in the history are skipped, so
// committing the same result twice never duplicates activities. The result
// stays cached until it expires or is discarded.
func (s *ImportService) CommitImport(ctx context.Context, importID string) (*model.CommitResult, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	result, err := s.importRepo.GetImport(ctx, importID)
	if err != nil {
		return nil, err
	}

	transactions := result.Data.Transactions()
	if len(transactions) == 0 {
		return nil, apperrors.ErrNothingToCommit
	}

	seen, err := s.hashes.Hashes(ctx, result.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect existing activities: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	activities := make([]model.Activity, 0, len(transactions))
	skipped := 0
	for _, t := range transactions {
		if seen.Contains(t.Comment) {
			skipped++
			continue
		}

		activity, err := s.hasher.NewActivity(t, result.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to convert transaction %s: %w", t.Comment, err)
		}
		activity.ID = uuid.New().String()
		activity.CreatedAt = now
		activities = append(activities, activity)
	}

	if err := s.activityRepo.InsertActivities(ctx, activities); err != nil {
		return nil, err
	}
	s.hashes.Invalidate(result.AccountID)

	s.logger.Info("import committed", "account", result.AccountID, "import", importID,
		"created", len(activities), "skipped", skipped)

	return &model.CommitResult{
		ImportID: importID,
		Created:  len(activities),
		Skipped:  skipped,
	}, nil
}

// DiscardImport drops a cached result before it expires.
// Returns apperrors.ErrImportNotFound if it does not exist or has expired.
func (s *ImportService) DiscardImport(ctx context.Context, importID string) error {
	if _, err := s.importRepo.GetImport(ctx, importID); err != nil {
		return err
	}
	return s.importRepo.DeleteImport(ctx, importID)
}

// PurgeExpired removes cached results whose review window has passed.
func (s *ImportService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.importRepo.PurgeExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("purged expired imports", "count", n)
	}
	return n, nil
}

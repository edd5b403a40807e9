package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

// ImportCacheRepository stores reviewed import results until they are
// exported or committed. Payloads are fernet tokens, so statement contents
// are not kept in plain text.
type ImportCacheRepository struct {
	db   *sql.DB
	keys []*fernet.Key
	ttl  time.Duration
}

// NewImportCacheRepository creates a new ImportCacheRepository. The first key
// encrypts; all keys are tried when decrypting. Tokens older than ttl are
// rejected when ttl is positive.
func NewImportCacheRepository(db *sql.DB, ttl time.Duration, keys ...*fernet.Key) *ImportCacheRepository {
	return &ImportCacheRepository{db: db, keys: keys, ttl: ttl}
}

// SaveImport stores result under result.ID.
func (r *ImportCacheRepository) SaveImport(ctx context.Context, result model.ImportResult) error {
	if len(r.keys) == 0 {
		return errors.New("no encryption key configured")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal import result: %w", err)
	}

	token, err := fernet.EncryptAndSign(payload, r.keys[0])
	if err != nil {
		return fmt.Errorf("failed to encrypt import result: %w", err)
	}

	query := `
		INSERT INTO import_cache (id, account_id, file_name, data, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		result.ID,
		result.AccountID,
		result.FileName,
		string(token),
		FormatTime(result.CreatedAt),
		FormatTime(result.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert import cache entry: %w", err)
	}
	return nil
}

// GetImport returns the unexpired result stored under importID.
// Returns apperrors.ErrImportNotFound when it is missing, expired or unreadable.
func (r *ImportCacheRepository) GetImport(ctx context.Context, importID string) (model.ImportResult, error) {
	query := `
		SELECT data
		FROM import_cache
		WHERE id = ? AND expires_at > ?
	`

	var token string
	err := r.db.QueryRowContext(ctx, query, importID, FormatTime(time.Now())).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ImportResult{}, apperrors.ErrImportNotFound
	}
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("failed to query import cache: %w", err)
	}

	payload := fernet.VerifyAndDecrypt([]byte(token), r.ttl, r.keys)
	if payload == nil {
		return model.ImportResult{}, fmt.Errorf("%w: cached payload cannot be decrypted", apperrors.ErrImportNotFound)
	}

	var result model.ImportResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return model.ImportResult{}, fmt.Errorf("failed to parse cached import result: %w", err)
	}
	return result, nil
}

// DeleteImport removes a single entry.
func (r *ImportCacheRepository) DeleteImport(ctx context.Context, importID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM import_cache WHERE id = ?`, importID); err != nil {
		return fmt.Errorf("failed to delete import cache entry: %w", err)
	}
	return nil
}

// PurgeExpired deletes every entry that expired before now and returns how many were removed.
func (r *ImportCacheRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM import_cache WHERE expires_at <= ?`, FormatTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to purge import cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged entries: %w", err)
	}
	return n, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

// AccountRepository provides data access methods for the account table.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetAccounts retrieves all accounts ordered by name.
// Returns an empty slice if there are none.
func (r *AccountRepository) GetAccounts(ctx context.Context) ([]model.Account, error) {
	query := `
		SELECT id, name, broker, currency, is_active, created_at
		FROM account
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query account table: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account table: %w", err)
	}

	return accounts, nil
}

// GetAccount retrieves a single account by ID.
// Returns apperrors.ErrAccountNotFound if no account matches.
func (r *AccountRepository) GetAccount(ctx context.Context, accountID string) (model.Account, error) {
	query := `
		SELECT id, name, broker, currency, is_active, created_at
		FROM account
		WHERE id = ?
	`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, accountID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, err
	}
	return a, nil
}

// InsertAccount stores a new account.
func (r *AccountRepository) InsertAccount(ctx context.Context, a *model.Account) error {
	query := `
		INSERT INTO account (id, name, broker, currency, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Name,
		a.Broker,
		a.Currency,
		a.IsActive,
		FormatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(s rowScanner) (model.Account, error) {
	var a model.Account
	var createdAt sql.NullString

	err := s.Scan(
		&a.ID,
		&a.Name,
		&a.Broker,
		&a.Currency,
		&a.IsActive,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, err
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to scan account: %w", err)
	}

	if createdAt.Valid {
		a.CreatedAt, err = ParseTime(createdAt.String)
		if err != nil {
			return model.Account{}, err
		}
	}
	return a, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

// ActivityRepository provides data access methods for the activity table,
// the activity history statements are deduplicated against.
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new ActivityRepository with the provided database connection.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Search returns one zero-based page of an account's history, newest first.
// A page shorter than pageSize is the last one.
func (r *ActivityRepository) Search(ctx context.Context, accountID string, page, pageSize int) ([]model.Activity, error) {
	if page < 0 {
		page = 0
	}

	query := `
		SELECT id, account_id, date, activity_type, asset_symbol, quantity, unit_price,
			amount, currency, fee, comment, created_at
		FROM activity
		WHERE account_id = ?
		ORDER BY date DESC, created_at DESC, id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity table: %w", err)
	}
	defer rows.Close()

	activities := []model.Activity{}
	for rows.Next() {
		var a model.Activity
		var date string
		var comment, createdAt sql.NullString

		err := rows.Scan(
			&a.ID,
			&a.AccountID,
			&date,
			&a.ActivityType,
			&a.AssetSymbol,
			&a.Quantity,
			&a.UnitPrice,
			&a.Amount,
			&a.Currency,
			&a.Fee,
			&comment,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity table results: %w", err)
		}

		a.Date, err = ParseTime(date)
		if err != nil {
			return nil, err
		}
		if createdAt.Valid {
			a.CreatedAt, err = ParseTime(createdAt.String)
			if err != nil {
				return nil, err
			}
		}
		a.Comment = comment.String

		activities = append(activities, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity table: %w", err)
	}

	return activities, nil
}

// InsertActivities stores activities in a single database transaction.
// Either all are written or none.
func (r *ActivityRepository) InsertActivities(ctx context.Context, activities []model.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after Commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO activity (id, account_id, date, activity_type, asset_symbol, quantity,
			unit_price, amount, currency, fee, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range activities {
		_, err := stmt.ExecContext(ctx,
			a.ID,
			a.AccountID,
			a.Date.Format(timestampLayout),
			a.ActivityType,
			a.AssetSymbol,
			a.Quantity,
			a.UnitPrice,
			a.Amount,
			a.Currency,
			a.Fee,
			a.Comment,
			FormatTime(a.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("error inserting activity %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing activities: %w", err)
	}
	return nil
}

// CountActivities returns the size of an account's history.
func (r *ActivityRepository) CountActivities(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity WHERE account_id = ?`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

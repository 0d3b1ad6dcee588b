package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/voucher-service/internal/models"
)

//go:embed schema.sql
var schema string

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the schema and tables when missing
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// GetCurrentValue returns the UMA value with the latest effective date
func (r *Repository) GetCurrentValue(ctx context.Context) (models.IndexValue, bool, error) {
	query := `
		SELECT id, daily_value, valid_from, created_at
		FROM voucher.uma_values
		ORDER BY valid_from DESC, id DESC
		LIMIT 1`
	value, err := scanIndexValue(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return models.IndexValue{}, false, nil
	}
	if err != nil {
		return models.IndexValue{}, false, fmt.Errorf("failed to find current UMA value: %w", err)
	}
	return value, true, nil
}

// FindIndexValue looks up an identical UMA observation
func (r *Repository) FindIndexValue(ctx context.Context, daily decimal.Decimal, effective time.Time) (models.IndexValue, bool, error) {
	query := `
		SELECT id, daily_value, valid_from, created_at
		FROM voucher.uma_values
		WHERE daily_value = $1 AND valid_from = $2
		ORDER BY id
		LIMIT 1`
	value, err := scanIndexValue(r.db.QueryRowContext(ctx, query, daily, effective))
	if errors.Is(err, sql.ErrNoRows) {
		return models.IndexValue{}, false, nil
	}
	if err != nil {
		return models.IndexValue{}, false, fmt.Errorf("failed to find UMA value: %w", err)
	}
	return value, true, nil
}

// SaveIndexValue inserts a new UMA observation
func (r *Repository) SaveIndexValue(ctx context.Context, value *models.IndexValue) error {
	query := `
		INSERT INTO voucher.uma_values (daily_value, valid_from, created_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, value.DailyValue, value.EffectiveDate).
		Scan(&value.ID, &value.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save UMA value: %w", err)
	}
	return nil
}

// AnnualTotal sums committed deposits dated within the calendar year
func (r *Repository) AnnualTotal(ctx context.Context, year int) (decimal.Decimal, error) {
	from, to := yearBounds(year)
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM voucher.voucher_transactions
		WHERE transaction_date >= $1 AND transaction_date < $2`
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}

// SaveTransaction inserts a committed voucher deposit
func (r *Repository) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO voucher.voucher_transactions (amount, transaction_date, created_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, tx.Amount, tx.TransactionDate).
		Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func scanIndexValue(row *sql.Row) (models.IndexValue, error) {
	var v models.IndexValue
	err := row.Scan(&v.ID, &v.DailyValue, &v.EffectiveDate, &v.CreatedAt)
	return v, err
}

// yearBounds returns the half-open range [Jan 1 of year, Jan 1 of year+1)
func yearBounds(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/voucher-service/internal/models"
)

// IndexProvider returns the UMA observation with the latest effective date.
// ok is false when nothing has been recorded yet.
type IndexProvider interface {
	GetCurrentValue(ctx context.Context) (value models.IndexValue, ok bool, err error)
}

// IndexStore persists UMA observations
type IndexStore interface {
	IndexProvider
	FindIndexValue(ctx context.Context, daily decimal.Decimal, effective time.Time) (value models.IndexValue, ok bool, err error)
	SaveIndexValue(ctx context.Context, value *models.IndexValue) error
}

// TransactionStore reads and writes committed voucher deposits
type TransactionStore interface {
	AnnualTotal(ctx context.Context, year int) (decimal.Decimal, error)
	SaveTransaction(ctx context.Context, tx *models.Transaction) error
}

// IndexFetcher retrieves the latest UMA observation from the publisher
type IndexFetcher interface {
	FetchLatest(ctx context.Context) (models.IndexValue, error)
}

// Notifier is told about newly stored UMA values
type Notifier interface {
	NotifyIndexUpdated(value models.IndexValue) error
}

// Recorder receives business metrics
type Recorder interface {
	ObserveValidation(violation models.Violation)
	ObserveRefresh(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveValidation(models.Violation) {}
func (nopRecorder) ObserveRefresh(string)              {}

package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// PeriodAggregator sums committed deposits per calendar year
type PeriodAggregator struct {
	store TransactionStore
}

// NewPeriodAggregator initializes a new aggregator
func NewPeriodAggregator(store TransactionStore) *PeriodAggregator {
	return &PeriodAggregator{store: store}
}

// AnnualTotal returns the sum of deposits dated within year. A year with no
// deposits yields zero.
func (a *PeriodAggregator) AnnualTotal(ctx context.Context, year int) (decimal.Decimal, error) {
	total, err := a.store.AnnualTotal(ctx, year)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions for %d: %w", year, err)
	}
	return total, nil
}

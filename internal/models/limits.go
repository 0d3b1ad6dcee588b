package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Limits are the deposit caps derived from one IndexValue. They are never stored.
type Limits struct {
	DailyValue        decimal.Decimal
	EffectiveDate     time.Time
	PerTransactionCap decimal.Decimal // monthly-equivalent UMA
	AnnualCap         decimal.Decimal
	DepositsPerYear   int
}

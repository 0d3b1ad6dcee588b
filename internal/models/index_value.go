package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IndexValue is one observation of the daily UMA published by INEGI.
// Values are never mutated; a newer observation supersedes an older one.
type IndexValue struct {
	ID            int64           `json:"id"`
	DailyValue    decimal.Decimal `json:"daily_value"`
	EffectiveDate time.Time       `json:"effective_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

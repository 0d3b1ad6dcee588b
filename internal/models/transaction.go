package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a committed voucher deposit
type Transaction struct {
	ID              int64           `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

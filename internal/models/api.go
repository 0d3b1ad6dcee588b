package models

import "github.com/shopspring/decimal"

// Money is a response amount rendered as a JSON number with two decimals
type Money decimal.Decimal

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

// Decimal returns the underlying value
func (m Money) Decimal() decimal.Decimal {
	return decimal.Decimal(m)
}

// UMAResponse describes the current UMA and the limits derived from it
type UMAResponse struct {
	DailyValue            Money  `json:"daily_value"`
	EffectiveDate         string `json:"effective_date"` // Format: YYYY-MM-DD
	MonthlyValue          Money  `json:"monthly_value"`
	MaxMonthlyDeposit     Money  `json:"max_monthly_deposit"`
	MaxAnnualDeposit      Money  `json:"max_annual_deposit"`
	AnnualDepositsAllowed int    `json:"annual_deposits_allowed"`
}

// VoucherAmount is the body of validate and commit requests
type VoucherAmount struct {
	Amount          decimal.Decimal `json:"amount"`
	Year            *int            `json:"year,omitempty"`
	TransactionDate string          `json:"transaction_date,omitempty"` // Format: YYYY-MM-DD
}

// LimitResponse is the wire form of a ValidationVerdict
type LimitResponse struct {
	IsValid             bool      `json:"is_valid"`
	CurrentAmount       Money     `json:"current_amount"`
	Limit               Money     `json:"limit"`
	PerTransactionLimit Money     `json:"per_transaction_limit"`
	Remaining           Money     `json:"remaining"`
	Year                int       `json:"year"`
	Message             string    `json:"message,omitempty"`
	Violation           Violation `json:"violation,omitempty"`
}

// RemainingLimitResponse reports the annual headroom for a year
type RemainingLimitResponse struct {
	Year           int   `json:"year"`
	RemainingLimit Money `json:"remaining_limit"`
	AnnualLimit    Money `json:"annual_limit"`
}

// CommitResponse is returned when a deposit is submitted for commit
type CommitResponse struct {
	LimitResponse
	Transaction *Transaction `json:"transaction,omitempty"`
}

// RefreshResponse is returned after an on-demand UMA refresh
type RefreshResponse struct {
	DailyValue    Money  `json:"daily_value"`
	EffectiveDate string `json:"effective_date"`
	Created       bool   `json:"created"`
}

// LoginRequest carries operator credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries a signed operator token
type LoginResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the body of every non-verdict failure
type ErrorResponse struct {
	Error string `json:"error"`
}

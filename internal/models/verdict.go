package models

import "github.com/shopspring/decimal"

// Violation tags which rule rejected an amount
type Violation string

const (
	ViolationNone              Violation = ""
	ViolationInvalidAmount     Violation = "invalid_amount"
	ViolationPerTransactionCap Violation = "per_transaction_limit_exceeded"
	ViolationAnnualCap         Violation = "annual_limit_exceeded"
)

// ValidationVerdict is the outcome of validating one proposed deposit
type ValidationVerdict struct {
	IsValid           bool
	Amount            decimal.Decimal
	Cap               decimal.Decimal
	PerTransactionCap decimal.Decimal
	Remaining         decimal.Decimal
	Year              int
	Reason            string
	Violation         Violation
}

// RemainingLimit is the annual headroom for one calendar year
type RemainingLimit struct {
	Year      int
	Remaining decimal.Decimal
	AnnualCap decimal.Decimal
}

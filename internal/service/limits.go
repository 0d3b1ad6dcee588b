package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/voucher-service/internal/models"
)

// Deposit policy. These are legal constants; changing them is a deploy-time
// decision.
var (
	// MonthlyFactor converts the daily UMA into its monthly equivalent
	MonthlyFactor = decimal.RequireFromString("30.4")
)

// DepositsPerYear is the number of monthly-cap deposits allowed per calendar year
const DepositsPerYear = 7

// DeriveLimits computes the deposit caps for one UMA observation. No rounding
// is applied; callers round at the edge.
func DeriveLimits(index models.IndexValue) (models.Limits, error) {
	if !index.DailyValue.IsPositive() {
		return models.Limits{}, fmt.Errorf("%w: %s", ErrInvalidIndex, index.DailyValue)
	}

	perTransaction := index.DailyValue.Mul(MonthlyFactor)
	return models.Limits{
		DailyValue:        index.DailyValue,
		EffectiveDate:     index.EffectiveDate,
		PerTransactionCap: perTransaction,
		AnnualCap:         perTransaction.Mul(decimal.NewFromInt(DepositsPerYear)),
		DepositsPerYear:   DepositsPerYear,
	}, nil
}

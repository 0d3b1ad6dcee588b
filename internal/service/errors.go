package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/voucher-service/internal/utils"
)

var (
	// ErrNoIndexAvailable means no UMA value has ever been recorded. It is an
	// operational failure, never a validation outcome.
	ErrNoIndexAvailable = errors.New("no UMA value available")
	// ErrInvalidIndex is returned for a non-positive UMA value
	ErrInvalidIndex = errors.New("invalid UMA value")
	// ErrInvalidAmount is returned for a non-positive deposit amount
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrLimitExceeded is wrapped by LimitExceededError
	ErrLimitExceeded = errors.New("limit exceeded")
	// ErrInvalidCredentials is returned by operator login
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// LimitKind names the limit a deposit ran into
type LimitKind string

const (
	LimitMonthly LimitKind = "monthly"
	LimitAnnual  LimitKind = "annual"
)

// LimitExceededError reports the cap an amount went over
type LimitExceededError struct {
	Kind  LimitKind
	Limit decimal.Decimal
}

func (e *LimitExceededError) Error() string {
	switch e.Kind {
	case LimitAnnual:
		return fmt.Sprintf("amount would exceed annual UMA limit of %s MXN", utils.FormatAmount(e.Limit))
	default:
		return fmt.Sprintf("amount exceeds monthly UMA limit of %s MXN", utils.FormatAmount(e.Limit))
	}
}

func (e *LimitExceededError) Unwrap() error {
	return ErrLimitExceeded
}

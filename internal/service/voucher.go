package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/voucher-service/internal/models"
	"github.com/Dan9191/voucher-service/internal/utils"
)

// VoucherService validates voucher deposits against the UMA limits
type VoucherService struct {
	index        IndexProvider
	transactions TransactionStore
	aggregator   *PeriodAggregator
	log          *logrus.Logger
	metrics      Recorder
	now          func() time.Time
}

// Option customizes a VoucherService
type Option func(*VoucherService)

// WithClock replaces time.Now as the source of the current year
func WithClock(now func() time.Time) Option {
	return func(s *VoucherService) {
		s.now = now
	}
}

// WithRecorder reports validation outcomes to r
func WithRecorder(r Recorder) Option {
	return func(s *VoucherService) {
		s.metrics = r
	}
}

// NewVoucherService initializes a new voucher service
func NewVoucherService(index IndexProvider, transactions TransactionStore, log *logrus.Logger, opts ...Option) *VoucherService {
	s := &VoucherService{
		index:        index,
		transactions: transactions,
		aggregator:   NewPeriodAggregator(transactions),
		log:          log,
		metrics:      nopRecorder{},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentLimits derives the limits from the latest UMA value
func (s *VoucherService) CurrentLimits(ctx context.Context) (models.Limits, error) {
	value, ok, err := s.index.GetCurrentValue(ctx)
	if err != nil {
		return models.Limits{}, fmt.Errorf("failed to load current UMA value: %w", err)
	}
	if !ok {
		return models.Limits{}, ErrNoIndexAvailable
	}
	return DeriveLimits(value)
}

// GetAnnualRemaining returns the headroom left for year, or for the current
// year when year is nil.
func (s *VoucherService) GetAnnualRemaining(ctx context.Context, year *int) (models.RemainingLimit, error) {
	limits, err := s.CurrentLimits(ctx)
	if err != nil {
		return models.RemainingLimit{}, err
	}

	y := s.resolveYear(year)
	remaining, err := s.annualRemaining(ctx, y, limits)
	if err != nil {
		return models.RemainingLimit{}, err
	}

	return models.RemainingLimit{Year: y, Remaining: remaining, AnnualCap: limits.AnnualCap}, nil
}

// Validate checks amount against the positivity, monthly and annual rules, in
// that order, and reports the first rule that fails. Rule failures come back
// as an invalid verdict; the returned error is reserved for operational
// failures such as ErrNoIndexAvailable.
func (s *VoucherService) Validate(ctx context.Context, amount decimal.Decimal, year *int) (models.ValidationVerdict, error) {
	limits, err := s.CurrentLimits(ctx)
	if err != nil {
		return models.ValidationVerdict{}, err
	}

	y := s.resolveYear(year)
	verdict := models.ValidationVerdict{
		Amount:            amount,
		Cap:               limits.AnnualCap,
		PerTransactionCap: limits.PerTransactionCap,
		Year:              y,
	}

	var (
		remaining     decimal.Decimal
		haveRemaining bool
	)

	violation := checkPositive(amount)
	if violation == nil {
		violation = checkPerTransaction(amount, limits)
	}
	if violation == nil {
		remaining, err = s.annualRemaining(ctx, y, limits)
		if err != nil {
			return models.ValidationVerdict{}, err
		}
		haveRemaining = true
		violation = checkAnnual(amount, remaining, limits)
	}

	if !haveRemaining {
		remaining, err = s.annualRemaining(ctx, y, limits)
		if err != nil {
			return models.ValidationVerdict{}, err
		}
	}
	verdict.Remaining = remaining

	if violation != nil {
		verdict.Reason = violation.Error()
		verdict.Violation = classify(violation)
		s.log.WithFields(logrus.Fields{
			"amount":    amount.String(),
			"year":      y,
			"violation": verdict.Violation,
		}).Warn("Voucher amount rejected")
	} else {
		verdict.IsValid = true
	}

	s.metrics.ObserveValidation(verdict.Violation)
	return verdict, nil
}

// Commit validates amount for the year of date and stores it as a committed
// deposit when valid. The amount is rounded to cents first, so the validated
// value is the stored one. The check and the write are not atomic.
func (s *VoucherService) Commit(ctx context.Context, amount decimal.Decimal, date time.Time) (models.ValidationVerdict, *models.Transaction, error) {
	amount = utils.RoundAmount(amount)
	date = utils.DateOnly(date)
	year := date.Year()

	verdict, err := s.Validate(ctx, amount, &year)
	if err != nil {
		return models.ValidationVerdict{}, nil, err
	}
	if !verdict.IsValid {
		return verdict, nil, nil
	}

	tx := &models.Transaction{
		Amount:          amount,
		TransactionDate: date,
	}
	if err := s.transactions.SaveTransaction(ctx, tx); err != nil {
		return models.ValidationVerdict{}, nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.log.Infof("Voucher deposit of %s MXN committed for %s", utils.FormatAmount(amount), utils.FormatDate(date))
	return verdict, tx, nil
}

func (s *VoucherService) annualRemaining(ctx context.Context, year int, limits models.Limits) (decimal.Decimal, error) {
	used, err := s.aggregator.AnnualTotal(ctx, year)
	if err != nil {
		return decimal.Zero, err
	}
	return limits.AnnualCap.Sub(used), nil
}

func (s *VoucherService) resolveYear(year *int) int {
	if year != nil {
		return *year
	}
	return s.now().Year()
}

func checkPositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: must be a positive number", ErrInvalidAmount)
	}
	return nil
}

func checkPerTransaction(amount decimal.Decimal, limits models.Limits) error {
	if amount.GreaterThan(limits.PerTransactionCap) {
		return &LimitExceededError{Kind: LimitMonthly, Limit: limits.PerTransactionCap}
	}
	return nil
}

func checkAnnual(amount, remaining decimal.Decimal, limits models.Limits) error {
	if amount.GreaterThan(remaining) {
		return &LimitExceededError{Kind: LimitAnnual, Limit: limits.AnnualCap}
	}
	return nil
}

func classify(violation error) models.Violation {
	var limitErr *LimitExceededError
	switch {
	case errors.Is(violation, ErrInvalidAmount):
		return models.ViolationInvalidAmount
	case errors.As(violation, &limitErr) && limitErr.Kind == LimitAnnual:
		return models.ViolationAnnualCap
	case errors.As(violation, &limitErr):
		return models.ViolationPerTransactionCap
	default:
		return models.ViolationNone
	}
}

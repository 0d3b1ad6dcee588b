package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/Dan9191/voucher-service/internal/models"
	"github.com/Dan9191/voucher-service/internal/repository"
)

var now = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

type recorderStub struct {
	validations []models.Violation
	refreshes   []string
}

func (r *recorderStub) ObserveValidation(v models.Violation) { r.validations = append(r.validations, v) }
func (r *recorderStub) ObserveRefresh(o string)              { r.refreshes = append(r.refreshes, o) }

type failingStore struct{}

func (failingStore) AnnualTotal(context.Context, int) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("connection reset")
}

func (failingStore) SaveTransaction(context.Context, *models.Transaction) error {
	return errors.New("connection reset")
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(v int) *int {
	return &v
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type VoucherServiceSuite struct {
	suite.Suite
	ctx      context.Context
	store    *repository.InMemory
	recorder *recorderStub
	svc      *VoucherService
}

func TestVoucherServiceSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceSuite))
}

func (s *VoucherServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = repository.NewInMemory()
	s.recorder = &recorderStub{}
	s.svc = NewVoucherService(s.store, s.store, quietLogger(),
		WithClock(func() time.Time { return now }),
		WithRecorder(s.recorder),
	)
}

func (s *VoucherServiceSuite) recordUMA(value string, effective time.Time) {
	v := &models.IndexValue{DailyValue: dec(value), EffectiveDate: effective}
	s.Require().NoError(s.store.SaveIndexValue(s.ctx, v))
}

func (s *VoucherServiceSuite) recordTx(amount string, at time.Time) {
	s.Require().NoError(s.store.SaveTransaction(s.ctx, &models.Transaction{Amount: dec(amount), TransactionDate: at}))
}

func (s *VoucherServiceSuite) withDefaultUMA() {
	s.recordUMA("108.57", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
}

func (s *VoucherServiceSuite) TestNoIndexIsAnOperationalError() {
	_, err := s.svc.CurrentLimits(s.ctx)
	s.ErrorIs(err, ErrNoIndexAvailable)

	_, err = s.svc.Validate(s.ctx, dec("100"), nil)
	s.ErrorIs(err, ErrNoIndexAvailable)

	_, err = s.svc.GetAnnualRemaining(s.ctx, nil)
	s.ErrorIs(err, ErrNoIndexAvailable)

	s.Empty(s.recorder.validations)
}

func (s *VoucherServiceSuite) TestCurrentLimitsUsesLatestIndex() {
	s.withDefaultUMA()
	limits, err := s.svc.CurrentLimits(s.ctx)
	s.Require().NoError(err)
	s.Equal("3300.528", limits.PerTransactionCap.String())

	s.recordUMA("113.14", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	limits, err = s.svc.CurrentLimits(s.ctx)
	s.Require().NoError(err)
	s.True(limits.DailyValue.Equal(dec("113.14")))
}

func (s *VoucherServiceSuite) TestPositivityRule() {
	s.withDefaultUMA()
	s.recordTx("1000.00", now)

	for _, amount := range []string{"0", "-100"} {
		s.Run(amount, func() {
			verdict, err := s.svc.Validate(s.ctx, dec(amount), nil)
			s.Require().NoError(err)
			s.False(verdict.IsValid)
			s.Equal(models.ViolationInvalidAmount, verdict.Violation)
			s.Contains(verdict.Reason, "invalid amount")
			s.Equal("23103.696", verdict.Cap.String())
			s.Equal("22103.696", verdict.Remaining.String())
			s.Equal(2024, verdict.Year)
		})
	}
}

func (s *VoucherServiceSuite) TestPerTransactionRule() {
	s.withDefaultUMA()

	s.Run("exactly the cap is valid", func() {
		verdict, err := s.svc.Validate(s.ctx, dec("3300.528"), nil)
		s.Require().NoError(err)
		s.True(verdict.IsValid)
	})

	s.Run("one cent above the rounded cap is invalid", func() {
		verdict, err := s.svc.Validate(s.ctx, dec("3300.54"), nil)
		s.Require().NoError(err)
		s.False(verdict.IsValid)
		s.Equal(models.ViolationPerTransactionCap, verdict.Violation)
	})

	s.Run("cap plus 100 reports the monthly limit", func() {
		verdict, err := s.svc.Validate(s.ctx, dec("3400.528"), nil)
		s.Require().NoError(err)
		s.False(verdict.IsValid)
		s.Equal(models.ViolationPerTransactionCap, verdict.Violation)
		s.Equal("amount exceeds monthly UMA limit of 3300.53 MXN", verdict.Reason)
		s.Equal("3300.528", verdict.PerTransactionCap.String())
		s.Equal("23103.696", verdict.Remaining.String())
	})
}

func (s *VoucherServiceSuite) TestAnnualRule() {
	s.withDefaultUMA()
	s.recordTx("22103.696", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))

	verdict, err := s.svc.Validate(s.ctx, dec("1000"), nil)
	s.Require().NoError(err)
	s.True(verdict.IsValid)
	s.Equal("1000", verdict.Remaining.String())
	s.Empty(verdict.Reason)

	verdict, err = s.svc.Validate(s.ctx, dec("1000.01"), nil)
	s.Require().NoError(err)
	s.False(verdict.IsValid)
	s.Equal(models.ViolationAnnualCap, verdict.Violation)
	s.Equal("amount would exceed annual UMA limit of 23103.70 MXN", verdict.Reason)
	s.Equal("23103.696", verdict.Cap.String())
}

func (s *VoucherServiceSuite) TestRulesShortCircuitInOrder() {
	s.withDefaultUMA()
	s.recordTx("23103.696", now)

	verdict, err := s.svc.Validate(s.ctx, dec("0"), nil)
	s.Require().NoError(err)
	s.Equal(models.ViolationInvalidAmount, verdict.Violation)

	verdict, err = s.svc.Validate(s.ctx, dec("5000"), nil)
	s.Require().NoError(err)
	s.Equal(models.ViolationPerTransactionCap, verdict.Violation)

	verdict, err = s.svc.Validate(s.ctx, dec("0.01"), nil)
	s.Require().NoError(err)
	s.Equal(models.ViolationAnnualCap, verdict.Violation)
	s.True(verdict.Remaining.IsZero())
}

func (s *VoucherServiceSuite) TestExplicitYear() {
	s.withDefaultUMA()
	s.recordTx("23103.696", time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC))

	verdict, err := s.svc.Validate(s.ctx, dec("100"), intPtr(2023))
	s.Require().NoError(err)
	s.False(verdict.IsValid)
	s.Equal(2023, verdict.Year)

	verdict, err = s.svc.Validate(s.ctx, dec("100"), nil)
	s.Require().NoError(err)
	s.True(verdict.IsValid)
	s.Equal(2024, verdict.Year)
}

func (s *VoucherServiceSuite) TestValidateIsIdempotent() {
	s.withDefaultUMA()
	s.recordTx("1000.00", now)

	first, err := s.svc.Validate(s.ctx, dec("2500"), nil)
	s.Require().NoError(err)
	second, err := s.svc.Validate(s.ctx, dec("2500"), nil)
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *VoucherServiceSuite) TestGetAnnualRemaining() {
	s.withDefaultUMA()

	remaining, err := s.svc.GetAnnualRemaining(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(2024, remaining.Year)
	s.True(remaining.Remaining.Equal(remaining.AnnualCap))

	s.recordTx("1000.00", now)
	remaining, err = s.svc.GetAnnualRemaining(s.ctx, intPtr(2024))
	s.Require().NoError(err)
	s.Equal("22103.696", remaining.Remaining.String())
	s.Equal("22103.70", remaining.Remaining.StringFixed(2))

	remaining, err = s.svc.GetAnnualRemaining(s.ctx, intPtr(2025))
	s.Require().NoError(err)
	s.Equal("23103.696", remaining.Remaining.String())
}

func (s *VoucherServiceSuite) TestCommit() {
	s.withDefaultUMA()
	at := time.Date(2024, time.July, 3, 18, 45, 0, 0, time.UTC)

	verdict, tx, err := s.svc.Commit(s.ctx, dec("3000"), at)
	s.Require().NoError(err)
	s.True(verdict.IsValid)
	s.Require().NotNil(tx)
	s.NotZero(tx.ID)
	s.Equal(time.Date(2024, time.July, 3, 0, 0, 0, 0, time.UTC), tx.TransactionDate)

	remaining, err := s.svc.GetAnnualRemaining(s.ctx, intPtr(2024))
	s.Require().NoError(err)
	s.Equal("20103.696", remaining.Remaining.String())

	verdict, tx, err = s.svc.Commit(s.ctx, dec("4000"), at)
	s.Require().NoError(err)
	s.False(verdict.IsValid)
	s.Nil(tx)

	remaining, err = s.svc.GetAnnualRemaining(s.ctx, intPtr(2024))
	s.Require().NoError(err)
	s.Equal("20103.696", remaining.Remaining.String())
}

func (s *VoucherServiceSuite) TestCommitStoresCents() {
	s.withDefaultUMA()
	at := time.Date(2024, time.July, 3, 0, 0, 0, 0, time.UTC)

	verdict, tx, err := s.svc.Commit(s.ctx, dec("100.005"), at)
	s.Require().NoError(err)
	s.Require().NotNil(tx)
	s.Equal("100.01", tx.Amount.String())
	s.Equal("100.01", verdict.Amount.String())

	total, err := s.store.AnnualTotal(s.ctx, 2024)
	s.Require().NoError(err)
	s.Equal("100.01", total.String())

	_, tx, err = s.svc.Commit(s.ctx, dec("0.004"), at)
	s.Require().NoError(err)
	s.Nil(tx)
}

func (s *VoucherServiceSuite) TestRecorderSeesEveryVerdict() {
	s.withDefaultUMA()

	_, _ = s.svc.Validate(s.ctx, dec("100"), nil)
	_, _ = s.svc.Validate(s.ctx, dec("-1"), nil)

	s.Equal([]models.Violation{models.ViolationNone, models.ViolationInvalidAmount}, s.recorder.validations)
}

func (s *VoucherServiceSuite) TestStoreFailurePropagates() {
	s.withDefaultUMA()
	svc := NewVoucherService(s.store, failingStore{}, quietLogger())

	_, err := svc.Validate(s.ctx, dec("100"), nil)
	s.ErrorContains(err, "connection reset")

	_, err = svc.Validate(s.ctx, dec("0"), nil)
	s.ErrorContains(err, "connection reset")

	_, err = svc.GetAnnualRemaining(s.ctx, nil)
	s.ErrorContains(err, "connection reset")
}

func (s *VoucherServiceSuite) TestAggregatorReturnsZeroForEmptyYear() {
	total, err := NewPeriodAggregator(s.store).AnnualTotal(s.ctx, 1999)
	s.Require().NoError(err)
	s.True(total.IsZero())
}

package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/voucher-service/internal/models"
)

type stubUpdater struct {
	calls int
	err   error
}

func (u *stubUpdater) Update(context.Context) (models.IndexValue, bool, error) {
	u.calls++
	if u.err != nil {
		return models.IndexValue{}, false, u.err
	}
	return models.IndexValue{DailyValue: decimal.RequireFromString("108.57")}, true, nil
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	_, err := NewScheduler("every day", &stubUpdater{}, log)
	assert.ErrorContains(t, err, "invalid UMA refresh schedule")
}

func TestRunOnce(t *testing.T) {
	log, hook := test.NewNullLogger()
	updater := &stubUpdater{}

	s, err := NewScheduler("0 6 * * *", updater, log)
	require.NoError(t, err)

	s.RunOnce()
	assert.Equal(t, 1, updater.calls)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)

	updater.err = errors.New("INEGI unavailable")
	s.RunOnce()
	assert.Equal(t, 2, updater.calls)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestStartStop(t *testing.T) {
	log, _ := test.NewNullLogger()
	s, err := NewScheduler("@hourly", &stubUpdater{}, log)
	require.NoError(t, err)

	s.Start()
	s.Stop()
}

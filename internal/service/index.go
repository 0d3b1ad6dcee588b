package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/voucher-service/internal/models"
	"github.com/Dan9191/voucher-service/internal/utils"
)

// Refresh outcomes reported to the Recorder
const (
	RefreshCreated   = "created"
	RefreshUnchanged = "unchanged"
	RefreshFailed    = "failed"
)

// IndexUpdater pulls the latest UMA from INEGI and records it
type IndexUpdater struct {
	fetcher  IndexFetcher
	store    IndexStore
	notifier Notifier
	log      *logrus.Logger
	metrics  Recorder
}

// NewIndexUpdater initializes a new updater. notifier and metrics may be nil.
func NewIndexUpdater(fetcher IndexFetcher, store IndexStore, notifier Notifier, metrics Recorder, log *logrus.Logger) *IndexUpdater {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &IndexUpdater{
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		log:      log,
		metrics:  metrics,
	}
}

// Update fetches the latest UMA observation, rounded to cents, and stores it
// unless an identical observation already exists. created reports whether a new row was written.
func (u *IndexUpdater) Update(ctx context.Context) (value models.IndexValue, created bool, err error) {
	defer func() {
		switch {
		case err != nil:
			u.metrics.ObserveRefresh(RefreshFailed)
		case created:
			u.metrics.ObserveRefresh(RefreshCreated)
		default:
			u.metrics.ObserveRefresh(RefreshUnchanged)
		}
	}()

	fetched, err := u.fetcher.FetchLatest(ctx)
	if err != nil {
		return models.IndexValue{}, false, fmt.Errorf("failed to fetch UMA value: %w", err)
	}
	fetched.DailyValue = utils.RoundAmount(fetched.DailyValue)
	if !fetched.DailyValue.IsPositive() {
		return models.IndexValue{}, false, fmt.Errorf("%w: %s", ErrInvalidIndex, fetched.DailyValue)
	}
	fetched.EffectiveDate = utils.DateOnly(fetched.EffectiveDate)

	existing, ok, err := u.store.FindIndexValue(ctx, fetched.DailyValue, fetched.EffectiveDate)
	if err != nil {
		return models.IndexValue{}, false, fmt.Errorf("failed to look up UMA value: %w", err)
	}
	if ok {
		u.log.Info("UMA value already up to date")
		return existing, false, nil
	}

	if err := u.store.SaveIndexValue(ctx, &fetched); err != nil {
		return models.IndexValue{}, false, fmt.Errorf("failed to save UMA value: %w", err)
	}
	u.log.Infof("Updated UMA value to %s valid from %s", fetched.DailyValue, utils.FormatDate(fetched.EffectiveDate))

	if u.notifier != nil {
		if err := u.notifier.NotifyIndexUpdated(fetched); err != nil {
			u.log.Errorf("Failed to send UMA update notification: %v", err)
		}
	}

	return fetched, true, nil
}

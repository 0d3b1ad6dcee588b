package repository

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/voucher-service/internal/models"
)

// InMemory keeps UMA values and transactions in process memory
type InMemory struct {
	mu           sync.RWMutex
	values       []models.IndexValue
	transactions []models.Transaction
	nextID       int64
	now          func() time.Time
}

// NewInMemory initializes an empty in-memory store
func NewInMemory() *InMemory {
	return &InMemory{now: time.Now}
}

// GetCurrentValue returns the UMA value with the latest effective date
func (m *InMemory) GetCurrentValue(_ context.Context) (models.IndexValue, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		current models.IndexValue
		found   bool
	)
	for _, v := range m.values {
		if !found || !v.EffectiveDate.Before(current.EffectiveDate) {
			current = v
			found = true
		}
	}
	return current, found, nil
}

// FindIndexValue looks up an identical UMA observation
func (m *InMemory) FindIndexValue(_ context.Context, daily decimal.Decimal, effective time.Time) (models.IndexValue, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, v := range m.values {
		if v.DailyValue.Equal(daily) && v.EffectiveDate.Equal(effective) {
			return v, true, nil
		}
	}
	return models.IndexValue{}, false, nil
}

// SaveIndexValue appends a new UMA observation
func (m *InMemory) SaveIndexValue(_ context.Context, value *models.IndexValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	value.ID = m.nextID
	value.CreatedAt = m.now()
	m.values = append(m.values, *value)
	return nil
}

// AnnualTotal sums deposits whose date falls in year
func (m *InMemory) AnnualTotal(_ context.Context, year int) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, tx := range m.transactions {
		if tx.TransactionDate.Year() == year {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

// SaveTransaction appends a committed deposit
func (m *InMemory) SaveTransaction(_ context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	tx.ID = m.nextID
	tx.CreatedAt = m.now()
	m.transactions = append(m.transactions, *tx)
	return nil
}

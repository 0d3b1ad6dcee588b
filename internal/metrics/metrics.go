package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Dan9191/voucher-service/internal/models"
)

// Metrics tracks voucher validations and UMA refreshes
type Metrics struct {
	Validations *prometheus.CounterVec
	Refreshes   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voucher_validations_total",
			Help: "Total number of voucher amount validations by outcome",
		}, []string{"outcome"}),
		Refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voucher_uma_refreshes_total",
			Help: "Total number of UMA refresh attempts by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveValidation records one verdict; an empty violation means valid
func (m *Metrics) ObserveValidation(violation models.Violation) {
	outcome := string(violation)
	if violation == models.ViolationNone {
		outcome = "valid"
	}
	m.Validations.WithLabelValues(outcome).Inc()
}

// ObserveRefresh records one UMA refresh attempt
func (m *Metrics) ObserveRefresh(outcome string) {
	m.Refreshes.WithLabelValues(outcome).Inc()
}

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "notary"

// Metrics holds the Prometheus collectors of a notary node
type Metrics struct {
	SignaturesIssued    *prometheus.CounterVec
	EventsExtracted     *prometheus.CounterVec
	BlocksProcessed     prometheus.Counter
	LastProcessedBlock  prometheus.Gauge
	WithdrawalLimit     *prometheus.GaugeVec
	LimitRecomputations *prometheus.CounterVec
	Registrations       *prometheus.CounterVec
	FreeAddresses       prometheus.Gauge
	EventsDelivered     *prometheus.CounterVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SignaturesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signature_requests_total",
			Help:      "Signature requests by operation kind and outcome.",
		}, []string{"kind", "outcome"}),
		EventsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_extracted_total",
			Help:      "Primary chain events extracted by type.",
		}, []string{"type"}),
		BlocksProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_processed_total",
			Help:      "Primary chain blocks processed by the watcher.",
		}),
		LastProcessedBlock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_processed_block",
			Help:      "Number of the last block processed by the watcher.",
		}),
		WithdrawalLimit: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "withdrawal_limit",
			Help:      "Current withdrawal limit by asset.",
		}, []string{"asset"}),
		LimitRecomputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdrawal_limit_recomputations_total",
			Help:      "Withdrawal limit recomputations by asset and reason.",
		}, []string{"asset", "reason"}),
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Address registrations by outcome.",
		}, []string{"outcome"}),
		FreeAddresses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "free_addresses",
			Help:      "Unallocated addresses left in the pool.",
		}),
		EventsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_delivered_total",
			Help:      "Stream events relayed to the ledger side by type and outcome.",
		}, []string{"type", "outcome"}),
	}

	reg.MustRegister(
		m.SignaturesIssued,
		m.EventsExtracted,
		m.BlocksProcessed,
		m.LastProcessedBlock,
		m.WithdrawalLimit,
		m.LimitRecomputations,
		m.Registrations,
		m.FreeAddresses,
		m.EventsDelivered,
	)
	return m
}

// NewNop creates collectors on a private registry, for tests and tools that do not export metrics
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// SetWithdrawalLimit records a decimal limit; unparsable values are ignored
func (m *Metrics) SetWithdrawalLimit(asset string, limit string) {
	value, err := strconv.ParseFloat(limit, 64)
	if err != nil {
		return
	}
	m.WithdrawalLimit.WithLabelValues(asset).Set(value)
}

package metrics

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the application. Following
// the explicit dependency injection pattern, this struct is passed to the
// components that need to record metrics; a nil *Metrics disables
// recording.
type Metrics struct {
	rpcCallsTotal    *prometheus.CounterVec
	rpcCallDuration  *prometheus.HistogramVec
	transfersTotal   *prometheus.CounterVec
	confirmationWait *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		rpcCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solana_rpc_calls_total",
				Help: "Total number of Solana RPC calls by method and status",
			},
			[]string{"method", "status", "endpoint"},
		),
		rpcCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solana_rpc_call_duration_seconds",
				Help:    "Duration of Solana RPC calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"method", "endpoint"},
		),
		transfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_total",
				Help: "Total number of submitted transfers by terminal outcome",
			},
			[]string{"outcome"},
		),
		confirmationWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transfer_confirmation_wait_seconds",
				Help:    "Time between transaction submission and confirmation",
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 90},
			},
			[]string{"endpoint"},
		),
	}
}

// Dump gathers the registry and logs every recorded sample at debug level.
// A one-shot command has no scrape endpoint, so this is how the recorded
// counters become visible before the process exits.
func Dump(g prometheus.Gatherer, logger *slog.Logger) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			attrs := make([]any, 0, 2*len(metric.GetLabel())+4)
			for _, label := range metric.GetLabel() {
				attrs = append(attrs, label.GetName(), label.GetValue())
			}
			switch {
			case metric.GetCounter() != nil:
				attrs = append(attrs, "value", metric.GetCounter().GetValue())
			case metric.GetGauge() != nil:
				attrs = append(attrs, "value", metric.GetGauge().GetValue())
			case metric.GetHistogram() != nil:
				attrs = append(attrs,
					"count", metric.GetHistogram().GetSampleCount(),
					"sum", metric.GetHistogram().GetSampleSum(),
				)
			}
			logger.Debug(fam.GetName(), attrs...)
		}
	}
	return nil
}

// RecordRPCCall records a Solana RPC call with its duration.
func (m *Metrics) RecordRPCCall(method, status, endpoint string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.rpcCallsTotal.WithLabelValues(method, status, endpoint).Inc()
	m.rpcCallDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordTransferOutcome records the terminal outcome of a transfer
// ("confirmed", "rejected", "failed", "timeout").
func (m *Metrics) RecordTransferOutcome(outcome string) {
	if m == nil {
		return
	}
	m.transfersTotal.WithLabelValues(outcome).Inc()
}

// RecordConfirmationWait records how long a transfer took to confirm after
// submission.
func (m *Metrics) RecordConfirmationWait(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.confirmationWait.WithLabelValues(endpoint).Observe(seconds)
}

// Package metrics exposes Prometheus instrumentation for the assistant
// services. A nil *Metrics is valid and records nothing, so tests can
// construct usecases without touching the global registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	MessagesProcessed   *prometheus.CounterVec
	GeneratorFallbacks  prometheus.Counter
	GeneratorDuration   prometheus.Histogram
	SlotsSuggested      prometheus.Counter
	AppointmentsCreated *prometheus.CounterVec
	PipelineFailures    prometheus.Counter
}

// NewMetrics registers and returns the service metrics.
// Call once per process; promauto registers on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		MessagesProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "upseller_messages_processed_total",
			Help: "Total buyer messages processed, by classified intent",
		}, []string{"intent"}),
		GeneratorFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "upseller_generator_fallbacks_total",
			Help: "Total negotiation calls that fell back to the rule strategy",
		}),
		GeneratorDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "upseller_generator_duration_seconds",
			Help:    "Time taken by text-generation collaborator calls",
			Buckets: prometheus.DefBuckets,
		}),
		SlotsSuggested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "upseller_slots_suggested_total",
			Help: "Total meeting slots suggested",
		}),
		AppointmentsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "upseller_appointments_created_total",
			Help: "Total appointments created, by outcome",
		}, []string{"outcome"}),
		PipelineFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "upseller_pipeline_failures_total",
			Help: "Total inbound-message pipelines that returned the safe fallback draft",
		}),
	}
}

// IncMessageProcessed counts one processed message for an intent
func (m *Metrics) IncMessageProcessed(intent string) {
	if m == nil {
		return
	}
	m.MessagesProcessed.WithLabelValues(intent).Inc()
}

// IncGeneratorFallback counts one silent fallback to the rule strategy
func (m *Metrics) IncGeneratorFallback() {
	if m == nil {
		return
	}
	m.GeneratorFallbacks.Inc()
}

// ObserveGeneratorDuration records one collaborator call duration
func (m *Metrics) ObserveGeneratorDuration(seconds float64) {
	if m == nil {
		return
	}
	m.GeneratorDuration.Observe(seconds)
}

// AddSlotsSuggested counts suggested slots
func (m *Metrics) AddSlotsSuggested(n int) {
	if m == nil {
		return
	}
	m.SlotsSuggested.Add(float64(n))
}

// IncAppointmentCreated counts one appointment creation outcome
func (m *Metrics) IncAppointmentCreated(outcome string) {
	if m == nil {
		return
	}
	m.AppointmentsCreated.WithLabelValues(outcome).Inc()
}

// IncPipelineFailure counts one safe-fallback pipeline result
func (m *Metrics) IncPipelineFailure() {
	if m == nil {
		return
	}
	m.PipelineFailures.Inc()
}

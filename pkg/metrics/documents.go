package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DocumentMetrics records creation and lifecycle activity per document type.
type DocumentMetrics struct {
	created           *prometheus.CounterVec
	deduplicated      *prometheus.CounterVec
	transitions       *prometheus.CounterVec
	transitionsDenied *prometheus.CounterVec
	duration          *prometheus.HistogramVec
}

// NewDocumentMetrics registers the document metrics on the provided registerer.
func NewDocumentMetrics(reg prometheus.Registerer) *DocumentMetrics {
	if reg == nil {
		return &DocumentMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_created_total",
		Help: "Documents created, labelled by type.",
	}, []string{"type"})
	deduplicated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_deduplicated_total",
		Help: "Creation requests resolved to an existing document, labelled by type and phase.",
	}, []string{"type", "phase"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_status_transitions_total",
		Help: "Status transitions applied, labelled by type and target status.",
	}, []string{"type", "to_status"})
	transitionsDenied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_status_transitions_denied_total",
		Help: "Status transitions rejected, labelled by type and reason.",
	}, []string{"type", "reason"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "document_create_duration_seconds",
		Help:    "Duration of document creation requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	reg.MustRegister(created, deduplicated, transitions, transitionsDenied, duration)
	return &DocumentMetrics{
		created:           created,
		deduplicated:      deduplicated,
		transitions:       transitions,
		transitionsDenied: transitionsDenied,
		duration:          duration,
	}
}

// IncCreated increments the created counter for the document type.
func (d *DocumentMetrics) IncCreated(docType string) {
	if d == nil || d.created == nil {
		return
	}
	d.created.WithLabelValues(normalizeLabel(docType)).Inc()
}

// IncDeduplicated increments the dedup counter for the type and match phase.
func (d *DocumentMetrics) IncDeduplicated(docType, phase string) {
	if d == nil || d.deduplicated == nil {
		return
	}
	d.deduplicated.WithLabelValues(normalizeLabel(docType), normalizeLabel(phase)).Inc()
}

// IncTransition increments the transition counter for the type and target status.
func (d *DocumentMetrics) IncTransition(docType, toStatus string) {
	if d == nil || d.transitions == nil {
		return
	}
	d.transitions.WithLabelValues(normalizeLabel(docType), normalizeLabel(toStatus)).Inc()
}

// IncTransitionDenied increments the denied counter for the type and reason.
func (d *DocumentMetrics) IncTransitionDenied(docType, reason string) {
	if d == nil || d.transitionsDenied == nil {
		return
	}
	d.transitionsDenied.WithLabelValues(normalizeLabel(docType), normalizeLabel(reason)).Inc()
}

// ObserveCreateDuration records how long a creation request took.
func (d *DocumentMetrics) ObserveCreateDuration(docType string, duration time.Duration) {
	if d == nil || d.duration == nil {
		return
	}
	d.duration.WithLabelValues(normalizeLabel(docType)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestDocumentMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewDocumentMetrics(reg)

	metrics.IncCreated("order")
	metrics.IncDeduplicated("order", "strict")
	metrics.IncTransition("order", "CONFIRMED")
	metrics.IncTransitionDenied("invoice", "role")
	metrics.ObserveCreateDuration("order", 250*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "documents_created_total", "type", "order"); err != nil {
		t.Fatalf("fetch created: %v", err)
	} else if got != 1 {
		t.Fatalf("expected created=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "documents_deduplicated_total", "phase", "strict"); err != nil {
		t.Fatalf("fetch deduplicated: %v", err)
	} else if got != 1 {
		t.Fatalf("expected deduplicated=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "document_status_transitions_total", "to_status", "CONFIRMED"); err != nil {
		t.Fatalf("fetch transitions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected transitions=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "document_status_transitions_denied_total", "reason", "role"); err != nil {
		t.Fatalf("fetch denied transitions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected denied=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "document_create_duration_seconds", "type", "order"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestDocumentMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *DocumentMetrics
	metrics.IncCreated("order")
	metrics.IncDeduplicated("order", "fuzzy")
	metrics.IncTransition("order", "READY")
	metrics.IncTransitionDenied("order", "edge")
	metrics.ObserveCreateDuration("order", time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

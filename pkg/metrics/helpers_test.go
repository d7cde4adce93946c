package metrics_test

import (
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/Gunvolt24/hermes_receiver/pkg/metrics"
)

func sampleCount(t *testing.T, topic string) uint64 {
	t.Helper()
	h, ok := metrics.ReadLatency.WithLabelValues(topic).(interface{ Write(*dto.Metric) error })
	if !ok {
		t.Fatalf("histogram does not expose Write")
	}
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

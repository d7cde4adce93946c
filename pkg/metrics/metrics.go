package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Gunvolt24/hermes_receiver/internal/ports"
)

const namespace = "hermes_consumer"

var (
	// ReadLatency — время одного вызова чтения, включая таймауты и ошибки.
	ReadLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "read_latency_seconds",
			Help:      "Time spent in a single receive call",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"topic"},
	)
)

var (
	MessagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Number of messages received and unwrapped",
		},
		[]string{"topic"},
	)
	ReceiveTimeouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receive_timeouts_total",
			Help:      "Number of receive calls that ended without a message",
		},
		[]string{"topic"},
	)
	ReceiveFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receive_failures_total",
			Help:      "Number of receive calls that failed with an internal error",
		},
		[]string{"topic"},
	)
	MessagesHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_handled_total",
			Help:      "Number of messages passed to the handler",
		},
		[]string{"topic", "status"}, // ok|error
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Recent messages cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_size",
			Help:      "Number of messages currently in the recent messages cache",
		},
	)
)

var registerOnce sync.Once

// MustRegister регистрирует метрики в глобальном реестре; повторные вызовы ничего не делают.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ReadLatency,
			MessagesReceived, ReceiveTimeouts, ReceiveFailures, MessagesHandled,
			CacheOps, CacheSize,
		)
	})
}

// ReadTimer пишет длительность чтения в гистограмму ReadLatency с меткой топика.
type ReadTimer struct {
	observer prometheus.Observer
}

var _ ports.ReadTimer = (*ReadTimer)(nil)

func NewReadTimer(topic string) *ReadTimer {
	return &ReadTimer{observer: ReadLatency.WithLabelValues(topic)}
}

func (t *ReadTimer) Time() ports.TimerScope {
	return prometheus.NewTimer(t.observer)
}

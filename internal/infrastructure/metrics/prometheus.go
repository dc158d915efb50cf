package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the service counters. A nil *Recorder ignores every call.
type Recorder struct {
	Registry             *prometheus.Registry
	Transitions          *prometheus.CounterVec
	NotificationFailures *prometheus.CounterVec
	StorageErrors        prometheus.Counter
}

// New registers the counters on a private registry, together with Go runtime metrics.
func New(namespace string) *Recorder {
	registry := prometheus.NewRegistry()

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_transitions_total",
		Help:      "Listing state transitions that were persisted.",
	}, []string{"transition"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_notifications_failed_total",
		Help:      "Notification deliveries that failed.",
	}, []string{"kind"})
	storage := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_storage_errors_total",
		Help:      "Persistence calls that failed with StorageUnavailable.",
	})

	registry.MustRegister(
		transitions,
		failures,
		storage,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Recorder{
		Registry:             registry,
		Transitions:          transitions,
		NotificationFailures: failures,
		StorageErrors:        storage,
	}
}

func (r *Recorder) Transition(name string) {
	if r == nil {
		return
	}
	r.Transitions.WithLabelValues(name).Inc()
}

func (r *Recorder) NotificationFailed(kind string) {
	if r == nil {
		return
	}
	r.NotificationFailures.WithLabelValues(kind).Inc()
}

func (r *Recorder) StorageError() {
	if r == nil {
		return
	}
	r.StorageErrors.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}

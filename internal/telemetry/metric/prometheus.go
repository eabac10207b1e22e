package metric

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "rolodex"

// Result label values.
const (
	ResultCreated  = "created"
	ResultMerged   = "merged"
	ResultRemoved  = "removed"
	ResultNotFound = "not_found"
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultError    = "error"
	StatusOK       = "ok"
	StatusError    = "error"
)

// Registry holds the application metrics.
type Registry struct {
	reg *prometheus.Registry

	AddsTotal      *prometheus.CounterVec
	RemovesTotal   *prometheus.CounterVec
	SearchesTotal  *prometheus.CounterVec
	SavesTotal     *prometheus.CounterVec
	SearchDuration prometheus.Histogram
}

// NewRegistry creates a registry with every application metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		AddsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "adds_total",
			Help:      "Contact insertions by result",
		}, []string{"result"}),
		RemovesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "removes_total",
			Help:      "Contact removals by result",
		}, []string{"result"}),
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "searches_total",
			Help:      "Prefix searches by result",
		}, []string{"result"}),
		SavesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "saves_total",
			Help:      "Document saves by status",
		}, []string{"status"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Prefix search latency",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}

	r.reg.MustRegister(
		r.AddsTotal,
		r.RemovesTotal,
		r.SearchesTotal,
		r.SavesTotal,
		r.SearchDuration,
	)
	return r
}

// Prometheus returns the underlying registry.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.reg
}

// Register adds a collector to the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	if err := r.reg.Register(c); err != nil {
		return fmt.Errorf("metric: register: %w", err)
	}
	return nil
}

// Unregister removes a collector from the registry.
func (r *Registry) Unregister(c prometheus.Collector) bool {
	return r.reg.Unregister(c)
}

// WriteTextfile writes every metric to path in the node-exporter textfile
// format. The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("metric: write textfile: %w", err)
	}
	return nil
}

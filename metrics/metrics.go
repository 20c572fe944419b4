// Package metrics exposes Prometheus instrumentation for the flow engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry bundles the engine's collectors around one Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	NodesCurrent         prometheus.Gauge
	EdgesCurrent         prometheus.Gauge
	NodesAdded           prometheus.Counter
	EdgesAdded           prometheus.Counter
	ConnectionsRejected  *prometheus.CounterVec
	WorkflowsSaved       prometheus.Counter
	ExecutionsTotal      *prometheus.CounterVec
	ExecutionDuration    prometheus.Histogram
	StorageWrites        prometheus.Counter
	StorageWriteFailures prometheus.Counter
}

// New creates a Registry. When reg is nil a private registry is used.
func New(reg *prometheus.Registry) *Registry {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Registry{registry: reg}

	r.NodesCurrent = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "flow_nodes_current",
		Help: "Number of nodes on the canvas",
	})
	r.EdgesCurrent = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "flow_edges_current",
		Help: "Number of edges on the canvas",
	})
	r.NodesAdded = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "flow_nodes_added_total",
		Help: "Total nodes added to the canvas",
	})
	r.EdgesAdded = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "flow_edges_added_total",
		Help: "Total edges accepted by the connection validator",
	})
	r.ConnectionsRejected = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "flow_connections_rejected_total",
		Help: "Total connections rejected by the validator",
	}, []string{"reason"})
	r.WorkflowsSaved = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "flow_workflows_saved_total",
		Help: "Total workflow save operations",
	})
	r.ExecutionsTotal = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "flow_executions_total",
		Help: "Total workflow executions by outcome",
	}, []string{"status"})
	r.ExecutionDuration = promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
		Name:    "flow_execution_duration_seconds",
		Help:    "Workflow execution duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})
	r.StorageWrites = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "flow_storage_writes_total",
		Help: "Total write-throughs of the workflow table",
	})
	r.StorageWriteFailures = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "flow_storage_write_failures_total",
		Help: "Total failed write-throughs of the workflow table",
	})

	return r
}

// Registry exposes the underlying Prometheus registry for scraping.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

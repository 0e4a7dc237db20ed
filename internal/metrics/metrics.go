// Package metrics records operation outcomes and task counts as Prometheus
// metrics on a private registry.
package metrics

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/amonks/ticklist/task"
)

const namespace = "ticklist"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder owns a registry with the ticklist collectors.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	tasks      *prometheus.GaugeVec
}

// New returns a Recorder with freshly registered collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Task operations by name and result.",
			},
			[]string{"operation", "result"},
		),
		tasks: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tasks",
				Help:      "Stored tasks by status, priority and category.",
			},
			[]string{"kind", "label"},
		),
	}
	r.registry.MustRegister(r.operations, r.tasks)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveOperation counts one execution of operation.
func (r *Recorder) ObserveOperation(operation string, success bool) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}
	r.operations.WithLabelValues(operation, result).Inc()
}

// SetStats replaces the task gauges with stats.
func (r *Recorder) SetStats(stats task.Stats) {
	if r == nil {
		return
	}
	r.tasks.Reset()
	r.tasks.WithLabelValues("status", "total").Set(float64(stats.Total))
	r.tasks.WithLabelValues("status", "completed").Set(float64(stats.Completed))
	r.tasks.WithLabelValues("status", "pending").Set(float64(stats.Pending))
	for priority, n := range stats.ByPriority {
		r.tasks.WithLabelValues("priority", string(priority)).Set(float64(n))
	}
	for category, n := range stats.ByCategory {
		r.tasks.WithLabelValues("category", category).Set(float64(n))
	}
}

// Write renders every gathered family in the text exposition format.
func (r *Recorder) Write(w io.Writer) error {
	if r == nil {
		return nil
	}
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

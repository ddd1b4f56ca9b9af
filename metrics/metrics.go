package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "archery"

// Metrics keeps its own registry so a CLI run can dump exactly what it
// recorded. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	assignments prometheus.Counter
	targets     prometheus.Counter
	brackets    *prometheus.CounterVec
	sets        prometheus.Counter
	shootOffs   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Service operations by name and result.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"operation"}),
		assignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_total",
			Help:      "Archers placed on targets.",
		}),
		targets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "targets_total",
			Help:      "Targets consumed by assignment runs.",
		}),
		brackets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "brackets_generated_total",
			Help:      "Elimination brackets generated by size.",
		}, []string{"size"}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sets_scored_total",
			Help:      "Elimination sets scored.",
		}),
		shootOffs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shootoffs_total",
			Help:      "Matches that went to a shoot-off.",
		}),
	}
	m.registry.MustRegister(m.operations, m.duration, m.assignments, m.targets, m.brackets, m.sets, m.shootOffs)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordOperationAttempt(operation string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, "attempt").Inc()
}

func (m *Metrics) RecordOperationSuccess(operation string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, "success").Inc()
}

func (m *Metrics) RecordOperationFailure(operation string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, "failure").Inc()
}

func (m *Metrics) RecordOperationDuration(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) RecordAssignments(archers, targets int) {
	if m == nil {
		return
	}
	m.assignments.Add(float64(archers))
	m.targets.Add(float64(targets))
}

func (m *Metrics) RecordBracket(size int) {
	if m == nil {
		return
	}
	m.brackets.WithLabelValues(strconv.Itoa(size)).Inc()
}

func (m *Metrics) RecordSet(shootOff bool) {
	if m == nil {
		return
	}
	m.sets.Inc()
	if shootOff {
		m.shootOffs.Inc()
	}
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

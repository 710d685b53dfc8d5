// Package metrics exposes rewrite run counters and latencies to Prometheus.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/phrazzld/rewriter/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rewriter"

// Outcome label values.
const (
	OutcomeUpdated       = "updated"
	OutcomeSkipped       = "skipped"
	OutcomePersistFailed = "persist_failed"
)

// Recorder turns run events into Prometheus metrics. It registers on its own
// registry so tests and multiple instances do not collide.
type Recorder struct {
	registry *prometheus.Registry

	records        *prometheus.CounterVec
	recordDuration *prometheus.HistogramVec
	runs           prometheus.Counter
	runDuration    prometheus.Histogram
	lastRunRecords prometheus.Gauge
}

var _ events.EventHandler = (*Recorder)(nil)

// NewRecorder creates a Recorder with its metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records handled, by outcome.",
		}, []string{"outcome"}),
		recordDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "record_duration_seconds",
			Help:      "Time spent generating one record, by outcome.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"outcome"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed rewrite runs.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of completed rewrite runs.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		lastRunRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_records",
			Help:      "Number of records in the most recent completed run.",
		}),
	}

	r.registry.MustRegister(r.records, r.recordDuration, r.runs, r.runDuration, r.lastRunRecords)
	return r
}

// Registry returns the registry the metrics live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the metrics in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// HandleEvent implements events.EventHandler.
func (r *Recorder) HandleEvent(ctx context.Context, event *events.Event) error {
	switch event.Type {
	case events.TypeRecordUpdated:
		return r.observeRecord(event, OutcomeUpdated)
	case events.TypeRecordSkipped:
		return r.observeRecord(event, OutcomeSkipped)
	case events.TypeRecordPersistFailed:
		return r.observeRecord(event, OutcomePersistFailed)
	case events.TypeRunCompleted:
		var p events.RunPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("decode run payload: %w", err)
		}
		r.runs.Inc()
		r.runDuration.Observe(p.FinishedAt.Sub(p.StartedAt).Seconds())
		r.lastRunRecords.Set(float64(p.Total))
	}
	return nil
}

func (r *Recorder) observeRecord(event *events.Event, outcome string) error {
	var p events.RecordPayload
	if err := event.UnmarshalPayload(&p); err != nil {
		return fmt.Errorf("decode record payload: %w", err)
	}
	r.records.WithLabelValues(outcome).Inc()
	r.recordDuration.WithLabelValues(outcome).Observe(p.Elapsed.Seconds())
	return nil
}

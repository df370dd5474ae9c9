// Package metrics instruments the calculator with Prometheus collectors.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/verte-zerg/stepgoal/internal/model"
)

// Recorder counts edits and recompute passes on a private registry.
type Recorder struct {
	registry         *prometheus.Registry
	edits            *prometheus.CounterVec
	passes           *prometheus.CounterVec
	expectedDays     prometheus.Gauge
	requiredCalories prometheus.Gauge
}

// NewRecorder registers the calculator collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stepgoal_edits_total",
			Help: "Total number of applied field edits",
		}, []string{"field"}),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stepgoal_recompute_passes_total",
			Help: "Total number of recompute passes by kind",
		}, []string{"pass"}),
		expectedDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stepgoal_expected_days",
			Help: "Current expected days to reach the target weight",
		}),
		requiredCalories: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stepgoal_required_calories",
			Help: "Current maintenance calories per day",
		}),
	}
	r.registry.MustRegister(r.edits, r.passes, r.expectedDays, r.requiredCalories)
	return r
}

// ObserveEdit records one applied edit and the outputs it produced.
func (r *Recorder) ObserveEdit(field model.Field, pass model.Pass, expectedDays, requiredCalories int) {
	r.edits.WithLabelValues(field.String()).Inc()
	if pass != model.PassNone {
		r.passes.WithLabelValues(pass.String()).Inc()
	}
	r.expectedDays.Set(float64(expectedDays))
	r.requiredCalories.Set(float64(requiredCalories))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteText writes all metrics in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

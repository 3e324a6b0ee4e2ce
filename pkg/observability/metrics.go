package observability

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aretw0/stepform/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	form string

	StepVisits         *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	Submissions        *prometheus.CounterVec
	SubmittedFields    prometheus.Histogram
}

// NewMetrics creates the collectors for one form and registers them with reg.
// A nil reg skips registration.
func NewMetrics(formID string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		form: formID,
		StepVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepform_step_visits_total",
				Help: "Total number of times a step became active",
			},
			[]string{"form", "step"},
		),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepform_validation_failures_total",
				Help: "Field violations that blocked an advance or submit, by rule",
			},
			[]string{"form", "step", "rule"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepform_submissions_total",
				Help: "Total number of forms handed off after a successful submit",
			},
			[]string{"form"},
		),
		SubmittedFields: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stepform_submitted_nonempty_fields",
				Help:    "Number of non-empty fields per submission",
				Buckets: prometheus.LinearBuckets(0, 2, 10),
			},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.StepVisits, m.ValidationFailures, m.Submissions, m.SubmittedFields} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("failed to register metric: %w", err)
			}
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.StepVisits.WithLabelValues(m.form, strconv.Itoa(e.Step)).Inc()
		},
		OnValidationFailed: func(_ context.Context, e *domain.ValidationEvent) {
			step := strconv.Itoa(e.Step)
			for _, rule := range e.Violations {
				m.ValidationFailures.WithLabelValues(m.form, step, rule).Inc()
			}
		},
		OnSubmit: func(_ context.Context, e *domain.SubmitEvent) {
			m.Submissions.WithLabelValues(m.form).Inc()
			filled := 0
			for _, v := range e.Submission.Draft {
				if v != "" {
					filled++
				}
			}
			m.SubmittedFields.Observe(float64(filled))
		},
	}
}

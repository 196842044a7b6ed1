// Package metrics exposes executor activity as Prometheus collectors fed by lifecycle hooks.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "adbpilot"

// Metrics holds the collectors and the registry they are registered on.
type Metrics struct {
	Registry *prometheus.Registry

	commands        *prometheus.CounterVec
	commandDuration prometheus.Histogram
	steps           *prometheus.CounterVec
	stepDuration    *prometheus.HistogramVec
	plans           prometheus.Counter
	planSteps       prometheus.Histogram
	inFlight        prometheus.Gauge
}

// New creates the collectors on a fresh registry, including Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Bridge commands executed, by outcome.",
		}, []string{"outcome"}),
		commandDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Duration of bridge commands.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Plan steps executed, by action and success.",
		}, []string{"action", "success"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of plan steps, including pauses.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"action"}),
		plans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Plans executed.",
		}),
		planSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_steps",
			Help:      "Number of steps per plan.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "steps_in_flight",
			Help:      "Steps currently executing.",
		}),
	}
	m.Registry.MustRegister(
		m.commands, m.commandDuration,
		m.steps, m.stepDuration,
		m.plans, m.planSteps, m.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(_ context.Context, e *domain.CommandEvent) {
			outcome := "success"
			switch {
			case e.TimedOut:
				outcome = "timeout"
			case !e.Success:
				outcome = "failure"
			}
			m.commands.WithLabelValues(outcome).Inc()
			m.commandDuration.Observe(e.Duration.Seconds())
		},
		OnStepStart: func(context.Context, *domain.StepEvent) {
			m.inFlight.Inc()
		},
		OnStepEnd: func(_ context.Context, e *domain.StepEvent) {
			m.inFlight.Dec()
			m.steps.WithLabelValues(actionLabel(e.Action), strconv.FormatBool(e.Success)).Inc()
			m.stepDuration.WithLabelValues(actionLabel(e.Action)).Observe(e.Duration.Seconds())
		},
		OnPlanEnd: func(_ context.Context, e *domain.PlanEvent) {
			m.plans.Inc()
			m.planSteps.Observe(float64(e.Steps))
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// actionLabel bounds label cardinality: undeclared kinds share one label.
func actionLabel(k domain.ActionKind) string {
	if k.Known() {
		return k.String()
	}
	return "unknown"
}

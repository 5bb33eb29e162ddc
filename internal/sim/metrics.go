package sim

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridsim_ticks_total",
		Help: "Simulation ticks applied",
	})

	collisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridsim_agent_collisions_total",
		Help: "Agent moves rejected by static obstacles",
	})

	conflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridsim_agent_conflicts_total",
		Help: "Agent pairs sharing a cell after a tick",
	})

	stepErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridsim_step_errors_total",
		Help: "Ticks that failed, by stage",
	}, []string{"stage"})

	stepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridsim_step_duration_seconds",
		Help:    "Wall time of one simulation tick",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})
)

var (
	tracerOnce sync.Once
	simTracer  trace.Tracer
)

// tracer returns the package tracer. Spans are no-ops until the program
// installs a provider with otel.SetTracerProvider.
func tracer() trace.Tracer {
	tracerOnce.Do(func() {
		simTracer = otel.Tracer("github.com/elektrokombinacija/gridworld-sim/internal/sim")
	})
	return simTracer
}

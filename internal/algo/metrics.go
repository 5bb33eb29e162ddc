package algo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultFound       = "found"
	resultNoPath      = "no_path"
	resultInvalidGoal = "invalid_goal"
)

var (
	// planTotal counts Plan calls by outcome.
	planTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridsim_astar_plans_total",
		Help: "Total A* plan calls by result",
	}, []string{"result"})

	planExpanded = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridsim_astar_expanded_nodes",
		Help:    "Nodes expanded per A* plan call",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
)

func observePlan(result string, s Stats) {
	planTotal.WithLabelValues(result).Inc()
	if result != resultInvalidGoal {
		planExpanded.Observe(float64(s.Expanded))
	}
}

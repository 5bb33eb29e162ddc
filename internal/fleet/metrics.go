package fleet

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/elektrokombinacija/gridworld-sim/internal/algo"
)

var replanTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gridsim_robot_replans_total",
	Help: "Robot replanning attempts by result",
}, []string{"result"})

func observeReplan(err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, algo.ErrNoPath):
		result = "unreachable"
	case errors.Is(err, algo.ErrInvalidGoal):
		result = "invalid_goal"
	default:
		result = "error"
	}
	replanTotal.WithLabelValues(result).Inc()
}

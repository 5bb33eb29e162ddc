package algo

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
)

func TestFindConflicts_NoConflict(t *testing.T) {
	poses := []core.Pose{pose(0, 0), pose(1, 0), pose(2, 0)}

	if conflicts := FindConflicts(poses); len(conflicts) != 0 {
		t.Errorf("Expected no conflict, got %v", conflicts)
	}
}

func TestFindConflicts_SharedCell(t *testing.T) {
	poses := []core.Pose{pose(1, 1), pose(0, 0), pose(1, 1)}

	conflicts := FindConflicts(poses)
	if len(conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(conflicts))
	}
	c := conflicts[0]
	if c.A != 0 || c.B != 2 || c.Pose != pose(1, 1) {
		t.Errorf("Expected conflict between 0 and 2 at (1,1), got %+v", c)
	}
}

func TestFindConflicts_ThreeWay(t *testing.T) {
	poses := []core.Pose{pose(2, 2), pose(2, 2), pose(2, 2)}

	// Every pair is reported: (0,1), (0,2), (1,2).
	conflicts := FindConflicts(poses)
	if len(conflicts) != 3 {
		t.Fatalf("Expected 3 conflicts, got %d", len(conflicts))
	}
	want := [][2]int{{0, 1}, {0, 2}, {1, 2}}
	for i, c := range conflicts {
		if c.A != want[i][0] || c.B != want[i][1] {
			t.Errorf("conflict %d = (%d,%d), want %v", i, c.A, c.B, want[i])
		}
	}
}

func TestFindSwaps(t *testing.T) {
	prev := []core.Pose{pose(0, 0), pose(1, 0), pose(3, 3)}
	next := []core.Pose{pose(1, 0), pose(0, 0), pose(3, 3)}

	swaps := FindSwaps(prev, next)
	if len(swaps) != 1 {
		t.Fatalf("Expected 1 swap, got %d", len(swaps))
	}
	if swaps[0].A != 0 || swaps[0].B != 1 {
		t.Errorf("Expected swap between 0 and 1, got %+v", swaps[0])
	}

	if swaps := FindSwaps(prev, prev); len(swaps) != 0 {
		t.Errorf("Expected no swaps when nobody moves, got %v", swaps)
	}
}

func TestFindConflictsRegistersNoMetric(t *testing.T) {
	FindConflicts([]core.Pose{pose(1, 1), pose(1, 1)})

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if strings.Contains(mf.GetName(), "conflict") {
			t.Errorf("algo registers conflict metric %s", mf.GetName())
		}
	}
}

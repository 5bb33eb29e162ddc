package algo

import "github.com/elektrokombinacija/gridworld-sim/internal/core"

// Conflict records two entities that ended a tick on the same cell.
type Conflict struct {
	A, B int // Entity indices, A < B
	Pose core.Pose
}

// Swap records two entities that exchanged cells during one tick.
type Swap struct {
	A, B     int
	From, To core.Pose // A moved From -> To, B moved To -> From
}

// FindConflicts returns every pair i < j whose poses are equal, in index
// order. Nothing is resolved or counted; callers decide what to do with the
// result.
func FindConflicts(poses []core.Pose) []Conflict {
	var conflicts []Conflict
	for i := 0; i < len(poses); i++ {
		for j := i + 1; j < len(poses); j++ {
			if poses[i] == poses[j] {
				conflicts = append(conflicts, Conflict{A: i, B: j, Pose: poses[i]})
			}
		}
	}
	return conflicts
}

// FindSwaps detects pairs that traded places between prev and next.
// prev and next must be index-aligned.
func FindSwaps(prev, next []core.Pose) []Swap {
	var swaps []Swap
	n := min(len(prev), len(next))
	for i := 0; i < n; i++ {
		if prev[i] == next[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if prev[j] == next[j] {
				continue
			}
			if prev[i] == next[j] && prev[j] == next[i] {
				swaps = append(swaps, Swap{A: i, B: j, From: prev[i], To: next[i]})
			}
		}
	}
	return swaps
}

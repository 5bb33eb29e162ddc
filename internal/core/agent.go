package core

// AgentID is the index of a controlled agent.
type AgentID int

// Agent is an externally controlled entity moving toward a goal.
type Agent struct {
	ID   AgentID
	Name string
	Pose Pose
	Goal Pose

	trajectory []Pose // Every pose held, one entry per tick plus the start
}

// NewAgent creates an agent whose trajectory holds only its start pose.
func NewAgent(id AgentID, name string, start, goal Pose) *Agent {
	return &Agent{
		ID:         id,
		Name:       name,
		Pose:       start,
		Goal:       goal,
		trajectory: []Pose{start},
	}
}

// Record sets the agent's pose and appends it to the trajectory.
func (a *Agent) Record(p Pose) {
	a.Pose = p
	a.trajectory = append(a.trajectory, p)
}

// Trajectory returns a copy of the pose history.
func (a *Agent) Trajectory() []Pose {
	out := make([]Pose, len(a.trajectory))
	copy(out, a.trajectory)
	return out
}

// AtGoal reports whether the agent currently stands on its goal.
func (a *Agent) AtGoal() bool {
	return a.Pose == a.Goal
}

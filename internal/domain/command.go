package domain

// Command names accepted by the intake.
const (
	CommandJointPositions     = "joint_positions"
	CommandJointTrajectory    = "joint_trajectory"
	CommandJointTCPTrajectory = "joint_tcp_trajectory"
)

// Command is an external override of the watched state.
type Command struct {
	ID              string      `json:"id,omitempty"`
	Command         string      `json:"command"`
	JointNames      []string    `json:"joint_names,omitempty"`
	JointPositions  []float64   `json:"joint_positions,omitempty"`
	JointTrajectory [][]float64 `json:"joint_trajectory,omitempty"`
	TCPTrajectory   TCPPath     `json:"tcp_trajectory,omitempty"`
}

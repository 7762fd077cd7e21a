package ports

import "github.com/ghalamif/JointSync/internal/domain"

// Transformer adjusts a trajectory before it is compiled.
type Transformer interface {
	Transform(*domain.Trajectory) (*domain.Trajectory, error)
	Version() uint16
}

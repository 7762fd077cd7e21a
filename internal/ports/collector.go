package ports

import "github.com/ghalamif/JointSync/internal/domain"

// PoseCollector streams override commands from a live controller connection.
type PoseCollector interface {
	Start(out chan<- *domain.Command) error
	Stop() error
}

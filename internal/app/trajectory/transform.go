package trajectory

import (
	"fmt"

	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

// Passthrough leaves trajectories untouched.
type Passthrough struct{}

func (Passthrough) Transform(t *domain.Trajectory) (*domain.Trajectory, error) { return t, nil }
func (Passthrough) Version() uint16                                            { return 0 }

// TimeScale multiplies every sample timestamp by Factor. A factor above one
// slows playback down.
type TimeScale struct {
	Factor float64
}

func (s TimeScale) Transform(t *domain.Trajectory) (*domain.Trajectory, error) {
	if s.Factor <= 0 {
		return nil, fmt.Errorf("time scale %v must be positive", s.Factor)
	}
	if s.Factor == 1 {
		return t, nil
	}
	out := &domain.Trajectory{
		JointNames: t.JointNames,
		Samples:    make([][]float64, len(t.Samples)),
	}
	for i, sample := range t.Samples {
		cp := append([]float64(nil), sample...)
		if n := len(cp); n > 0 {
			cp[n-1] *= s.Factor
		}
		out.Samples[i] = cp
	}
	return out, nil
}

func (TimeScale) Version() uint16 { return 1 }

// NewTransformer returns the transformer for a configured time scale.
func NewTransformer(scale float64) ports.Transformer {
	if scale == 0 || scale == 1 {
		return Passthrough{}
	}
	return TimeScale{Factor: scale}
}

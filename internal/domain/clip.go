package domain

// TrajectoryClipName names every clip produced from a joint trajectory.
const TrajectoryClipName = "trajectory"

// TrackProperty is the node property a keyframe track animates.
type TrackProperty string

const (
	PropertyQuaternion TrackProperty = "quaternion"
	PropertyPosition   TrackProperty = "position"
)

// Stride returns the number of values per keyframe for the property.
func (p TrackProperty) Stride() int {
	if p == PropertyQuaternion {
		return 4
	}
	return 3
}

// Track is a keyframe track bound to one scene node.
type Track struct {
	Node     string        `json:"node"`
	Property TrackProperty `json:"property"`
	Times    []float64     `json:"times"`
	Values   []float64     `json:"values"`
}

// Name is the binding path of the track, e.g. "link_1.quaternion".
func (t Track) Name() string {
	return t.Node + "." + string(t.Property)
}

// Clip is a named set of tracks played as one animation.
type Clip struct {
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
	Tracks   []Track `json:"tracks"`
}

// NewClip builds a clip whose duration is derived from its tracks.
func NewClip(name string, tracks []Track) *Clip {
	c := &Clip{Name: name, Tracks: tracks}
	c.ResetDuration()
	return c
}

// ResetDuration sets Duration to the latest keyframe time across all tracks.
func (c *Clip) ResetDuration() {
	var max float64
	for _, tr := range c.Tracks {
		if n := len(tr.Times); n > 0 && tr.Times[n-1] > max {
			max = tr.Times[n-1]
		}
	}
	c.Duration = max
}

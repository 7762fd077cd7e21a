// Package trajectory compiles joint-space trajectories into keyframe clips.
package trajectory

import (
	"fmt"

	"github.com/ghalamif/JointSync/internal/app/joints"
	"github.com/ghalamif/JointSync/internal/domain"
)

// Compile converts samples into a clip with one track per joint.
//
// Revolute joints get a quaternion track, prismatic joints a position track.
// Every sample must hold len(names) values followed by a timestamp, and
// timestamps must not decrease. Any error aborts the whole compilation.
func Compile(index joints.Index, names []string, samples [][]float64) (*domain.Clip, error) {
	if err := validateSamples(names, samples); err != nil {
		return nil, err
	}

	resolved := make([]joints.Descriptor, len(names))
	for i, name := range names {
		d, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownJoint, name)
		}
		if !d.Type.Supported() {
			return nil, fmt.Errorf("%w: joint %q is %s", domain.ErrUnsupportedJointType, name, d.Type)
		}
		if d.Axis.IsZero() {
			return nil, fmt.Errorf("%w: joint %q has a zero axis", domain.ErrInvalidAxis, name)
		}
		resolved[i] = d
	}

	tracks := make([]domain.Track, 0, len(resolved))
	for col, d := range resolved {
		tracks = append(tracks, buildTrack(d, col, samples))
	}
	return domain.NewClip(domain.TrajectoryClipName, tracks), nil
}

// CompilePose compiles a pose held from t=0 until domain.PoseHoldTime.
func CompilePose(index joints.Index, names []string, values []float64) (*domain.Clip, error) {
	return Compile(index, names, domain.PoseSamples(values))
}

func buildTrack(d joints.Descriptor, col int, samples [][]float64) domain.Track {
	prop := domain.PropertyPosition
	if d.Type == domain.JointRevolute {
		prop = domain.PropertyQuaternion
	}

	tr := domain.Track{
		Node:     d.NodeName,
		Property: prop,
		Times:    make([]float64, 0, len(samples)),
		Values:   make([]float64, 0, len(samples)*prop.Stride()),
	}
	for _, s := range samples {
		tr.Times = append(tr.Times, domain.SampleTime(s))
		switch d.Type {
		case domain.JointRevolute:
			q := domain.QuatFromAxisAngle(d.Axis, s[col])
			tr.Values = append(tr.Values, q[:]...)
		case domain.JointPrismatic:
			v := d.Axis.Scale(s[col])
			tr.Values = append(tr.Values, v[:]...)
		}
	}
	return tr
}

func validateSamples(names []string, samples [][]float64) error {
	want := len(names) + 1
	prev := 0.0
	for i, s := range samples {
		if len(s) != want {
			return fmt.Errorf("%w: sample %d has %d values, want %d", domain.ErrMalformedSample, i, len(s), want)
		}
		ts := domain.SampleTime(s)
		if i > 0 && ts < prev {
			return fmt.Errorf("%w: sample %d at %gs follows %gs", domain.ErrNonMonotonicTime, i, ts, prev)
		}
		prev = ts
	}
	return nil
}

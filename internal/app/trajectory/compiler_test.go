package trajectory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghalamif/JointSync/internal/app/joints"
	"github.com/ghalamif/JointSync/internal/domain"
)

func index() joints.Index {
	return joints.Index{
		"j1":    {Name: "j1", NodeName: "link_1", Type: domain.JointRevolute, Axis: domain.Vec3{0, 0, 1}},
		"j2":    {Name: "j2", NodeName: "link_2", Type: domain.JointRevolute, Axis: domain.Vec3{0, 1, 0}},
		"slide": {Name: "slide", NodeName: "carriage", Type: domain.JointPrismatic, Axis: domain.Vec3{1, 0, 0}},
		"fixed": {Name: "fixed", NodeName: "flange", Type: domain.JointType(3), Axis: domain.Vec3{0, 0, 1}},
		"flat":  {Name: "flat", NodeName: "pad", Type: domain.JointRevolute},
	}
}

func TestCompilePoseHoldsRotation(t *testing.T) {
	clip, err := CompilePose(index(), []string{"j1"}, []float64{0.5})
	require.NoError(t, err)

	require.Len(t, clip.Tracks, 1)
	tr := clip.Tracks[0]
	assert.Equal(t, "link_1.quaternion", tr.Name())
	assert.Equal(t, []float64{0, domain.PoseHoldTime}, tr.Times)
	require.Len(t, tr.Values, 8)

	s, c := math.Sin(0.25), math.Cos(0.25)
	for k := 0; k < 2; k++ {
		q := tr.Values[k*4 : k*4+4]
		assert.InDelta(t, 0, q[0], 1e-12)
		assert.InDelta(t, 0, q[1], 1e-12)
		assert.InDelta(t, s, q[2], 1e-12)
		assert.InDelta(t, c, q[3], 1e-12)
	}
	assert.Equal(t, domain.TrajectoryClipName, clip.Name)
	assert.Equal(t, domain.PoseHoldTime, clip.Duration)
}

func TestCompilePrismaticTrack(t *testing.T) {
	samples := [][]float64{
		{0.0, 0.1, 0},
		{0.3, 0.25, 1.5},
	}
	clip, err := Compile(index(), []string{"j2", "slide"}, samples)
	require.NoError(t, err)
	require.Len(t, clip.Tracks, 2)

	pos := clip.Tracks[1]
	assert.Equal(t, "carriage.position", pos.Name())
	assert.Equal(t, []float64{0, 1.5}, pos.Times)
	assert.InDeltaSlice(t, []float64{0.1, 0, 0, 0.25, 0, 0}, pos.Values, 1e-12)
	assert.Equal(t, 1.5, clip.Duration)
}

func TestCompileIsDeterministic(t *testing.T) {
	samples := [][]float64{{0.1, 0.2, 0}, {0.4, -0.2, 0.5}, {1.1, 0.7, 2}}
	a, err := Compile(index(), []string{"j1", "slide"}, samples)
	require.NoError(t, err)
	b, err := Compile(index(), []string{"j1", "slide"}, samples)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCompileUnknownJointAborts(t *testing.T) {
	clip, err := Compile(index(), []string{"j1", "ghost"}, [][]float64{{0, 0, 0}})
	assert.ErrorIs(t, err, domain.ErrUnknownJoint)
	assert.Nil(t, clip)
}

func TestCompileUnsupportedJointType(t *testing.T) {
	_, err := Compile(index(), []string{"fixed"}, [][]float64{{0, 0}})
	assert.ErrorIs(t, err, domain.ErrUnsupportedJointType)
}

func TestCompileZeroAxis(t *testing.T) {
	_, err := Compile(index(), []string{"flat"}, [][]float64{{0, 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidAxis)
}

func TestCompileMalformedSample(t *testing.T) {
	_, err := Compile(index(), []string{"j1", "j2"}, [][]float64{{0, 0, 0}, {0, 1}})
	assert.ErrorIs(t, err, domain.ErrMalformedSample)
}

func TestCompileTimestamps(t *testing.T) {
	_, err := Compile(index(), []string{"j1"}, [][]float64{{0, 1}, {0, 0.5}})
	assert.ErrorIs(t, err, domain.ErrNonMonotonicTime)

	clip, err := Compile(index(), []string{"j1"}, [][]float64{{0, 1}, {0.2, 1}})
	require.NoError(t, err, "repeated timestamps are accepted")
	assert.Equal(t, []float64{1, 1}, clip.Tracks[0].Times)
}

func TestCompileEmptyTrajectory(t *testing.T) {
	clip, err := Compile(index(), []string{"j1"}, nil)
	require.NoError(t, err)
	require.Len(t, clip.Tracks, 1)
	assert.Empty(t, clip.Tracks[0].Times)
	assert.Zero(t, clip.Duration)
}

package domain

// PoseHoldTime is the timestamp of the second keyframe of a held pose.
const PoseHoldTime = 100000.0

// Trajectory is an ordered list of samples sharing one joint-name ordering.
// Each sample holds one value per joint followed by its timestamp in seconds.
type Trajectory struct {
	JointNames []string    `json:"joint_names"`
	Samples    [][]float64 `json:"trajectory"`
}

// SampleTime returns the trailing timestamp of a sample.
func SampleTime(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	return sample[len(sample)-1]
}

// PoseSamples expresses a static pose as a two-sample trajectory that holds
// the values from t=0 until PoseHoldTime.
func PoseSamples(values []float64) [][]float64 {
	start := make([]float64, 0, len(values)+1)
	start = append(start, values...)
	start = append(start, 0)

	end := make([]float64, 0, len(values)+1)
	end = append(end, values...)
	end = append(end, PoseHoldTime)

	return [][]float64{start, end}
}

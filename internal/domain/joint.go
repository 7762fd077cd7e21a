package domain

import "fmt"

// JointType is the motion type of an animatable joint.
type JointType int

const (
	JointUnknown   JointType = 0
	JointRevolute  JointType = 1
	JointPrismatic JointType = 2
)

func (t JointType) String() string {
	switch t {
	case JointRevolute:
		return "revolute"
	case JointPrismatic:
		return "prismatic"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Supported reports whether the compiler can animate joints of this type.
func (t JointType) Supported() bool {
	return t == JointRevolute || t == JointPrismatic
}

// JointMeta is the metadata a scene node carries when it represents a joint.
type JointMeta struct {
	Name string    `json:"name"`
	Type JointType `json:"type"`
	Axis Vec3      `json:"axis"`
}

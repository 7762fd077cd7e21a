package domain

import "errors"

var (
	// ErrUnknownJoint is returned when a trajectory names a joint missing from the scene.
	ErrUnknownJoint = errors.New("jointsync: unknown joint")
	// ErrUnsupportedJointType is returned for joints that are neither revolute nor prismatic.
	ErrUnsupportedJointType = errors.New("jointsync: unsupported joint type")
	// ErrInvalidAxis is returned when an animated joint has a zero axis.
	ErrInvalidAxis = errors.New("jointsync: invalid joint axis")
	// ErrMalformedSample is returned when a sample length does not match the joint count.
	ErrMalformedSample = errors.New("jointsync: malformed trajectory sample")
	// ErrNonMonotonicTime is returned when sample timestamps decrease.
	ErrNonMonotonicTime = errors.New("jointsync: trajectory timestamps decrease")
	// ErrDuplicateJoint is returned by strict index builds when a joint name repeats.
	ErrDuplicateJoint = errors.New("jointsync: duplicate joint name")
	// ErrUnknownCommand is returned for commands outside the intake vocabulary.
	ErrUnknownCommand = errors.New("jointsync: unknown command")
	// ErrNoScene is returned when an operation needs a mounted scene and none is loaded.
	ErrNoScene = errors.New("jointsync: no scene mounted")
	// ErrQueueFull indicates the event loop task queue rejected a task.
	ErrQueueFull = errors.New("jointsync: task queue full")
	// ErrLoopStopped indicates the event loop no longer accepts tasks.
	ErrLoopStopped = errors.New("jointsync: event loop stopped")
)

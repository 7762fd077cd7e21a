package jointsync

import (
	"github.com/ghalamif/JointSync/internal/app/watch"
	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

// Command is an external override (joint_positions, joint_trajectory or
// joint_tcp_trajectory).
type Command = domain.Command

// Command names accepted by the intake.
const (
	CommandJointPositions     = domain.CommandJointPositions
	CommandJointTrajectory    = domain.CommandJointTrajectory
	CommandJointTCPTrajectory = domain.CommandJointTCPTrajectory
)

type (
	// TCPPoint is one Cartesian sample of a tool path.
	TCPPoint = domain.TCPPoint
	// TCPPath is the tool path of a joint_tcp_trajectory command.
	TCPPath = domain.TCPPath
	// Vec3 is a 3-component vector.
	Vec3 = domain.Vec3
	// Clip is a compiled keyframe animation.
	Clip = domain.Clip
	// Track is one keyframe track of a clip.
	Track = domain.Track
	// Polyline is the tool path overlay.
	Polyline = domain.Polyline
	// PlaybackEvent records a clip being applied.
	PlaybackEvent = domain.PlaybackEvent
	// WatchEntry is a snapshot of one watched resource.
	WatchEntry = watch.Entry
)

// ResourceSource serves the scene and trajectory files (HTTP, disk, object stores...).
type ResourceSource = ports.ResourceSource

// SceneDecoder parses scene files into node trees.
type SceneDecoder = ports.SceneDecoder

// Node is the scene-graph view the engine needs.
type Node = ports.Node

// Scene is a decoded scene.
type Scene = ports.Scene

// Renderer is the rendering collaborator that owns the mount point and overlays.
type Renderer = ports.Renderer

// Collector streams override commands from a live controller.
type Collector = ports.PoseCollector

// TaskQueue buffers work for the event loop.
type TaskQueue = ports.TaskQueue

// Task is a unit of work on the event loop.
type Task = ports.Task

// Transformer adjusts trajectories before they are compiled.
type Transformer = ports.Transformer

// HistorySink persists playback events.
type HistorySink = ports.HistorySink

// Journal records accepted commands for replay after restart.
type Journal = ports.Journal

// JournalEntryID identifies a journal entry.
type JournalEntryID = ports.JournalEntryID

// JournalStats exposes journal metadata for observability.
type JournalStats = ports.JournalStats

// Observability emits metrics and logs.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// Clock supplies the current time to the watcher and history records.
type Clock = ports.Clock

// Errors returned by the engine. Use errors.Is to match them.
var (
	ErrUnknownJoint         = domain.ErrUnknownJoint
	ErrUnsupportedJointType = domain.ErrUnsupportedJointType
	ErrInvalidAxis          = domain.ErrInvalidAxis
	ErrMalformedSample      = domain.ErrMalformedSample
	ErrNonMonotonicTime     = domain.ErrNonMonotonicTime
	ErrDuplicateJoint       = domain.ErrDuplicateJoint
	ErrUnknownCommand       = domain.ErrUnknownCommand
	ErrNoScene              = domain.ErrNoScene
	ErrQueueFull            = domain.ErrQueueFull
	ErrLoopStopped          = domain.ErrLoopStopped
)

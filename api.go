package jointsync

import (
	base "github.com/ghalamif/JointSync/pkg/jointsync"
)

// Re-exported errors for convenience.
var (
	ErrUnknownJoint         = base.ErrUnknownJoint
	ErrUnsupportedJointType = base.ErrUnsupportedJointType
	ErrInvalidAxis          = base.ErrInvalidAxis
	ErrMalformedSample      = base.ErrMalformedSample
	ErrNonMonotonicTime     = base.ErrNonMonotonicTime
	ErrDuplicateJoint       = base.ErrDuplicateJoint
	ErrUnknownCommand       = base.ErrUnknownCommand
	ErrNoScene              = base.ErrNoScene
	ErrQueueFull            = base.ErrQueueFull
	ErrLoopStopped          = base.ErrLoopStopped
	ErrChannelSinkClosed    = base.ErrChannelSinkClosed
	ErrCollectorClosed      = base.ErrCollectorClosed
)

// Command names accepted by the intake.
const (
	CommandJointPositions     = base.CommandJointPositions
	CommandJointTrajectory    = base.CommandJointTrajectory
	CommandJointTCPTrajectory = base.CommandJointTCPTrajectory
)

// Type aliases so consumers can import github.com/ghalamif/JointSync directly.
type (
	Config           = base.Config
	Policy           = base.Policy
	SourceConfig     = base.SourceConfig
	Resources        = base.Resources
	WatchConfig      = base.WatchConfig
	JointsConfig     = base.JointsConfig
	PlaybackConfig   = base.PlaybackConfig
	HTTPConfig       = base.HTTPConfig
	MetricsConfig    = base.MetricsConfig
	JournalConfig    = base.JournalConfig
	HistoryConfig    = base.HistoryConfig
	OPCUAConfig      = base.OPCUAConfig
	OPCUANodeConfig  = base.OPCUANodeConfig
	LogConfig        = base.LogConfig
	Flow             = base.Flow
	FlowOption       = base.FlowOption
	StreamInOption   = base.StreamInOption
	StreamOutOption  = base.StreamOutOption
	Viewer           = base.Viewer
	ViewerOption     = base.ViewerOption
	Command          = base.Command
	TCPPoint         = base.TCPPoint
	TCPPath          = base.TCPPath
	Vec3             = base.Vec3
	Clip             = base.Clip
	Track            = base.Track
	Polyline         = base.Polyline
	PlaybackEvent    = base.PlaybackEvent
	WatchEntry       = base.WatchEntry
	HistoryBatchSink = base.HistoryBatchSink
	ResourceSource   = base.ResourceSource
	SceneDecoder     = base.SceneDecoder
	Renderer         = base.Renderer
	Collector        = base.Collector
	TaskQueue        = base.TaskQueue
	Transformer      = base.Transformer
	HistorySink      = base.HistorySink
	Journal          = base.Journal
	JournalEntryID   = base.JournalEntryID
	JournalStats     = base.JournalStats
	Observability    = base.Observability
	Clock            = base.Clock
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func ParseConfig(raw []byte) (*Config, error) {
	return base.ParseConfig(raw)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...ViewerOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInSource(s ResourceSource) StreamInOption {
	return base.StreamInSource(s)
}

func StreamInCollector(col Collector) StreamInOption {
	return base.StreamInCollector(col)
}

func StreamInQueue(q TaskQueue) StreamInOption {
	return base.StreamInQueue(q)
}

func StreamInJournal(j Journal) StreamInOption {
	return base.StreamInJournal(j)
}

func StreamInObservability(obs Observability) StreamInOption {
	return base.StreamInObservability(obs)
}

func StreamOutRenderer(r Renderer) StreamOutOption {
	return base.StreamOutRenderer(r)
}

func StreamOutHistory(s HistorySink) StreamOutOption {
	return base.StreamOutHistory(s)
}

func StreamOutTransformer(tr Transformer) StreamOutOption {
	return base.StreamOutTransformer(tr)
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return base.StreamOutObservability(obs)
}

func StreamOutCallback(name string, fn HistoryBatchSink) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Viewer and options.
func NewViewer(cfg *Config, opts ...ViewerOption) (*Viewer, error) {
	return base.NewViewer(cfg, opts...)
}

func WithSource(s ResourceSource) ViewerOption {
	return base.WithSource(s)
}

func WithDecoder(d SceneDecoder) ViewerOption {
	return base.WithDecoder(d)
}

func WithRenderer(r Renderer) ViewerOption {
	return base.WithRenderer(r)
}

func WithCollector(col Collector) ViewerOption {
	return base.WithCollector(col)
}

func WithHistorySink(s HistorySink) ViewerOption {
	return base.WithHistorySink(s)
}

func WithTransformer(tr Transformer) ViewerOption {
	return base.WithTransformer(tr)
}

func WithJournal(j Journal) ViewerOption {
	return base.WithJournal(j)
}

func WithTaskQueue(q TaskQueue) ViewerOption {
	return base.WithTaskQueue(q)
}

func WithObservability(obs Observability) ViewerOption {
	return base.WithObservability(obs)
}

func WithClock(c Clock) ViewerOption {
	return base.WithClock(c)
}

func WithoutServers() ViewerOption {
	return base.WithoutServers()
}

// History and collector adapters.
func NewCallbackSink(name string, fn HistoryBatchSink) HistorySink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (HistorySink, <-chan []PlaybackEvent, func()) {
	return base.NewChannelSink(name, buffer)
}

func NewChannelCollector() (Collector, func(Command) error) {
	return base.NewChannelCollector()
}

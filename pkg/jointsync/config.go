package jointsync

import (
	"github.com/ghalamif/JointSync/internal/adapters/opcua"
	"github.com/ghalamif/JointSync/internal/app/config"
	"github.com/ghalamif/JointSync/internal/app/engine"
	"github.com/ghalamif/JointSync/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// Policy tunes the event loop and its feeding pipelines.
	Policy = ports.Policy
	// SourceConfig selects the HTTP server or directory serving the resources.
	SourceConfig = config.SourceConfig
	// Resources names the scene and trajectory files and their poll period.
	Resources = engine.Resources
	// WatchConfig carries the launch flag that suppresses trajectory watchers.
	WatchConfig = config.WatchConfig
	// JointsConfig controls how joint metadata is read from the scene.
	JointsConfig = config.JointsConfig
	// PlaybackConfig adjusts compiled trajectories.
	PlaybackConfig = config.PlaybackConfig
	// HTTPConfig configures the command intake server.
	HTTPConfig = config.HTTPConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// JournalConfig configures the on-disk command journal.
	JournalConfig = config.JournalConfig
	// HistoryConfig configures the playback history database.
	HistoryConfig = config.HistoryConfig
	// OPCUAConfig holds connection + node details.
	OPCUAConfig = opcua.Config
	// OPCUANodeConfig maps a controller tag to a joint.
	OPCUANodeConfig = opcua.NodeConfig
	// LogConfig toggles verbose logging.
	LogConfig = config.LogConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// ParseConfig reads YAML from memory.
func ParseConfig(raw []byte) (*Config, error) {
	return config.Parse(raw)
}

// DefaultConfig serves ./data/www with every optional integration disabled.
func DefaultConfig() *Config {
	return config.Default()
}

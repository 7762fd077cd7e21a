package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ghalamif/JointSync/internal/adapters/gltf"
	"github.com/ghalamif/JointSync/internal/adapters/opcua"
	"github.com/ghalamif/JointSync/internal/app/engine"
	"github.com/ghalamif/JointSync/internal/ports"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Source    SourceConfig     `yaml:"source"`
	Resources engine.Resources `yaml:"resources"`
	Watch     WatchConfig      `yaml:"watch"`
	Joints    JointsConfig     `yaml:"joints"`
	Playback  PlaybackConfig   `yaml:"playback"`
	Loop      ports.Policy     `yaml:"loop"`
	HTTP      HTTPConfig       `yaml:"http"`
	Metrics   MetricsConfig    `yaml:"metrics"`
	Journal   JournalConfig    `yaml:"journal"`
	History   HistoryConfig    `yaml:"history"`
	OPCUA     opcua.Config     `yaml:"opcua"`
	Log       LogConfig        `yaml:"log"`
}

// SourceConfig selects where watched resources are served from. Exactly one
// of BaseURL and Dir is used.
type SourceConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Dir          string        `yaml:"dir"`
	RetryMax     int           `yaml:"retry_max"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

type WatchConfig struct {
	NoUpdate bool `yaml:"no_update"`
}

type JointsConfig struct {
	MetadataKey  string `yaml:"metadata_key"`
	StrictUnique bool   `yaml:"strict_unique"`
}

type PlaybackConfig struct {
	TimeScale float64 `yaml:"time_scale"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type JournalConfig struct {
	Dir    string `yaml:"dir"`
	Replay *bool  `yaml:"replay"`
}

// ReplayEnabled reports whether the latest journaled command is re-applied
// at startup.
func (j JournalConfig) ReplayEnabled() bool {
	return j.Dir != "" && (j.Replay == nil || *j.Replay)
}

type HistoryConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type LogConfig struct {
	Verbose bool `yaml:"verbose"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse decodes a YAML document, fills defaults and validates the result.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Source.BaseURL == "" && c.Source.Dir == "" {
		c.Source.Dir = "./data/www"
	}
	if c.Source.RetryMax == 0 {
		c.Source.RetryMax = 2
	}
	if c.Resources.Scene == "" {
		c.Resources.Scene = "tesseract_scene.gltf"
	}
	if c.Resources.Trajectory == "" {
		c.Resources.Trajectory = "tesseract_trajectory.json"
	}
	if c.Resources.TCPTrajectory == "" {
		c.Resources.TCPTrajectory = "tesseract_tcp_trajectory.json"
	}
	if c.Resources.PollPeriod == 0 {
		c.Resources.PollPeriod = time.Second
	}
	if c.Joints.MetadataKey == "" {
		c.Joints.MetadataKey = gltf.DefaultMetadataKey
	}
	if c.Playback.TimeScale == 0 {
		c.Playback.TimeScale = 1
	}
	if c.Loop.Tick == 0 {
		c.Loop.Tick = 50 * time.Millisecond
	}
	if c.Loop.MaxTasks == 0 {
		c.Loop.MaxTasks = 1024
	}
	if c.Loop.MaxBatchSize == 0 {
		c.Loop.MaxBatchSize = 64
	}
	if c.Loop.IdleSleep == 0 {
		c.Loop.IdleSleep = 5 * time.Millisecond
	}
	if c.Loop.OnQueueFull == "" {
		c.Loop.OnQueueFull = "block"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.History.Table == "" {
		c.History.Table = "playback_events"
	}

	if c.OPCUA.Enabled() {
		c.OPCUA.ApplyDefaults()
	}
}

func (c *Config) validate() error {
	if c.Source.BaseURL != "" && c.Source.Dir != "" {
		return fmt.Errorf("source: set either base_url or dir, not both")
	}
	if c.Source.RetryMax < 0 {
		return fmt.Errorf("source.retry_max must not be negative")
	}
	if c.Resources.PollPeriod < 0 {
		return fmt.Errorf("resources.poll_period must be positive")
	}
	if c.Playback.TimeScale < 0 {
		return fmt.Errorf("playback.time_scale must be positive")
	}
	if c.Loop.Tick < 0 {
		return fmt.Errorf("loop.tick must be positive")
	}
	if c.Loop.MaxTasks < 0 {
		return fmt.Errorf("loop.max_tasks must be positive")
	}
	switch c.Loop.OnQueueFull {
	case "block", "reject", "drop":
	default:
		return fmt.Errorf("loop.on_queue_full: unknown policy %q", c.Loop.OnQueueFull)
	}
	if c.OPCUA.Enabled() {
		if err := c.OPCUA.Validate(); err != nil {
			return fmt.Errorf("opcua config: %w", err)
		}
	}
	return nil
}

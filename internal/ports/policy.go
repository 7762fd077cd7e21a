package ports

import "time"

// Policy tunes the event loop and the pipelines feeding it.
type Policy struct {
	Tick         time.Duration `yaml:"tick"`
	MaxTasks     int           `yaml:"max_tasks"`
	MaxBatchSize int           `yaml:"max_batch_size"`
	IdleSleep    time.Duration `yaml:"idle_sleep"`

	OnQueueFull string `yaml:"on_queue_full"` // "block", "reject", "drop"
}

package observability

import (
	"fmt"
	"log"
	"strings"

	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
	verbose  bool
}

func NewPromObs(verbose bool) *PromObs {
	probes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jointsync_probes_total",
		Help: "Validation-tag probes issued by the change watcher.",
	})
	probeFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jointsync_probe_failures_total",
		Help: "Probes that failed and were treated as unchanged.",
	})
	changes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jointsync_changes_total",
		Help: "Resource changes dispatched to handlers.",
	})
	sceneLoads := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jointsync_scene_loads_total",
		Help: "Scenes swapped into the mount point.",
	})
	loadFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jointsync_load_failures_total",
		Help: "Scene or trajectory fetches that failed to fetch or parse.",
	})
	compileFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jointsync_compile_failures_total",
		Help: "Trajectory compilations aborted with an error.",
	})
	commands := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jointsync_commands_total",
		Help: "Override commands applied by the intake.",
	})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jointsync_commands_rejected_total",
		Help: "Override commands that failed to apply.",
	})
	historyEvents := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jointsync_history_events_total",
		Help: "Playback events written to the history sink.",
	})
	historyDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jointsync_history_dropped_total",
		Help: "Playback events dropped after repeated sink failures.",
	})
	activeTracks := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jointsync_active_tracks",
		Help: "Keyframe tracks in the active clip.",
	})
	queueLen := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jointsync_task_queue_length",
		Help: "Tasks waiting on the event loop.",
	})
	journalSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jointsync_journal_size_bytes",
		Help: "Size of the command journal on disk.",
	})
	compileLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "jointsync_compile_seconds",
		Help:    "Time to index joints and compile a trajectory.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
	historyLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "jointsync_history_write_seconds",
		Help:    "Latency of history sink batch writes.",
		Buckets: prometheus.DefBuckets,
	})

	prometheus.MustRegister(probes, probeFailures, changes, sceneLoads, loadFailures,
		compileFailures, commands, rejected, historyEvents, historyDropped,
		activeTracks, queueLen, journalSize, compileLatency, historyLatency)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"jointsync_probes_total":            probes,
			"jointsync_probe_failures_total":    probeFailures,
			"jointsync_changes_total":           changes,
			"jointsync_scene_loads_total":       sceneLoads,
			"jointsync_load_failures_total":     loadFailures,
			"jointsync_compile_failures_total":  compileFailures,
			"jointsync_commands_total":          commands,
			"jointsync_commands_rejected_total": rejected,
			"jointsync_history_events_total":    historyEvents,
			"jointsync_history_dropped_total":   historyDropped,
		},
		gauges: map[string]prometheus.Gauge{
			"jointsync_active_tracks":      activeTracks,
			"jointsync_task_queue_length":  queueLen,
			"jointsync_journal_size_bytes": journalSize,
		},
		histos: map[string]prometheus.Observer{
			"jointsync_compile_seconds":       compileLatency,
			"jointsync_history_write_seconds": historyLatency,
		},
		verbose: verbose,
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	if p.verbose {
		log.Printf("INFO: %s%s", msg, formatFields(fields))
	}
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v%s", msg, err, formatFields(fields))
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("CRITICAL: %s: %v%s", msg, err, formatFields(fields))
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordRejected(cmd *domain.Command, err error) {
	p.IncCounter("jointsync_commands_rejected_total", 1)
	if err != nil && cmd != nil {
		log.Printf("REJECTED command=%s id=%s err=%v", cmd.Command, cmd.ID, err)
	}
}

func formatFields(fields []ports.Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}

var _ ports.Observability = (*PromObs)(nil)

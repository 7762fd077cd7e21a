package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ghalamif/JointSync/internal/ports"
)

func TestPromObsMetrics(t *testing.T) {
	origReg := prometheus.DefaultRegisterer
	origGatherer := prometheus.DefaultGatherer
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = origReg
		prometheus.DefaultGatherer = origGatherer
	})

	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg

	obs := NewPromObs(false)

	obs.IncCounter("jointsync_changes_total", 3)
	if got := testutil.ToFloat64(obs.counters["jointsync_changes_total"]); got != 3 {
		t.Fatalf("expected changes counter 3, got %f", got)
	}

	obs.IncCounter("jointsync_probe_failures_total", 2)
	if got := testutil.ToFloat64(obs.counters["jointsync_probe_failures_total"]); got != 2 {
		t.Fatalf("expected probe failure counter 2, got %f", got)
	}

	obs.IncCounter("not_registered", 1)

	obs.SetGauge("jointsync_active_tracks", 6)
	if got := testutil.ToFloat64(obs.gauges["jointsync_active_tracks"]); got != 6 {
		t.Fatalf("expected active tracks gauge 6, got %f", got)
	}

	obs.ObserveLatency("jointsync_compile_seconds", 0.002)
	hCollector := obs.histos["jointsync_compile_seconds"].(prometheus.Collector)
	if samples := testutil.CollectAndCount(hCollector); samples != 1 {
		t.Fatalf("expected compile histogram to record 1 sample, got %d", samples)
	}

	obs.RecordRejected(nil, errors.New("boom"))
	if got := testutil.ToFloat64(obs.counters["jointsync_commands_rejected_total"]); got != 1 {
		t.Fatalf("expected rejected counter 1, got %f", got)
	}
}

func TestFormatFields(t *testing.T) {
	got := formatFields([]ports.Field{{Key: "resource", Value: "scene.gltf"}, {Key: "tag", Value: `"v2"`}})
	if got != ` resource=scene.gltf tag="v2"` {
		t.Fatalf("unexpected field formatting %q", got)
	}
	if formatFields(nil) != "" {
		t.Fatalf("expected empty string for no fields")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := `
source:
  base_url: http://robot-cell.local/www/
loop:
  max_tasks: 16
opcua:
  endpoint: opc.tcp://localhost:4840
  nodes:
    - node_id: "ns=2;s=Robot.Axis1"
      joint_name: joint_1
journal:
  dir: ./data/journal
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Source.Dir != "" {
		t.Fatalf("dir must stay empty when base_url is set, got %q", cfg.Source.Dir)
	}
	if cfg.Resources.Scene != "tesseract_scene.gltf" {
		t.Fatalf("unexpected scene default %q", cfg.Resources.Scene)
	}
	if cfg.Resources.PollPeriod != time.Second {
		t.Fatalf("expected 1s poll period, got %s", cfg.Resources.PollPeriod)
	}
	if cfg.Loop.MaxTasks != 16 {
		t.Fatalf("expected MaxTasks 16, got %d", cfg.Loop.MaxTasks)
	}
	if cfg.Loop.Tick != 50*time.Millisecond {
		t.Fatalf("expected Tick default 50ms, got %s", cfg.Loop.Tick)
	}
	if cfg.Joints.MetadataKey != "tesseract_joint" {
		t.Fatalf("unexpected metadata key %q", cfg.Joints.MetadataKey)
	}
	if cfg.Metrics.Addr != ":9100" || cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected listen defaults %q %q", cfg.Metrics.Addr, cfg.HTTP.Addr)
	}
	if cfg.OPCUA.PublishInterval != 250*time.Millisecond {
		t.Fatalf("expected opcua publish interval 250ms, got %s", cfg.OPCUA.PublishInterval)
	}
	if !cfg.Journal.ReplayEnabled() {
		t.Fatalf("replay defaults to on when a journal dir is set")
	}
}

func TestDefaultServesLocalDirectory(t *testing.T) {
	cfg := Default()
	if cfg.Source.Dir != "./data/www" {
		t.Fatalf("expected ./data/www, got %q", cfg.Source.Dir)
	}
	if cfg.Journal.ReplayEnabled() {
		t.Fatalf("replay needs a journal dir")
	}
	if cfg.OPCUA.Enabled() {
		t.Fatalf("opcua is disabled without an endpoint")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"both sources": "source:\n  base_url: http://x/\n  dir: ./www\n",
		"bad policy":   "loop:\n  on_queue_full: spill\n",
		"opcua joint":  "opcua:\n  endpoint: opc.tcp://x:4840\n  nodes:\n    - node_id: ns=2;s=A\n",
		"bad yaml":     "source: [",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestReplayCanBeDisabled(t *testing.T) {
	cfg, err := Parse([]byte("journal:\n  dir: ./j\n  replay: false\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Journal.ReplayEnabled() {
		t.Fatalf("replay: false must win")
	}
}

package opcua

import (
	"testing"
	"time"

	"github.com/gopcua/opcua/ua"

	"github.com/ghalamif/JointSync/internal/domain"
)

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{
		Endpoint: "opc.tcp://robot:4840",
		Nodes: []NodeConfig{
			{NodeID: "ns=2;s=Axis1", JointName: "joint_1"},
		},
	}
	cfg.ApplyDefaults()
	if cfg.PublishInterval != 250*time.Millisecond {
		t.Fatalf("expected default publish interval, got %s", cfg.PublishInterval)
	}
	if cfg.SecurityMode != "None" || cfg.SecurityPolicy != "None" {
		t.Fatalf("unexpected security defaults %q/%q", cfg.SecurityMode, cfg.SecurityPolicy)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	cfg.Nodes = append(cfg.Nodes, NodeConfig{NodeID: "ns=2;s=Axis2"})
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing joint_name to fail")
	}

	cfg.Nodes[1].JointName = "joint_1"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected duplicate joint mapping to fail")
	}
}

func TestPoseTrackerWaitsForAllJoints(t *testing.T) {
	p := newPoseTracker([]string{"joint_1", "joint_2"})

	if !p.set(0, 0.1) {
		t.Fatalf("first value should count as a change")
	}
	if _, ok := p.command(); ok {
		t.Fatalf("command must wait until every joint is known")
	}

	p.set(1, -0.4)
	cmd, ok := p.command()
	if !ok {
		t.Fatalf("expected command once all joints are known")
	}
	if cmd.Command != domain.CommandJointPositions || cmd.ID == "" {
		t.Fatalf("unexpected command %+v", cmd)
	}
	if cmd.JointNames[1] != "joint_2" || cmd.JointPositions[1] != -0.4 {
		t.Fatalf("unexpected pose %v %v", cmd.JointNames, cmd.JointPositions)
	}

	if p.set(1, -0.4) {
		t.Fatalf("repeating a value is not a change")
	}
}

func TestVariantToFloat(t *testing.T) {
	if v, ok := variantToFloat(ua.MustVariant(float32(1.5))); !ok || v != 1.5 {
		t.Fatalf("float32 conversion failed: %v %v", v, ok)
	}
	if v, ok := variantToFloat(ua.MustVariant(int32(-3))); !ok || v != -3 {
		t.Fatalf("int32 conversion failed: %v %v", v, ok)
	}
	if _, ok := variantToFloat(ua.MustVariant("text")); ok {
		t.Fatalf("string must not convert")
	}
	if _, ok := variantToFloat(nil); ok {
		t.Fatalf("nil must not convert")
	}
}

func TestNormalizeSecurityMode(t *testing.T) {
	cases := map[string]string{
		"sign":             "Sign",
		"SignAndEncrypt":   "SignAndEncrypt",
		"sign_and_encrypt": "SignAndEncrypt",
		"":                 "None",
	}
	for in, want := range cases {
		if got := normalizeSecurityMode(in); got != want {
			t.Fatalf("normalizeSecurityMode(%q) = %q, want %q", in, got, want)
		}
	}
}

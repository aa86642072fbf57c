package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCoversAllSignals(t *testing.T) {
	c := Default()
	if len(c.Engine.Signals) != 19 {
		t.Fatalf("got %d signal thresholds, want 19", len(c.Engine.Signals))
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if c.Engine.Capital != 250000 {
		t.Fatalf("capital = %v, want 250000", c.Engine.Capital)
	}
	if c.Engine.Risk.CoreMultipliers[5] != 2.0 {
		t.Fatalf("core multiplier for 5 = %v, want 2.0", c.Engine.Risk.CoreMultipliers[5])
	}
}

func TestLoadMergesOverYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
engine:
  capital: 500000
  signals:
    skew_spread: { op: gt, warn: 1.0, action: 2.0 }
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Engine.Capital != 500000 {
		t.Fatalf("capital override lost: %v", c.Engine.Capital)
	}
	if th := c.Engine.Signals["skew_spread"]; th.Action != 2.0 {
		t.Fatalf("signal override lost: %+v", th)
	}
	// Untouched signals keep the behavior-table defaults.
	if len(c.Engine.Signals) != 19 {
		t.Fatalf("got %d signals after partial override, want 19", len(c.Engine.Signals))
	}
	if th := c.Engine.Signals["risk_premium"]; th.Action != 9.0 {
		t.Fatalf("default threshold lost: %+v", th)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("environment: test\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("VOLSENTRY_CAPITAL", "750000")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_TOPIC", "reports.test")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Engine.Capital != 750000 {
		t.Fatalf("capital = %v, want env 750000", c.Engine.Capital)
	}
	if !c.Kafka.Enabled || len(c.Kafka.Brokers) != 2 || c.Kafka.Topic != "reports.test" {
		t.Fatalf("kafka env overrides lost: %+v", c.Kafka)
	}
}

func TestValidateRejects(t *testing.T) {
	c := Default()
	c.Engine.Risk.MaxRiskPct = 0.01 // below base
	if err := c.Validate(); err == nil {
		t.Fatalf("max below base must fail")
	}

	c = Default()
	th := c.Engine.Signals["skew_spread"]
	th.Op = "between"
	c.Engine.Signals["skew_spread"] = th
	if err := c.Validate(); err == nil {
		t.Fatalf("unknown op must fail")
	}

	c = Default()
	c.Engine.Calendar.FOMCDates = []string{"17-06-2025"}
	if err := c.Validate(); err == nil {
		t.Fatalf("bad FOMC date must fail")
	}

	c = Default()
	c.Kafka.Enabled = true
	if err := c.Validate(); err == nil {
		t.Fatalf("enabled kafka without brokers must fail")
	}
}

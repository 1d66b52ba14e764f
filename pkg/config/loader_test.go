package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.Simulation.Steps != 20 {
		t.Errorf("expected default steps 20, got %d", cfg.Simulation.Steps)
	}
	if cfg.Simulation.MinDuration() != 3*time.Second {
		t.Errorf("expected default min duration 3s, got %v", cfg.Simulation.MinDuration())
	}
	if cfg.Simulation.MaxDuration() != 8*time.Second {
		t.Errorf("expected default max duration 8s, got %v", cfg.Simulation.MaxDuration())
	}
	if cfg.Simulation.FailureProbability != 0.05 {
		t.Errorf("expected default failure probability 0.05, got %g", cfg.Simulation.FailureProbability)
	}
	if cfg.Simulation.ProcessingThreshold != 0.8 {
		t.Errorf("expected default processing threshold 0.8, got %g", cfg.Simulation.ProcessingThreshold)
	}
	if !cfg.Simulation.SeedCatalog() {
		t.Error("seed catalog should default to enabled")
	}
	if cfg.Output.Directory == "" {
		t.Error("output directory should have a default")
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_SCANSIM_PORT", "7070")
	path := writeConfig(t, "server:\n  port: ${TEST_SCANSIM_PORT}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("expected expanded port 7070, got %d", cfg.Server.Port)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "bad duration",
			yaml:    "simulation:\n  min_scan_duration: nope\n",
			wantErr: "min_scan_duration",
		},
		{
			name:    "max below min",
			yaml:    "simulation:\n  min_scan_duration: 8s\n  max_scan_duration: 3s\n",
			wantErr: "max_scan_duration",
		},
		{
			name:    "failure probability above one",
			yaml:    "simulation:\n  failure_probability: 1.5\n",
			wantErr: "failure_probability",
		},
		{
			name:    "processing threshold above one",
			yaml:    "simulation:\n  processing_threshold: 1.5\n",
			wantErr: "processing_threshold",
		},
		{
			name:    "port out of range",
			yaml:    "server:\n  port: 70000\n",
			wantErr: "port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.yaml)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCANSIM_PORT", "6060")
	t.Setenv("SCANSIM_LOG_LEVEL", "debug")
	t.Setenv("SCANSIM_OUTPUT_DIR", "/tmp/scans")

	cfg := Default()
	LoadFromEnv().Apply(cfg)

	if cfg.Server.Port != 6060 {
		t.Errorf("expected port 6060, got %d", cfg.Server.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}
	if cfg.Output.Directory != "/tmp/scans" {
		t.Errorf("expected output dir /tmp/scans, got %q", cfg.Output.Directory)
	}
}

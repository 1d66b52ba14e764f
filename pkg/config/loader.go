package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads and parses the YAML configuration file
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the config
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with all defaults applied, used when
// no config file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults sets default values for unspecified configuration options
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "30s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.MaxRequestSize == 0 {
		c.Server.MaxRequestSize = 1 * 1024 * 1024 // 1MB
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "30s"
	}

	// Simulation defaults match the reference behavior: 3-8s scans in
	// 20 steps, processing at 80%, 5% failure rate.
	if c.Simulation.MinScanDuration == "" {
		c.Simulation.MinScanDuration = "3s"
	}
	if c.Simulation.MaxScanDuration == "" {
		c.Simulation.MaxScanDuration = "8s"
	}
	if c.Simulation.Steps == 0 {
		c.Simulation.Steps = 20
	}
	if c.Simulation.ProcessingThreshold == 0 {
		c.Simulation.ProcessingThreshold = 0.8
	}
	if c.Simulation.FailureProbability == 0 {
		c.Simulation.FailureProbability = 0.05
	}
	if c.Simulation.ConnectLatencyMin == "" {
		c.Simulation.ConnectLatencyMin = "200ms"
	}
	if c.Simulation.ConnectLatencyMax == "" {
		c.Simulation.ConnectLatencyMax = "500ms"
	}
	if c.Simulation.EventInterval == "" {
		c.Simulation.EventInterval = "30s"
	}
	if c.Simulation.EventProbability == 0 {
		c.Simulation.EventProbability = 0.3
	}
	if c.Simulation.DiscoverProbability == 0 {
		c.Simulation.DiscoverProbability = 0.25
	}

	// Output defaults
	if c.Output.Directory == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.Output.Directory = filepath.Join(home, "scansim-output")
	}
}

// Validate checks the configuration for valid values
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", c.Server.Port)
	}

	durations := map[string]string{
		"server.read_timeout":            c.Server.ReadTimeout,
		"server.write_timeout":           c.Server.WriteTimeout,
		"server.shutdown_timeout":        c.Server.ShutdownTimeout,
		"simulation.min_scan_duration":   c.Simulation.MinScanDuration,
		"simulation.max_scan_duration":   c.Simulation.MaxScanDuration,
		"simulation.connect_latency_min": c.Simulation.ConnectLatencyMin,
		"simulation.connect_latency_max": c.Simulation.ConnectLatencyMax,
		"simulation.event_interval":      c.Simulation.EventInterval,
	}
	for name, value := range durations {
		if _, err := c.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if c.Simulation.MinDuration() <= 0 {
		return fmt.Errorf("simulation.min_scan_duration must be positive")
	}
	if c.Simulation.MaxDuration() < c.Simulation.MinDuration() {
		return fmt.Errorf("simulation.max_scan_duration must not be below min_scan_duration")
	}
	if c.Simulation.Steps < 1 {
		return fmt.Errorf("simulation.steps must be at least 1, got: %d", c.Simulation.Steps)
	}
	if c.Simulation.ProcessingThreshold <= 0 || c.Simulation.ProcessingThreshold > 1 {
		return fmt.Errorf("simulation.processing_threshold must be in (0, 1], got: %g",
			c.Simulation.ProcessingThreshold)
	}
	if c.Simulation.FailureProbability < 0 || c.Simulation.FailureProbability > 1 {
		return fmt.Errorf("simulation.failure_probability must be in [0, 1], got: %g",
			c.Simulation.FailureProbability)
	}
	if c.Simulation.LatencyMax() < c.Simulation.LatencyMin() {
		return fmt.Errorf("simulation.connect_latency_max must not be below connect_latency_min")
	}
	if c.Simulation.EventProbability < 0 || c.Simulation.EventProbability > 1 {
		return fmt.Errorf("simulation.event_probability must be in [0, 1], got: %g",
			c.Simulation.EventProbability)
	}
	if c.Simulation.DiscoverProbability < 0 || c.Simulation.DiscoverProbability > 1 {
		return fmt.Errorf("simulation.discover_probability must be in [0, 1], got: %g",
			c.Simulation.DiscoverProbability)
	}

	return nil
}

package config

import "time"

// Config represents the complete application configuration
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Server     ServerConfig     `yaml:"server"`
	Simulation SimulationConfig `yaml:"simulation"`
	Output     OutputConfig     `yaml:"output"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int    `yaml:"port"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	MaxRequestSize  int64  `yaml:"max_request_size"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// SimulationConfig holds the tunables of the scan and flakiness simulation
type SimulationConfig struct {
	// Seed for the shared random source. 0 means time-based.
	Seed int64 `yaml:"seed"`

	// SeedScanners controls whether the built-in scanner catalog is
	// loaded into the registry at startup.
	SeedScanners *bool `yaml:"seed_scanners"`

	// Scan duration range for a single job, divided into Steps
	// progress increments with per-step jitter.
	MinScanDuration string `yaml:"min_scan_duration"`
	MaxScanDuration string `yaml:"max_scan_duration"`
	Steps           int    `yaml:"steps"`

	// ProcessingThreshold is the completion fraction at which a job
	// flips from scanning to processing.
	ProcessingThreshold float64 `yaml:"processing_threshold"`

	// FailureProbability is the chance a started job ends in the
	// designed simulated hardware failure.
	FailureProbability float64 `yaml:"failure_probability"`

	// Connection test latency bounds.
	ConnectLatencyMin string `yaml:"connect_latency_min"`
	ConnectLatencyMax string `yaml:"connect_latency_max"`

	// EventInterval is the period of the background status flakiness
	// loop; EventProbability is the per-scanner chance of a status
	// change on each pass.
	EventInterval    string  `yaml:"event_interval"`
	EventProbability float64 `yaml:"event_probability"`

	// DiscoverProbability is the chance a bus scan turns up a new
	// scanner.
	DiscoverProbability float64 `yaml:"discover_probability"`
}

// OutputConfig holds output artifact settings
type OutputConfig struct {
	// Directory receiving synthesized scan artifacts.
	Directory string `yaml:"directory"`
}

// ParseDuration converts a string duration to time.Duration
func (c *Config) ParseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

// MinDuration returns the parsed lower scan duration bound. Validate
// guarantees the stored string parses.
func (s SimulationConfig) MinDuration() time.Duration {
	d, _ := time.ParseDuration(s.MinScanDuration)
	return d
}

// MaxDuration returns the parsed upper scan duration bound
func (s SimulationConfig) MaxDuration() time.Duration {
	d, _ := time.ParseDuration(s.MaxScanDuration)
	return d
}

// LatencyMin returns the parsed lower connection latency bound
func (s SimulationConfig) LatencyMin() time.Duration {
	d, _ := time.ParseDuration(s.ConnectLatencyMin)
	return d
}

// LatencyMax returns the parsed upper connection latency bound
func (s SimulationConfig) LatencyMax() time.Duration {
	d, _ := time.ParseDuration(s.ConnectLatencyMax)
	return d
}

// EventPeriod returns the parsed event loop interval
func (s SimulationConfig) EventPeriod() time.Duration {
	d, _ := time.ParseDuration(s.EventInterval)
	return d
}

// SeedCatalog reports whether the built-in scanner catalog should be
// loaded (defaults to true when unset)
func (s SimulationConfig) SeedCatalog() bool {
	return s.SeedScanners == nil || *s.SeedScanners
}

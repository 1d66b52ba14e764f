package config

import (
	"os"
	"strconv"
)

// EnvConfig holds environment variable-based configuration
type EnvConfig struct {
	Port       int
	LogLevel   string
	ConfigFile string
	OutputDir  string
}

// LoadFromEnv reads configuration from environment variables
func LoadFromEnv() *EnvConfig {
	return &EnvConfig{
		Port:       getEnvAsInt("SCANSIM_PORT", 0),
		LogLevel:   getEnv("SCANSIM_LOG_LEVEL", ""),
		ConfigFile: getEnv("SCANSIM_CONFIG", ""),
		OutputDir:  getEnv("SCANSIM_OUTPUT_DIR", ""),
	}
}

// Apply overrides cfg with any values set in the environment
func (e *EnvConfig) Apply(cfg *Config) {
	if e.Port != 0 {
		cfg.Server.Port = e.Port
	}
	if e.LogLevel != "" {
		cfg.LogLevel = e.LogLevel
	}
	if e.OutputDir != "" {
		cfg.Output.Directory = e.OutputDir
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

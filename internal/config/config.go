package config

import (
	"os"
	"strconv"
)

// Config holds application configuration loaded from environment and file.
// Priority: Env vars → config.toml → defaults
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string

	// EnableWebUI serves the click page at /
	EnableWebUI bool

	// WorkerQueueSize bounds the worker inbox
	WorkerQueueSize int

	// LogLevel is one of debug, info, warn, error
	LogLevel string

	// LogFormat is text or json
	LogFormat string
}

// Load reads configuration from file and environment variables.
// Environment variables override file config values.
func Load() *Config {
	fileConfig, err := LoadFile()
	if err != nil {
		fileConfig = &FileConfig{} // Unreadable file, use defaults
	}

	return &Config{
		ServerPort:      getEnvOrFile("SERVER_PORT", fileConfig.ServerPort, ":8080"),
		EnableWebUI:     getEnvBoolOrFile("ENABLE_WEB_UI", fileConfig.EnableWebUI, true),
		WorkerQueueSize: getEnvIntOrFile("WORKER_QUEUE_SIZE", fileConfig.WorkerQueueSize, 16),
		LogLevel:        getEnvOrFile("LOG_LEVEL", fileConfig.LogLevel, "info"),
		LogFormat:       getEnvOrFile("LOG_FORMAT", fileConfig.LogFormat, "text"),
	}
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvBoolOrFile returns env bool, file bool, or default (in priority order)
func getEnvBoolOrFile(key string, fileValue *bool, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvIntOrFile returns env int, file int, or default (in priority order).
// Non-positive or unparsable values fall through to the next source.
func getEnvIntOrFile(key string, fileValue, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	if fileValue > 0 {
		return fileValue
	}
	return defaultValue
}

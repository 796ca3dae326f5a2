package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	ServerPort      string `toml:"server_port"`
	EnableWebUI     *bool  `toml:"enable_web_ui"`
	WorkerQueueSize int    `toml:"worker_queue_size"`
	LogLevel        string `toml:"log_level"`
	LogFormat       string `toml:"log_format"`
}

// ConfigPath returns the path to the config file (<data dir>/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	cfg := &FileConfig{}

	path := ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# clickworker configuration
# Environment variables (SERVER_PORT, ENABLE_WEB_UI, WORKER_QUEUE_SIZE,
# LOG_LEVEL, LOG_FORMAT) take precedence over this file.

# server_port = ":8080"
# enable_web_ui = true

# Pending requests the worker inbox can hold
# worker_queue_size = 16

# debug | info | warn | error
# log_level = "info"

# text | json
# log_format = "text"
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}

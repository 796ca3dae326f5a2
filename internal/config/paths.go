package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDirEnv overrides the data directory location.
const DataDirEnv = "CLICKWORKER_DATA_DIR"

// DataDir returns the path to the data directory.
// - $CLICKWORKER_DATA_DIR when set
// - Windows: %APPDATA%\clickworker
// - Other OS: ~/.clickworker
func DataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "clickworker")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".clickworker"
	}
	return filepath.Join(home, ".clickworker")
}

// DBPath returns the path to the SQLite database file.
func DBPath() string {
	return filepath.Join(DataDir(), "clickworker.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}

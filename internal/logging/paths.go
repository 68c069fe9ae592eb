package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.partseek/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".partseek", "logs")
	}
	return filepath.Join(home, ".partseek", "logs")
}

// DefaultLogPath returns the default run log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "partseek.log")
}

// EnsureLogDir creates the log directory if it doesn't exist.
func EnsureLogDir() error {
	return os.MkdirAll(DefaultLogDir(), 0o755)
}

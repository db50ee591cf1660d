package config

import (
	"os"
	"path/filepath"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
)

// DefaultSettings returns baseline configuration for first launch.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return domain.Settings{
		Theme:      "dark",
		UILanguage: "en",
		ModelPath:  filepath.Join(homeDir, ".audio-scribe", "models"),
	}
}

// DefaultStoragePath returns the default location of the persistent
// key/value document.
func DefaultStoragePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".audio-scribe", "storage.json")
}

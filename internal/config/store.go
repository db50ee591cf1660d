// Package config persists user settings and the session-scoped API key
// through the storage port.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/storage"
)

// Storage keys. KeyAPIKey lives on the session store; the rest persist.
const (
	KeyAPIKey     = "gemini_api_key"
	KeyTheme      = "theme"
	KeyUILanguage = "language"
	KeyModelPath  = "whisper_model_path"
)

// APIKeyPrefix is the literal prefix a Gemini API key must carry.
const APIKeyPrefix = "AIza"

// EnvAPIKey is the environment variable consulted by LoadAPIKeyFromEnv.
const EnvAPIKey = "GEMINI_API_KEY"

// ErrInvalidAPIKey is returned when a candidate key fails prefix validation.
var ErrInvalidAPIKey = errors.New("api key must start with " + APIKeyPrefix)

// Store reads and writes settings through injected storage backends.
type Store struct {
	local   storage.Storage
	session storage.Storage
}

// NewStore creates a settings store over a persistent and a session backend.
func NewStore(local, session storage.Storage) *Store {
	return &Store{local: local, session: session}
}

// IsValidAPIKey reports whether the key carries the required prefix.
func IsValidAPIKey(key string) bool {
	return strings.HasPrefix(strings.TrimSpace(key), APIKeyPrefix)
}

// APIKey returns the session API key, or empty when absent or invalid.
func (s *Store) APIKey() (string, error) {
	key, ok, err := s.session.Get(KeyAPIKey)
	if err != nil {
		return "", err
	}
	if !ok || !IsValidAPIKey(key) {
		return "", nil
	}
	return strings.TrimSpace(key), nil
}

// SaveAPIKey validates and stores the key for the current session.
func (s *Store) SaveAPIKey(key string) error {
	if !IsValidAPIKey(key) {
		return ErrInvalidAPIKey
	}
	return s.session.Set(KeyAPIKey, strings.TrimSpace(key))
}

// ClearAPIKey removes the session API key.
func (s *Store) ClearAPIKey() error {
	return s.session.Remove(KeyAPIKey)
}

// LoadAPIKeyFromEnv reads the key from .env or the environment and stores
// it when valid. Reports whether a usable key was found.
func (s *Store) LoadAPIKeyFromEnv() (bool, error) {
	// A missing .env file is not an error; the plain environment still counts.
	_ = godotenv.Load()

	key := os.Getenv(EnvAPIKey)
	if !IsValidAPIKey(key) {
		return false, nil
	}
	if err := s.session.Set(KeyAPIKey, strings.TrimSpace(key)); err != nil {
		return false, err
	}
	return true, nil
}

// Settings loads persisted settings, filling defaults for absent keys.
func (s *Store) Settings() (domain.Settings, error) {
	settings := DefaultSettings()

	if theme, ok, err := s.local.Get(KeyTheme); err != nil {
		return domain.Settings{}, err
	} else if ok {
		settings.Theme = theme
	}

	if lang, ok, err := s.local.Get(KeyUILanguage); err != nil {
		return domain.Settings{}, err
	} else if ok {
		settings.UILanguage = lang
	}

	if modelPath, ok, err := s.local.Get(KeyModelPath); err != nil {
		return domain.Settings{}, err
	} else if ok {
		settings.ModelPath = modelPath
	}

	return settings, nil
}

// SaveSettings normalizes and persists settings key by key.
func (s *Store) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := normalizeSettings(settings)

	if err := s.local.Set(KeyTheme, normalized.Theme); err != nil {
		return domain.Settings{}, err
	}
	if err := s.local.Set(KeyUILanguage, normalized.UILanguage); err != nil {
		return domain.Settings{}, err
	}
	if err := s.local.Set(KeyModelPath, normalized.ModelPath); err != nil {
		return domain.Settings{}, err
	}

	return normalized, nil
}

// normalizeSettings trims user inputs and applies defaults when empty.
func normalizeSettings(settings domain.Settings) domain.Settings {
	settings.Theme = strings.TrimSpace(settings.Theme)
	if settings.Theme != "dark" && settings.Theme != "light" {
		settings.Theme = "dark"
	}
	settings.UILanguage = strings.TrimSpace(settings.UILanguage)
	if settings.UILanguage == "" {
		settings.UILanguage = "en"
	}
	settings.ModelPath = strings.TrimSpace(settings.ModelPath)
	return settings
}

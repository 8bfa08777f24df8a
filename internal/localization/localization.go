// Package localization resolves user-facing message templates. Built-in
// English strings can be overridden or extended per language with JSON
// files named by language code (e.g. "en.json", "hi.json").
package localization

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"smartgriev/backend/internal/config"
)

const (
	KeyComplaintSubmitted = "notification.complaint_submitted"
	KeyStatusUpdated      = "notification.status_updated"
	KeyInitialSubmission  = "history.initial_submission"
	KeyReclassified       = "history.reclassified"
)

var defaults = map[string]string{
	KeyComplaintSubmitted: "Your complaint %s has been submitted and routed to %s",
	KeyStatusUpdated:      "Your complaint %s status has been updated to %s",
	KeyInitialSubmission:  "Initial complaint submission",
	KeyReclassified:       "Reclassified to %s (%s)",
}

// Localizer manages the translations for the application.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// NewDefaultLocalizer returns a Localizer holding only the built-in strings.
func NewDefaultLocalizer() *Localizer {
	en := make(map[string]string, len(defaults))
	for k, v := range defaults {
		en[k] = v
	}
	return &Localizer{
		translations: map[string]map[string]string{config.DefaultLanguage: en},
	}
}

// NewLocalizer loads every <lang>.json in path on top of the built-in
// strings. A missing directory is not an error.
func NewLocalizer(path string) (*Localizer, error) {
	l := NewDefaultLocalizer()
	if path == "" {
		return l, nil
	}

	files, err := os.ReadDir(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(path, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}
		l.merge(lang, translations)
	}

	return l, nil
}

func (l *Localizer) merge(lang string, translations map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.translations[lang]
	if !ok {
		existing = make(map[string]string, len(translations))
		l.translations[lang] = existing
	}
	for k, v := range translations {
		existing[k] = v
	}
}

// GetString returns the string for key in lang, falling back to English and
// then to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if langTranslations, ok := l.translations[lang]; ok {
		if value, ok := langTranslations[key]; ok {
			return value
		}
	}

	if lang != config.DefaultLanguage {
		if enTranslations, ok := l.translations[config.DefaultLanguage]; ok {
			if value, ok := enTranslations[key]; ok {
				return value
			}
		}
	}

	return key
}

// Format resolves key and applies fmt.Sprintf with args.
func (l *Localizer) Format(lang, key string, args ...interface{}) string {
	return fmt.Sprintf(l.GetString(lang, key), args...)
}

// Languages lists the loaded language codes.
func (l *Localizer) Languages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	langs := make([]string, 0, len(l.translations))
	for lang := range l.translations {
		langs = append(langs, lang)
	}
	return langs
}

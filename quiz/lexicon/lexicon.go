// Package lexicon holds the static texts the bot shows to users.
package lexicon

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyText is returned when an override file maps a key to blank text.
var ErrEmptyText = errors.New("lexicon: empty text")

// Lexicon is an immutable key to text table.
type Lexicon struct {
	entries map[string]string
}

// New copies entries into a new Lexicon.
func New(entries map[string]string) *Lexicon {
	cp := make(map[string]string, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return &Lexicon{entries: cp}
}

// Default returns the built-in Russian lexicon.
func Default() *Lexicon {
	return New(ru)
}

// Load reads YAML overrides from path and merges them over the defaults.
// An empty path yields the defaults.
func Load(path string) (*Lexicon, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: read %s: %w", path, err)
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("lexicon: parse %s: %w", path, err)
	}
	merged := make(map[string]string, len(ru)+len(overrides))
	for k, v := range ru {
		merged[k] = v
	}
	for k, v := range overrides {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w for key %q", ErrEmptyText, k)
		}
		merged[k] = v
	}
	return &Lexicon{entries: merged}, nil
}

// Lookup returns the text stored under key.
func (l *Lexicon) Lookup(key string) (string, bool) {
	if l == nil {
		return "", false
	}
	text, ok := l.entries[key]
	return text, ok
}

// Text returns the text stored under key, or key itself when absent.
func (l *Lexicon) Text(key string) string {
	if text, ok := l.Lookup(key); ok {
		return text
	}
	return key
}

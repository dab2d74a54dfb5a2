// Package config persists user defaults (model, language, quality) in a
// key=value file so they don't have to be repeated as flags on every run.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config keys.
const (
	KeyModel     = "model"      // default transcription model
	KeyTextModel = "text-model" // default chat model for entities/translation
	KeyLanguage  = "language"   // default audio language
	KeyQuality   = "quality"    // default download quality
)

// ErrUnknownKey indicates a config key this tool does not use.
var ErrUnknownKey = errors.New("unknown config key")

// validKeys guards Set against typos silently creating dead keys.
var validKeys = map[string]bool{
	KeyModel:     true,
	KeyTextModel: true,
	KeyLanguage:  true,
	KeyQuality:   true,
}

// Keys returns the valid config keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(validKeys))
	for k := range validKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/transcriberio.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "transcriberio"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "transcriberio"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Get reads a single value. Returns empty string when the key is unset or
// the file doesn't exist.
func Get(key string) (string, error) {
	if !validKeys[key] {
		return "", fmt.Errorf("%s: %w", key, ErrUnknownKey)
	}
	p, err := path()
	if err != nil {
		return "", err
	}
	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return data[key], nil
}

// Set writes a single key=value, creating the file if needed. Existing
// pairs are preserved; comments are not.
func Set(key, value string) error {
	if !validKeys[key] {
		return fmt.Errorf("%s: %w", key, ErrUnknownKey)
	}
	p, err := path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value
	return writeFile(p, existing)
}

// List returns all stored values. A missing file is an empty config.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}
	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	return data, nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}
		data[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return data, nil
}

// writeFile writes the config map to a file, keys sorted for stable diffs.
func writeFile(p string, data map[string]string) error {
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(f, "%s=%s\n", k, data[k]); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

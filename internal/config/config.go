// Package config loads and persists the clicker settings file.
//
// The file is created with defaults when absent (or empty), but an existing
// file that is malformed or out of range is a startup-fatal *Error: the
// process must not run with silently-wrong combos or intervals.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sora7672/snakepit-clicker/internal/keys"
)

// MinIntervalMS is the exclusive lower bound for the click interval.
const MinIntervalMS = 5

// Config holds the validated settings for one process lifetime.
type Config struct {
	StartCombo []string `json:"_start_key_combo"`
	StopCombo  []string `json:"_stop_key_combo"`
	ExitCombo  []string `json:"_exit_key_combo"`
	IntervalMS int      `json:"_interval_clicks"`
}

// Interval returns the click period as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// Default returns the documented default settings: shift+s toggles the
// clicker, shift+e exits, 100 ms between clicks.
func Default() Config {
	return Config{
		StartCombo: []string{"shift", "s"},
		StopCombo:  []string{"shift", "s"},
		ExitCombo:  []string{"shift", "e"},
		IntervalMS: 100,
	}
}

// Error is the startup-fatal configuration error class.
type Error struct {
	Path   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Path, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Load reads the settings file at path. A missing or empty file is replaced
// with the defaults, which are returned. Malformed JSON is backed up to a
// timestamped file and reported; invalid values are reported as-is.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return Config{}, &Error{Path: path, Reason: "failed to write default config", Err: err}
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, &Error{Path: path, Reason: "failed to read config", Err: err}
	}

	if strings.TrimSpace(string(data)) == "" {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return Config{}, &Error{Path: path, Reason: "failed to write default config", Err: err}
		}
		return cfg, nil
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		backup, backupErr := backupBroken(path)
		if backupErr != nil {
			return Config{}, &Error{Path: path, Reason: "invalid JSON (backup failed)", Err: err}
		}
		return Config{}, &Error{Path: path, Reason: fmt.Sprintf("invalid JSON (moved to %s)", backup), Err: err}
	}

	if err := validate(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path with a tmp+rename so a crash never leaves a
// half-written settings file behind.
func Save(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to persist config: %w", err)
	}
	return nil
}

func validate(path string, cfg *Config) error {
	if cfg.IntervalMS <= MinIntervalMS {
		return &Error{
			Path:   path,
			Reason: fmt.Sprintf("_interval_clicks must be an integer greater than %d, got %d", MinIntervalMS, cfg.IntervalMS),
		}
	}

	combos := []struct {
		field string
		keys  *[]string
	}{
		{"_start_key_combo", &cfg.StartCombo},
		{"_stop_key_combo", &cfg.StopCombo},
		{"_exit_key_combo", &cfg.ExitCombo},
	}
	for _, combo := range combos {
		if len(*combo.keys) == 0 {
			return &Error{Path: path, Reason: combo.field + " must not be empty"}
		}
		normalized := make([]string, 0, len(*combo.keys))
		seen := make(map[string]struct{}, len(*combo.keys))
		for _, raw := range *combo.keys {
			name := keys.Normalize(raw)
			if !keys.Valid(name) {
				return &Error{Path: path, Reason: fmt.Sprintf("%s contains unrecognized key %q", combo.field, raw)}
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			normalized = append(normalized, name)
		}
		*combo.keys = normalized
	}
	return nil
}

func backupBroken(path string) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	backup := filepath.Join(filepath.Dir(path), stamp+"_broken_"+filepath.Base(path))
	if err := os.Rename(path, backup); err != nil {
		return "", err
	}
	return backup, nil
}

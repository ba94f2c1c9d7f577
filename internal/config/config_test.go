package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	if cfg.IntervalMS != want.IntervalMS {
		t.Fatalf("IntervalMS = %d, want %d", cfg.IntervalMS, want.IntervalMS)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config was not written: %v", err)
	}
	var onDisk Config
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("written default config is not valid JSON: %v", err)
	}
	if onDisk.IntervalMS != want.IntervalMS || len(onDisk.StartCombo) != len(want.StartCombo) {
		t.Fatalf("written defaults = %+v, want %+v", onDisk, want)
	}
}

func TestLoadEmptyFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, "  \n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.IntervalMS != Default().IntervalMS {
		t.Fatalf("IntervalMS = %d, want default %d", cfg.IntervalMS, Default().IntervalMS)
	}
}

func TestLoadIntervalBoundary(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "low.json")
	writeConfig(t, path, `{"_start_key_combo":["shift","s"],"_stop_key_combo":["shift","s"],"_exit_key_combo":["shift","e"],"_interval_clicks":5}`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for interval 5")
	} else {
		var cfgErr *Error
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected *config.Error, got %T", err)
		}
	}

	path = filepath.Join(dir, "ok.json")
	writeConfig(t, path, `{"_start_key_combo":["shift","s"],"_stop_key_combo":["shift","s"],"_exit_key_combo":["shift","e"],"_interval_clicks":6}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v for interval 6", err)
	}
	if cfg.IntervalMS != 6 {
		t.Fatalf("IntervalMS = %d, want 6", cfg.IntervalMS)
	}
}

func TestLoadMalformedJSONBacksUpAndFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeConfig(t, path, `{"_interval_clicks": `)

	_, err := Load(path)
	var cfgErr *Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *config.Error, got %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("broken config should have been moved away")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	found := false
	for _, entry := range entries {
		if !entry.IsDir() && len(entry.Name()) > len("config.json") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a timestamped backup of the broken config, dir has %v", entries)
	}
}

func TestLoadRejectsBadCombos(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name    string
		content string
	}{
		{"unknown key", `{"_start_key_combo":["shift","mouse4"],"_stop_key_combo":["shift","s"],"_exit_key_combo":["shift","e"],"_interval_clicks":100}`},
		{"empty combo", `{"_start_key_combo":[],"_stop_key_combo":["shift","s"],"_exit_key_combo":["shift","e"],"_interval_clicks":100}`},
		{"missing combo", `{"_stop_key_combo":["shift","s"],"_exit_key_combo":["shift","e"],"_interval_clicks":100}`},
		{"missing interval", `{"_start_key_combo":["shift","s"],"_stop_key_combo":["shift","s"],"_exit_key_combo":["shift","e"]}`},
	}
	for _, tc := range cases {
		path := filepath.Join(dir, "config.json")
		writeConfig(t, path, tc.content)
		_, err := Load(path)
		var cfgErr *Error
		if !errors.As(err, &cfgErr) {
			t.Fatalf("%s: expected *config.Error, got %v", tc.name, err)
		}
	}
}

func TestLoadNormalizesComboNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, `{"_start_key_combo":["Shift_L","S"],"_stop_key_combo":["shift","s"],"_exit_key_combo":["shift","shift_r","e"],"_interval_clicks":100}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StartCombo[0] != "shift" || cfg.StartCombo[1] != "s" {
		t.Fatalf("StartCombo = %v, want [shift s]", cfg.StartCombo)
	}
	if len(cfg.ExitCombo) != 2 {
		t.Fatalf("ExitCombo = %v, want duplicates folded to [shift e]", cfg.ExitCombo)
	}
}

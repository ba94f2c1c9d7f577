package main

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/sora7672/snakepit-clicker/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
	}
	for _, tc := range cases {
		got, err := parseLogLevel(tc.raw)
		if err != nil {
			t.Fatalf("parseLogLevel(%q) error = %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
	if _, err := parseLogLevel("loud"); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestParseFlagsRejectsExtras(t *testing.T) {
	if _, err := parseFlags([]string{"stray"}); err == nil {
		t.Fatalf("expected error for positional arguments")
	}
	if _, err := parseFlags([]string{"-backend", "teleport"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if _, err := parseFlags([]string{"-log-level", "loud"}); err == nil {
		t.Fatalf("expected error for bad log level")
	}
}

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if cfg.configPath != "config.json" {
		t.Fatalf("configPath = %q, want config.json", cfg.configPath)
	}
	if cfg.backend != "auto" {
		t.Fatalf("backend = %q, want auto", cfg.backend)
	}
	if cfg.logLevel != slog.LevelInfo {
		t.Fatalf("logLevel = %v, want info", cfg.logLevel)
	}
}

func TestComboHelpers(t *testing.T) {
	cfg := config.Default()
	union := comboUnion(cfg)
	want := []string{"e", "s", "shift"}
	if strings.Join(union, ",") != strings.Join(want, ",") {
		t.Fatalf("comboUnion = %v, want %v", union, want)
	}

	if got := comboString([]string{"shift", "s"}); got != "SHIFT + S" {
		t.Fatalf("comboString = %q, want %q", got, "SHIFT + S")
	}
}

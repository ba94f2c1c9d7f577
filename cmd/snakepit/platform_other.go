//go:build !linux

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sora7672/snakepit-clicker/internal/adapters/hookinput"
	"github.com/sora7672/snakepit-clicker/internal/config"
	"github.com/sora7672/snakepit-clicker/internal/core/autoclicker"
	"github.com/sora7672/snakepit-clicker/internal/core/hotkeys"
)

func parseBackendChoice(value string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" {
		backend = "auto"
	}
	switch backend {
	case "auto", "hook":
		return backend, nil
	default:
		return "", fmt.Errorf("invalid --backend %q (this platform supports auto|hook)", value)
	}
}

func resolveBackend(string) string {
	return "hook"
}

func newBackend(_ cliConfig, _ config.Config, logger *slog.Logger) (autoclicker.Injector, hotkeys.Listener, error) {
	runtime, err := hookinput.NewRuntime(logger)
	if err != nil {
		return nil, nil, err
	}
	return hookinput.NewInjector(), runtime, nil
}

func newCaptureListener(_ cliConfig, logger *slog.Logger) (hotkeys.Listener, error) {
	return hookinput.NewRuntime(logger)
}

func listInputDevices() error {
	return fmt.Errorf("input device listing is only supported on Linux")
}

func permissionDeniedHint() string {
	return "Permission denied registering global input hooks. On macOS grant Accessibility permission; on Windows run from an elevated prompt."
}

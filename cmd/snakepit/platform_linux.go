//go:build linux

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sora7672/snakepit-clicker/internal/adapters/hookinput"
	"github.com/sora7672/snakepit-clicker/internal/adapters/linuxinput"
	"github.com/sora7672/snakepit-clicker/internal/adapters/x11input"
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
	case "auto", "hook", "x11", "wayland", "evdev":
		return backend, nil
	default:
		return "", fmt.Errorf("invalid --backend %q (linux supports auto|hook|x11|wayland)", value)
	}
}

func resolveBackend(configured string) string {
	choice := strings.ToLower(strings.TrimSpace(configured))
	if choice == "" {
		choice = "auto"
	}
	if choice == "evdev" {
		choice = "wayland"
	}
	if choice != "auto" {
		return choice
	}

	sessionType := strings.ToLower(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")))
	switch sessionType {
	case "wayland":
		return "wayland"
	case "x11":
		return "x11"
	}

	if strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) != "" {
		return "wayland"
	}
	if strings.TrimSpace(os.Getenv("DISPLAY")) != "" {
		return "x11"
	}
	return "wayland"
}

func newBackend(cliCfg cliConfig, cfg config.Config, logger *slog.Logger) (autoclicker.Injector, hotkeys.Listener, error) {
	switch resolveBackend(cliCfg.backend) {
	case "x11":
		runtime, err := x11input.NewRuntime(comboUnion(cfg), logger)
		if err != nil {
			return nil, nil, err
		}
		return runtime.Injector(), runtime, nil
	case "hook":
		runtime, err := hookinput.NewRuntime(logger)
		if err != nil {
			return nil, nil, err
		}
		return hookinput.NewInjector(), runtime, nil
	default:
		runtime, err := linuxinput.NewRuntime(cliCfg.devicePath, logger)
		if err != nil {
			return nil, nil, err
		}
		injector, err := linuxinput.NewInjector()
		if err != nil {
			return nil, nil, err
		}
		return injector, runtime, nil
	}
}

func newCaptureListener(cliCfg cliConfig, logger *slog.Logger) (hotkeys.Listener, error) {
	switch resolveBackend(cliCfg.backend) {
	case "x11":
		// The x11 backend only ever subscribes to configured combo keys, so
		// it cannot observe arbitrary presses.
		return nil, fmt.Errorf("-capture is unavailable on the x11 backend; use -backend hook or -backend wayland")
	case "hook":
		return hookinput.NewRuntime(logger)
	default:
		return linuxinput.NewRuntime(cliCfg.devicePath, logger)
	}
}

func listInputDevices() error {
	devices, err := linuxinput.ListInputDevices()
	if err != nil {
		return err
	}
	for _, dev := range devices {
		virtualTag := "physical"
		if dev.IsVirtual {
			virtualTag = "virtual"
		}
		keyboardTag := "non-keyboard"
		if dev.IsKeyboard {
			keyboardTag = "keyboard"
		}
		fmt.Printf("%s: %s [%s, %s]\n", dev.Path, dev.Name, virtualTag, keyboardTag)
	}
	return nil
}

func permissionDeniedHint() string {
	return "Permission denied opening input backend. On Wayland use root/udev rules for /dev/input + /dev/uinput. On X11 ensure an active session and DISPLAY is set."
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/sora7672/snakepit-clicker/internal/config"
	"github.com/sora7672/snakepit-clicker/internal/core/autoclicker"
	"github.com/sora7672/snakepit-clicker/internal/core/hotkeys"
)

type cliConfig struct {
	configPath  string
	backend     string
	devicePath  string
	capture     bool
	listDevices bool
	logLevel    slog.Level
}

func parseFlags(args []string) (cliConfig, error) {
	cfg := cliConfig{}
	flags := flag.NewFlagSet("snakepit", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	var backendRaw string
	var logLevelRaw string

	flags.StringVar(&cfg.configPath, "config", "config.json", "Path to the JSON settings file. Created with defaults when absent.")
	flags.StringVar(&backendRaw, "backend", "auto", "Input backend. Linux: auto|hook|x11|wayland. Elsewhere: auto|hook.")
	flags.StringVar(&cfg.devicePath, "device", "", "Input event device to listen on (wayland backend), e.g. /dev/input/event4. Auto-detected if omitted.")
	flags.BoolVar(&cfg.capture, "capture", false, "Print the name of the next pressed key (for writing combos) and exit.")
	flags.BoolVar(&cfg.listDevices, "list-devices", false, "Print available input devices and exit.")
	flags.StringVar(&logLevelRaw, "log-level", "info", "Log verbosity. Allowed: debug, info, warning, error.")

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}
	if flags.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}

	backend, err := parseBackendChoice(backendRaw)
	if err != nil {
		return cfg, err
	}
	level, err := parseLogLevel(logLevelRaw)
	if err != nil {
		return cfg, err
	}
	cfg.backend = backend
	cfg.logLevel = level
	return cfg, nil
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid --log-level %q (expected debug|info|warning|error)", value)
	}
}

func newSlogLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES)
}

// comboUnion collects every key name used by any combo, for backends that
// bind keys individually.
func comboUnion(cfg config.Config) []string {
	uniq := make(map[string]struct{})
	for _, combo := range [][]string{cfg.StartCombo, cfg.StopCombo, cfg.ExitCombo} {
		for _, key := range combo {
			uniq[key] = struct{}{}
		}
	}
	union := make([]string, 0, len(uniq))
	for key := range uniq {
		union = append(union, key)
	}
	sort.Strings(union)
	return union
}

func comboString(combo []string) string {
	upper := make([]string, len(combo))
	for i, key := range combo {
		upper[i] = strings.ToUpper(key)
	}
	return strings.Join(upper, " + ")
}

type captureSink struct {
	once sync.Once
	ch   chan string
}

func (c *captureSink) HandleKey(name string, pressed bool) {
	if !pressed {
		return
	}
	c.once.Do(func() { c.ch <- name })
}

func captureKeyName(cliCfg cliConfig, logger *slog.Logger) (string, error) {
	listener, err := newCaptureListener(cliCfg, logger)
	if err != nil {
		return "", err
	}
	defer listener.Stop()

	sink := &captureSink{ch: make(chan string, 1)}
	if err := listener.Start(sink); err != nil {
		return "", err
	}

	timer := time.NewTimer(10 * time.Second)
	defer timer.Stop()
	select {
	case name := <-sink.ch:
		return name, nil
	case <-timer.C:
		return "", fmt.Errorf("timed out waiting for a key press")
	}
}

func run(args []string, stderr io.Writer) int {
	cliCfg, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger := newSlogLogger(cliCfg.logLevel)

	if cliCfg.listDevices {
		if err := listInputDevices(); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	if cliCfg.capture {
		name, err := captureKeyName(cliCfg, logger)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Println(name)
		return 0
	}

	cfg, err := config.Load(cliCfg.configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	injector, listener, err := newBackend(cliCfg, cfg, logger)
	if err != nil {
		if isPermissionError(err) {
			fmt.Fprintln(stderr, permissionDeniedHint())
		}
		fmt.Fprintln(stderr, err)
		return 1
	}

	engine, err := autoclicker.NewService(
		autoclicker.Config{Interval: cfg.Interval()},
		injector,
		logger,
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	exitCh := make(chan struct{})
	var exitOnce sync.Once
	requestExit := func() { exitOnce.Do(func() { close(exitCh) }) }

	dispatcher, err := hotkeys.NewDispatcher(
		hotkeys.Config{
			StartCombo: cfg.StartCombo,
			StopCombo:  cfg.StopCombo,
			ExitCombo:  cfg.ExitCombo,
		},
		hotkeys.Actions{
			Start:   engine.Start,
			Stop:    engine.Stop,
			Exit:    requestExit,
			Running: engine.Running,
		},
		logger,
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if err := listener.Start(dispatcher); err != nil {
		if isPermissionError(err) {
			fmt.Fprintln(stderr, permissionDeniedHint())
		}
		fmt.Fprintln(stderr, err)
		_ = engine.Close()
		return 1
	}

	logger.Info("Backend", "name", resolveBackend(cliCfg.backend))
	logger.Info("Click interval",
		"ms", cfg.IntervalMS,
		"hold_ms", int(autoclicker.DefaultHold/time.Millisecond),
	)
	logger.Info("Start clicker", "combo", comboString(cfg.StartCombo))
	logger.Info("Stop clicker", "combo", comboString(cfg.StopCombo))
	logger.Info("Exit", "combo", comboString(cfg.ExitCombo))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	select {
	case <-exitCh:
		logger.Info("exit combo received, shutting down")
	case <-ctx.Done():
		logger.Info("signal received, shutting down")
	}

	listener.Stop()
	if err := engine.Close(); err != nil {
		logger.Warn("injector close failed", "err", err)
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// Package hotkeys maps the global key-event stream onto start/stop/exit
// actions. It owns the held-keys set and the combo-matching policy; the
// platform backends only deliver raw key edges into it.
package hotkeys

import (
	"fmt"

	"github.com/sora7672/snakepit-clicker/internal/core/autoclicker"
)

// KeySink receives normalized key edges from a backend listener.
type KeySink interface {
	HandleKey(name string, pressed bool)
}

// Listener is a global keyboard subscription. Start registers the hook and
// begins delivering edges to the sink; Stop releases it. Implementations
// deliver from a single goroutine.
type Listener interface {
	Start(sink KeySink) error
	Stop()
}

// Actions are the dispatcher's outputs. Running lets the dispatcher apply
// the toggle policy when start and stop share a combo.
type Actions struct {
	Start   func()
	Stop    func()
	Exit    func()
	Running func() bool
}

type Config struct {
	StartCombo []string
	StopCombo  []string
	ExitCombo  []string
}

type Dispatcher struct {
	startCombo map[string]struct{}
	stopCombo  map[string]struct{}
	exitCombo  map[string]struct{}
	actions    Actions
	logger     autoclicker.Logger

	// held and the match latches are only touched from HandleKey, which
	// backends call from a single event-loop goroutine.
	held         map[string]struct{}
	startMatched bool
	stopMatched  bool
	exitMatched  bool
	exited       bool
}

func NewDispatcher(cfg Config, actions Actions, logger autoclicker.Logger) (*Dispatcher, error) {
	start, err := comboSet("start", cfg.StartCombo)
	if err != nil {
		return nil, err
	}
	stop, err := comboSet("stop", cfg.StopCombo)
	if err != nil {
		return nil, err
	}
	exit, err := comboSet("exit", cfg.ExitCombo)
	if err != nil {
		return nil, err
	}
	if actions.Start == nil || actions.Stop == nil || actions.Exit == nil || actions.Running == nil {
		return nil, fmt.Errorf("all dispatcher actions must be set")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	return &Dispatcher{
		startCombo: start,
		stopCombo:  stop,
		exitCombo:  exit,
		actions:    actions,
		logger:     logger,
		held:       make(map[string]struct{}),
	}, nil
}

// HandleKey updates the held-keys set and dispatches actions. An action
// fires exactly once per fresh match: holding a combo down (or OS
// auto-repeat) does not re-fire until a key of the combo is released and the
// combo is completed again.
func (d *Dispatcher) HandleKey(name string, pressed bool) {
	if name == "" || d.exited {
		return
	}

	if !pressed {
		delete(d.held, name)
		d.refreshLatches()
		return
	}

	d.held[name] = struct{}{}

	exitNow := d.matches(d.exitCombo)
	startNow := d.matches(d.startCombo)
	stopNow := d.matches(d.stopCombo)

	switch {
	case exitNow && !d.exitMatched:
		d.logger.Info("exit combo pressed")
		if d.actions.Running() {
			d.actions.Stop()
		}
		d.exited = true
		d.actions.Exit()
	case d.actions.Running():
		// Start matches are ignored while clicking, so a start combo that
		// equals the stop combo behaves as a toggle.
		if stopNow && !d.stopMatched {
			d.logger.Info("stop combo pressed")
			d.actions.Stop()
		}
	default:
		if startNow && !d.startMatched {
			d.logger.Info("start combo pressed")
			d.actions.Start()
		}
	}

	d.startMatched = startNow
	d.stopMatched = stopNow
	d.exitMatched = exitNow
}

// HeldCount reports the size of the held-keys set.
func (d *Dispatcher) HeldCount() int {
	return len(d.held)
}

func (d *Dispatcher) refreshLatches() {
	d.startMatched = d.matches(d.startCombo)
	d.stopMatched = d.matches(d.stopCombo)
	d.exitMatched = d.matches(d.exitCombo)
}

// matches reports whether the held set is a superset of combo.
func (d *Dispatcher) matches(combo map[string]struct{}) bool {
	for key := range combo {
		if _, ok := d.held[key]; !ok {
			return false
		}
	}
	return true
}

func comboSet(field string, combo []string) (map[string]struct{}, error) {
	if len(combo) == 0 {
		return nil, fmt.Errorf("%s combo must not be empty", field)
	}
	set := make(map[string]struct{}, len(combo))
	for _, key := range combo {
		if key == "" {
			return nil, fmt.Errorf("%s combo contains an empty key name", field)
		}
		set[key] = struct{}{}
	}
	return set, nil
}

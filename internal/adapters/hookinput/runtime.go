// Package hookinput is the portable backend: a gohook global keyboard hook
// for key edges and a robotgo injector for synthetic clicks. It works on
// every OS the hook library supports, and is the only backend off Linux.
package hookinput

import (
	"fmt"
	"sync"

	hook "github.com/robotn/gohook"

	"github.com/sora7672/snakepit-clicker/internal/core/autoclicker"
	"github.com/sora7672/snakepit-clicker/internal/core/hotkeys"
	"github.com/sora7672/snakepit-clicker/internal/keys"
)

type Runtime struct {
	logger autoclicker.Logger

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	started  bool
}

func NewRuntime(logger autoclicker.Logger) (*Runtime, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	return &Runtime{
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}, nil
}

// Start installs the global hook and begins delivering key edges to sink
// from a single goroutine.
func (r *Runtime) Start(sink hotkeys.KeySink) error {
	if sink == nil {
		return fmt.Errorf("sink is nil")
	}
	events := hook.Start()
	if events == nil {
		return fmt.Errorf("failed to install global keyboard hook")
	}
	r.started = true
	go r.eventLoop(events, sink)
	return nil
}

// Stop uninstalls the hook and waits for the event loop to drain.
func (r *Runtime) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		if !r.started {
			return
		}
		hook.End()
		<-r.doneCh
	})
}

func (r *Runtime) eventLoop(events chan hook.Event, sink hotkeys.KeySink) {
	defer close(r.doneCh)

	for {
		select {
		case <-r.stopCh:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			pressed, isKey := edgeForKind(ev.Kind)
			if !isKey {
				continue
			}
			name := keyName(ev)
			if name == "" {
				r.logger.Debug("unmapped key event", "rawcode", ev.Rawcode)
				continue
			}
			sink.HandleKey(name, pressed)
		}
	}
}

// edgeForKind maps a hook event kind onto a key edge. Hold events count as
// presses; the dispatcher's latching keeps repeats from re-firing combos.
func edgeForKind(kind uint8) (pressed, isKey bool) {
	switch kind {
	case hook.KeyDown, hook.KeyHold:
		return true, true
	case hook.KeyUp:
		return false, true
	default:
		return false, false
	}
}

// keyName translates a hook event to the canonical vocabulary, preferring
// the rawcode table and falling back to the typed character.
func keyName(ev hook.Event) string {
	if name := keys.Normalize(hook.RawcodetoKeychar(ev.Rawcode)); keys.Valid(name) {
		return name
	}
	if ev.Keychar != 0 && ev.Keychar != 0xFFFF {
		if name := keys.Normalize(string(ev.Keychar)); keys.Valid(name) {
			return name
		}
	}
	return ""
}

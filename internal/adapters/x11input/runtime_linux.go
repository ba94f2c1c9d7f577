//go:build linux

package x11input

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/sora7672/snakepit-clicker/internal/core/autoclicker"
	"github.com/sora7672/snakepit-clicker/internal/core/hotkeys"
)

// Runtime is the X11 backend: it passively grabs every keycode the
// configured combos resolve to, replays the events to the session so the
// grabs stay unobtrusive, and injects clicks through XTest.
type Runtime struct {
	xu      *xgbutil.XUtil
	conn    *xgb.Conn
	rootWin xproto.Window
	logger  autoclicker.Logger

	keyToName   map[xproto.Keycode]string
	grabbedKeys []xproto.Keycode

	injectMu sync.Mutex

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
}

// NewRuntime connects to the X server and resolves comboKeys (the union of
// all configured combo key names) to X keycodes. Grabbing happens in Start.
func NewRuntime(comboKeys []string, logger autoclicker.Logger) (*Runtime, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if len(comboKeys) == 0 {
		return nil, fmt.Errorf("no combo keys to bind")
	}

	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	conn := xu.Conn()
	if conn == nil {
		return nil, fmt.Errorf("failed to open X11 connection")
	}

	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, err
	}
	keybind.Initialize(xu)

	r := &Runtime{
		xu:      xu,
		conn:    conn,
		rootWin: xu.RootWin(),
		logger:  logger,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	if err := r.resolveBindings(comboKeys); err != nil {
		conn.Close()
		return nil, err
	}
	return r, nil
}

// Injector returns the XTest click injector sharing this runtime's
// connection.
func (r *Runtime) Injector() autoclicker.Injector {
	return &x11Injector{r: r}
}

// Start grabs the resolved keycodes on the root window and begins the event
// loop delivering key edges to sink.
func (r *Runtime) Start(sink hotkeys.KeySink) error {
	if sink == nil {
		return fmt.Errorf("sink is nil")
	}

	keycodes := make([]xproto.Keycode, 0, len(r.keyToName))
	for keycode := range r.keyToName {
		keycodes = append(keycodes, keycode)
	}
	sort.Slice(keycodes, func(i, j int) bool { return keycodes[i] < keycodes[j] })

	for _, keycode := range keycodes {
		if err := xproto.GrabKeyChecked(
			r.conn,
			false,
			r.rootWin,
			xproto.ModMaskAny,
			keycode,
			xproto.GrabModeAsync,
			xproto.GrabModeAsync,
		).Check(); err != nil {
			r.ungrabAll()
			return fmt.Errorf("failed to grab key %q: %w", r.keyToName[keycode], err)
		}
		r.grabbedKeys = append(r.grabbedKeys, keycode)
	}

	r.started = true
	go r.eventLoop(sink)
	return nil
}

func (r *Runtime) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		r.ungrabAll()
		r.conn.Close()
		if r.started {
			<-r.doneCh
		}
	})
}

func (r *Runtime) eventLoop(sink hotkeys.KeySink) {
	defer close(r.doneCh)

	for {
		event, xerr := r.conn.WaitForEvent()
		if xerr != nil {
			select {
			case <-r.stopCh:
				return
			default:
			}
			r.logger.Warn("x11 event error", "err", xerr)
			continue
		}
		if event == nil {
			return
		}

		switch ev := event.(type) {
		case xproto.KeyPressEvent:
			if name, ok := r.keyToName[ev.Detail]; ok {
				sink.HandleKey(name, true)
			}
			_ = xproto.AllowEventsChecked(r.conn, xproto.AllowReplayKeyboard, xproto.TimeCurrentTime).Check()
		case xproto.KeyReleaseEvent:
			if name, ok := r.keyToName[ev.Detail]; ok {
				sink.HandleKey(name, false)
			}
			_ = xproto.AllowEventsChecked(r.conn, xproto.AllowReplayKeyboard, xproto.TimeCurrentTime).Check()
		}
	}
}

func (r *Runtime) resolveBindings(comboKeys []string) error {
	keyToName := make(map[xproto.Keycode]string)
	for _, name := range comboKeys {
		keycodes, err := r.resolveName(name)
		if err != nil {
			return err
		}
		for _, keycode := range keycodes {
			if existing, ok := keyToName[keycode]; ok && existing != name {
				return fmt.Errorf("keys %q and %q resolve to the same X11 keycode", existing, name)
			}
			keyToName[keycode] = name
		}
	}
	r.keyToName = keyToName
	return nil
}

// resolveName maps a canonical key name to the X keycodes producing it.
// Unsided modifiers resolve to both physical keys.
func (r *Runtime) resolveName(name string) ([]xproto.Keycode, error) {
	uniq := make(map[xproto.Keycode]struct{})
	for _, keysym := range keysymNames(name) {
		for _, keycode := range keybind.StrToKeycodes(r.xu, keysym) {
			uniq[keycode] = struct{}{}
		}
	}
	if len(uniq) == 0 {
		return nil, fmt.Errorf("failed to resolve key %q to an X11 keycode", name)
	}

	keycodes := make([]xproto.Keycode, 0, len(uniq))
	for keycode := range uniq {
		keycodes = append(keycodes, keycode)
	}
	sort.Slice(keycodes, func(i, j int) bool { return keycodes[i] < keycodes[j] })
	return keycodes, nil
}

func (r *Runtime) ungrabAll() {
	for _, keycode := range r.grabbedKeys {
		xproto.UngrabKey(r.conn, keycode, r.rootWin, xproto.ModMaskAny)
	}
	r.grabbedKeys = nil
}

func keysymNames(name string) []string {
	switch name {
	case "shift":
		return []string{"Shift_L", "Shift_R"}
	case "ctrl":
		return []string{"Control_L", "Control_R"}
	case "alt":
		return []string{"Alt_L", "Alt_R"}
	case "cmd":
		return []string{"Super_L", "Super_R"}
	case "space":
		return []string{"space"}
	case "enter":
		return []string{"Return"}
	case "esc":
		return []string{"Escape"}
	case "tab":
		return []string{"Tab"}
	case "backspace":
		return []string{"BackSpace"}
	case "caps_lock":
		return []string{"Caps_Lock"}
	case "delete":
		return []string{"Delete"}
	case "insert":
		return []string{"Insert"}
	case "home":
		return []string{"Home"}
	case "end":
		return []string{"End"}
	case "page_up":
		return []string{"Prior"}
	case "page_down":
		return []string{"Next"}
	case "up":
		return []string{"Up"}
	case "down":
		return []string{"Down"}
	case "left":
		return []string{"Left"}
	case "right":
		return []string{"Right"}
	case "num_lock":
		return []string{"Num_Lock"}
	case "scroll_lock":
		return []string{"Scroll_Lock"}
	case "print_screen":
		return []string{"Print"}
	case "pause":
		return []string{"Pause"}
	case "menu":
		return []string{"Menu"}
	default:
		if len(name) > 1 && name[0] == 'f' {
			return []string{strings.ToUpper(name)}
		}
		return []string{name}
	}
}

type x11Injector struct {
	r *Runtime
}

func (i *x11Injector) Press() error   { return i.fakeButton(xproto.ButtonPress) }
func (i *x11Injector) Release() error { return i.fakeButton(xproto.ButtonRelease) }

// Close is a no-op; the shared connection is owned by the runtime.
func (i *x11Injector) Close() error { return nil }

func (i *x11Injector) fakeButton(eventType byte) error {
	i.r.injectMu.Lock()
	defer i.r.injectMu.Unlock()

	if err := xtest.FakeInputChecked(
		i.r.conn,
		eventType,
		byte(xproto.ButtonIndex1),
		xproto.TimeCurrentTime,
		i.r.rootWin,
		0,
		0,
		0,
	).Check(); err != nil {
		return err
	}
	i.r.conn.Sync()
	return nil
}

//go:build linux

package linuxinput

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/sora7672/snakepit-clicker/internal/core/autoclicker"
	"github.com/sora7672/snakepit-clicker/internal/core/hotkeys"
)

// Runtime reads key events from the physical keyboard devices and delivers
// them to the dispatcher. It is the Wayland-friendly backend: no display
// server involved, only /dev/input.
type Runtime struct {
	devicePath string
	logger     autoclicker.Logger

	devices []*evdev.InputDevice
	eventCh chan keyEdge

	stopCh    chan struct{}
	stopOnce  sync.Once
	readersWG sync.WaitGroup
	doneCh    chan struct{}
	started   bool
}

type keyEdge struct {
	name    string
	pressed bool
}

func NewRuntime(devicePath string, logger autoclicker.Logger) (*Runtime, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	return &Runtime{
		devicePath: devicePath,
		logger:     logger,
		eventCh:    make(chan keyEdge, 64),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}, nil
}

// Start opens the keyboard devices and begins delivering key edges to sink.
// The per-device readers fan into one channel so the sink only ever sees a
// single goroutine.
func (r *Runtime) Start(sink hotkeys.KeySink) error {
	if sink == nil {
		return fmt.Errorf("sink is nil")
	}
	devices, err := openKeyboardDevices(r.devicePath)
	if err != nil {
		return err
	}
	r.devices = devices
	r.started = true

	for _, dev := range devices {
		name, _ := dev.Name()
		r.logger.Info("listening on input device", "path", dev.Path(), "name", name)
		r.readersWG.Add(1)
		go r.readLoop(dev)
	}

	go func() {
		defer close(r.doneCh)
		for {
			select {
			case <-r.stopCh:
				return
			case edge := <-r.eventCh:
				sink.HandleKey(edge.name, edge.pressed)
			}
		}
	}()
	return nil
}

func (r *Runtime) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		if !r.started {
			return
		}
		for _, dev := range r.devices {
			_ = dev.Close()
		}
		r.readersWG.Wait()
		<-r.doneCh
	})
}

func (r *Runtime) readLoop(dev *evdev.InputDevice) {
	defer r.readersWG.Done()

	path := dev.Path()
	for {
		events, err := dev.ReadSlice(64)
		if err != nil {
			if r.stopped() || isDeviceClosedError(err) {
				return
			}
			if isWouldBlockError(err) {
				if !r.sleepWithStop(10 * time.Millisecond) {
					return
				}
				continue
			}
			r.logger.Warn("read failed", "path", path, "err", err)
			if !r.sleepWithStop(100 * time.Millisecond) {
				return
			}
			continue
		}

		for _, event := range events {
			if event.Type != evdev.EV_KEY {
				continue
			}
			name, ok := codeName(event.Code)
			if !ok {
				continue
			}
			// Value 2 is kernel auto-repeat, delivered as a press; the
			// dispatcher's edge latching keeps it from re-firing combos.
			edge := keyEdge{name: name, pressed: event.Value != 0}
			select {
			case r.eventCh <- edge:
			case <-r.stopCh:
				return
			}
		}
	}
}

func (r *Runtime) stopped() bool {
	select {
	case <-r.stopCh:
		return true
	default:
		return false
	}
}

func (r *Runtime) sleepWithStop(duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-r.stopCh:
		return false
	case <-timer.C:
		return true
	}
}

func isDeviceClosedError(err error) bool {
	return errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.ENODEV)
}

func isWouldBlockError(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}

//go:build linux

package linuxinput

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"
)

// Injector is a uinput virtual mouse that emits left-button events. Each
// press/release is followed by a SYN_REPORT so the kernel flushes it.
type Injector struct {
	dev *evdev.InputDevice
}

func NewInjector() (*Injector, error) {
	capabilities := map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: {evdev.BTN_LEFT},
	}
	id := evdev.InputID{
		BusType: uint16(evdev.BUS_VIRTUAL),
		Vendor:  0x1,
		Product: 0x1,
		Version: 1,
	}
	dev, err := evdev.CreateDevice("snakepit-clicker", id, capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to create uinput device: %w", err)
	}
	return &Injector{dev: dev}, nil
}

func (i *Injector) Press() error   { return i.writeButton(1) }
func (i *Injector) Release() error { return i.writeButton(0) }

func (i *Injector) Close() error {
	if i.dev == nil {
		return nil
	}
	return i.dev.Close()
}

func (i *Injector) writeButton(value int32) error {
	events := []evdev.InputEvent{
		{Type: evdev.EV_KEY, Code: evdev.BTN_LEFT, Value: value},
		{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT, Value: 0},
	}
	for idx := range events {
		if err := i.dev.WriteOne(&events[idx]); err != nil {
			return err
		}
	}
	return nil
}

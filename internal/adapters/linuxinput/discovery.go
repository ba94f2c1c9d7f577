//go:build linux

package linuxinput

import (
	"fmt"
	"os"
	"sort"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

type DeviceInfo struct {
	Path       string
	Name       string
	IsVirtual  bool
	IsKeyboard bool
}

// ListInputDevices enumerates the readable evdev devices, for -list-devices.
func ListInputDevices() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Path < paths[j].Path
	})

	devices := make([]DeviceInfo, 0, len(paths))
	for _, path := range paths {
		dev, err := openInputDevice(path.Path)
		if err != nil {
			continue
		}

		name := path.Name
		if actualName, err := dev.Name(); err == nil && actualName != "" {
			name = actualName
		}

		devices = append(devices, DeviceInfo{
			Path:       path.Path,
			Name:       name,
			IsVirtual:  deviceIsVirtual(dev, name),
			IsKeyboard: deviceIsKeyboard(dev),
		})
		_ = dev.Close()
	}

	return devices, nil
}

// openKeyboardDevices opens every non-virtual device that looks like a
// keyboard, or the single device at devicePath when one is given. Opened
// devices are in non-blocking mode.
func openKeyboardDevices(devicePath string) ([]*evdev.InputDevice, error) {
	if devicePath != "" {
		dev, err := openInputDevice(devicePath)
		if err != nil {
			return nil, err
		}
		if !deviceIsKeyboard(dev) {
			_ = dev.Close()
			return nil, fmt.Errorf("%s does not expose keyboard events", devicePath)
		}
		if err := dev.NonBlock(); err != nil {
			_ = dev.Close()
			return nil, fmt.Errorf("failed to set nonblocking mode for %s: %w", devicePath, err)
		}
		return []*evdev.InputDevice{dev}, nil
	}

	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Path < paths[j].Path
	})

	var firstErr error
	devices := make([]*evdev.InputDevice, 0, len(paths))
	for _, path := range paths {
		dev, err := openInputDevice(path.Path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		name := path.Name
		if actualName, nameErr := dev.Name(); nameErr == nil && actualName != "" {
			name = actualName
		}
		if deviceIsVirtual(dev, name) || !deviceIsKeyboard(dev) {
			_ = dev.Close()
			continue
		}
		if err := dev.NonBlock(); err != nil {
			_ = dev.Close()
			continue
		}
		devices = append(devices, dev)
	}

	if len(devices) == 0 {
		if firstErr != nil {
			return nil, fmt.Errorf("no readable keyboard devices found: %w", firstErr)
		}
		return nil, fmt.Errorf("no readable keyboard devices found; use -list-devices and pass -device")
	}
	return devices, nil
}

func openInputDevice(path string) (*evdev.InputDevice, error) {
	return evdev.OpenWithFlags(path, os.O_RDONLY)
}

func deviceIsVirtual(device *evdev.InputDevice, name string) bool {
	id, err := device.InputID()
	if err == nil && id.BusType == uint16(evdev.BUS_VIRTUAL) {
		return true
	}
	lower := strings.ToLower(name)
	for _, token := range []string{"virtual", "uinput", "ydotool", "snakepit"} {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// deviceIsKeyboard treats any device exposing the letter row as a keyboard.
func deviceIsKeyboard(device *evdev.InputDevice) bool {
	var hasQ, hasSpace bool
	for _, code := range device.CapableEvents(evdev.EV_KEY) {
		switch code {
		case evdev.KEY_Q:
			hasQ = true
		case evdev.KEY_SPACE:
			hasSpace = true
		}
	}
	return hasQ && hasSpace
}

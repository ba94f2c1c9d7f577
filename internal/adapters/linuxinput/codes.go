//go:build linux

package linuxinput

import (
	"strings"

	evdev "github.com/holoplot/go-evdev"

	"github.com/sora7672/snakepit-clicker/internal/keys"
)

// codeName maps an evdev key code onto the canonical key vocabulary.
// Codes without a sensible mapping (mouse buttons, media keys, ...) return
// ok=false and are ignored by the read loops.
func codeName(code evdev.EvCode) (string, bool) {
	raw := evdev.CodeName(evdev.EV_KEY, code)
	if !strings.HasPrefix(raw, "KEY_") {
		return "", false
	}
	name := keys.Normalize(strings.TrimPrefix(raw, "KEY_"))
	if !keys.Valid(name) {
		return "", false
	}
	return name, true
}

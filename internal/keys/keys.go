// Package keys defines the canonical key-name vocabulary shared by the
// config validator and the input backends. Every backend reports keys in its
// own spelling; Normalize folds those onto one name per physical key so that
// a configured combo matches no matter which backend delivered the event.
package keys

import "strings"

var specials = map[string]struct{}{
	"shift":        {},
	"ctrl":         {},
	"alt":          {},
	"cmd":          {},
	"space":        {},
	"enter":        {},
	"esc":          {},
	"tab":          {},
	"backspace":    {},
	"caps_lock":    {},
	"delete":       {},
	"insert":       {},
	"home":         {},
	"end":          {},
	"page_up":      {},
	"page_down":    {},
	"up":           {},
	"down":         {},
	"left":         {},
	"right":        {},
	"num_lock":     {},
	"scroll_lock":  {},
	"print_screen": {},
	"pause":        {},
	"menu":         {},
}

var aliases = map[string]string{
	"shift_l":     "shift",
	"shift_r":     "shift",
	"lshift":      "shift",
	"rshift":      "shift",
	"leftshift":   "shift",
	"rightshift":  "shift",
	"ctrl_l":      "ctrl",
	"ctrl_r":      "ctrl",
	"lctrl":       "ctrl",
	"rctrl":       "ctrl",
	"leftctrl":    "ctrl",
	"rightctrl":   "ctrl",
	"control":     "ctrl",
	"alt_l":       "alt",
	"alt_r":       "alt",
	"lalt":        "alt",
	"ralt":        "alt",
	"leftalt":     "alt",
	"rightalt":    "alt",
	"alt_gr":      "alt",
	"altgr":       "alt",
	"option":      "alt",
	"cmd_l":       "cmd",
	"cmd_r":       "cmd",
	"leftmeta":    "cmd",
	"rightmeta":   "cmd",
	"meta":        "cmd",
	"super":       "cmd",
	"super_l":     "cmd",
	"super_r":     "cmd",
	"win":         "cmd",
	"lwin":        "cmd",
	"rwin":        "cmd",
	"return":      "enter",
	"kpenter":     "enter",
	"escape":      "esc",
	"spacebar":    "space",
	"capslock":    "caps_lock",
	"numlock":     "num_lock",
	"scrolllock":  "scroll_lock",
	"printscreen": "print_screen",
	"sysrq":       "print_screen",
	"del":         "delete",
	"ins":         "insert",
	"pageup":      "page_up",
	"pagedown":    "page_down",
	"prior":       "page_up",
	"next":        "page_down",
	"compose":     "menu",
}

// Normalize lowercases a backend-reported key name and folds known aliases
// (sided modifiers, alternate spellings) onto the canonical name. Unknown
// names come back lowercased and trimmed so callers can still log them.
func Normalize(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	if folded, ok := aliases[name]; ok {
		return folded
	}
	return name
}

// Valid reports whether name (already normalized) is part of the configured
// vocabulary: a single lowercase letter or digit, a function key, or one of
// the recognized special names.
func Valid(name string) bool {
	if name == "" {
		return false
	}
	if len(name) == 1 {
		c := name[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	if _, ok := specials[name]; ok {
		return true
	}
	return isFunctionKey(name)
}

func isFunctionKey(name string) bool {
	if len(name) < 2 || len(name) > 3 || name[0] != 'f' {
		return false
	}
	n := 0
	for i := 1; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
		n = n*10 + int(name[i]-'0')
	}
	return n >= 1 && n <= 12
}

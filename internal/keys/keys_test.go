package keys

import "testing"

func TestNormalizeFoldsAliases(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Shift", "shift"},
		{"shift_l", "shift"},
		{"Left Shift", "shift"},
		{"LEFTSHIFT", "shift"},
		{"Control", "ctrl"},
		{"ctrl_r", "ctrl"},
		{"Alt_Gr", "alt"},
		{"Return", "enter"},
		{"Escape", "esc"},
		{"Super_L", "cmd"},
		{"CapsLock", "caps_lock"},
		{"Page Up", "page_up"},
		{"s", "s"},
		{"F8", "f8"},
		{"  q  ", "q"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.raw); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestValid(t *testing.T) {
	for _, name := range []string{"a", "z", "0", "9", "shift", "ctrl", "alt", "cmd", "esc", "f1", "f12", "page_down"} {
		if !Valid(name) {
			t.Fatalf("Valid(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"", "A", "ß", "sh", "f0", "f13", "f123", "mouse4", "shift_l"} {
		if Valid(name) {
			t.Fatalf("Valid(%q) = true, want false", name)
		}
	}
}

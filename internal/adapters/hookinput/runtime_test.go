package hookinput

import (
	"testing"

	hook "github.com/robotn/gohook"
)

func TestEdgeForKind(t *testing.T) {
	cases := []struct {
		kind    uint8
		pressed bool
		isKey   bool
	}{
		{hook.KeyDown, true, true},
		{hook.KeyHold, true, true},
		{hook.KeyUp, false, true},
		{hook.MouseDown, false, false},
		{hook.MouseMove, false, false},
		{hook.HookEnabled, false, false},
	}
	for _, tc := range cases {
		pressed, isKey := edgeForKind(tc.kind)
		if pressed != tc.pressed || isKey != tc.isKey {
			t.Fatalf("edgeForKind(%d) = (%v, %v), want (%v, %v)", tc.kind, pressed, isKey, tc.pressed, tc.isKey)
		}
	}
}

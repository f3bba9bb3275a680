// Package ttesting holds small named assertions shared by the sprite tests.
// Each assertion runs as its own subtest so a table of checks reports every
// mismatch by name.
package ttesting

import (
	"image/color"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualInt64(t *testing.T, name string, got, want int64) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

func AssertInRangeInt(t *testing.T, name string, got, wantMin, wantMax int) {
	t.Run(name, func(t *testing.T) {
		if got < wantMin || got > wantMax {
			t.Errorf("got %d; want [%d,%d]", got, wantMin, wantMax)
		}
	})
}

// AssertEqualRGBA compares colours channel by channel.
func AssertEqualRGBA(t *testing.T, name string, got, want color.RGBA) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got rgba(%d,%d,%d,%d); want rgba(%d,%d,%d,%d)", got.R, got.G, got.B, got.A, want.R, want.G, want.B, want.A)
		}
	})
}

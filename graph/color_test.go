package graph

import (
	"image/color"
	"testing"
)

func TestColorChannels(t *testing.T) {
	c := Color(0x80ff4010)
	if c.A() != 0x80 || c.R() != 0xff || c.G() != 0x40 || c.B() != 0x10 {
		t.Errorf("channels of %v = %d %d %d %d", c, c.A(), c.R(), c.G(), c.B())
	}
	if got := ARGB(0x80, 0xff, 0x40, 0x10); got != c {
		t.Errorf("ARGB() = %v, want %v", got, c)
	}
	if got := c.String(); got != "{80ff4010}" {
		t.Errorf("String() = %q, want {80ff4010}", got)
	}
}

func TestColorNRGBARoundTrip(t *testing.T) {
	c := Color(0xff00ff00)
	n := c.NRGBA()
	if n != (color.NRGBA{R: 0, G: 255, B: 0, A: 255}) {
		t.Errorf("NRGBA() = %v", n)
	}
	if got := FromColor(n); got != c {
		t.Errorf("FromColor(%v) = %v, want %v", n, got, c)
	}
}

func TestColorLerp(t *testing.T) {
	black := Color(0xff000000)
	white := Color(0xffffffff)
	tests := []struct {
		t    uint8
		want Color
	}{
		{0, black},
		{255, white},
		{128, 0xff808080},
	}
	for _, tt := range tests {
		if got := black.Lerp(white, tt.t); got != tt.want {
			t.Errorf("Lerp(%d) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

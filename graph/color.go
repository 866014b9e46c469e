package graph

import (
	"fmt"
	"image/color"
)

// Color is a packed non-premultiplied ARGB color, 0xAARRGGBB.
type Color uint32

// ARGB packs the four 8-bit channels into a Color.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> 24) }

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// NRGBA converts c to the standard library representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// String formats c the way scripts write color literals.
func (c Color) String() string {
	return fmt.Sprintf("{%08x}", uint32(c))
}

// FromColor converts any color.Color to a packed Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ARGB(n.A, n.R, n.G, n.B)
}

// Lerp blends from c toward d by t/255 on every channel, alpha included.
func (c Color) Lerp(d Color, t uint8) Color {
	mix := func(x, y uint8) uint8 {
		return uint8((uint32(x)*uint32(255-t) + uint32(y)*uint32(t) + 127) / 255)
	}
	return ARGB(mix(c.A(), d.A()), mix(c.R(), d.R()), mix(c.G(), d.G()), mix(c.B(), d.B()))
}

package geom

// Color is a packed 0xRRGGBBAA color.
type Color uint32

// Transparent is the zero color and draws nothing.
const Transparent Color = 0

// RGB builds a fully opaque color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xFF)
}

// RGBA builds a color from 8-bit channels.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

func (c Color) R() uint8 { return uint8(c >> 24) }
func (c Color) G() uint8 { return uint8(c >> 16) }
func (c Color) B() uint8 { return uint8(c >> 8) }
func (c Color) A() uint8 { return uint8(c) }

// WithAlpha returns c with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	return c&^0xFF | Color(a)
}

// Visible reports whether drawing c would have any effect.
func (c Color) Visible() bool { return c.A() != 0 }

// Floats returns the channels as premultiplied-free floats in [0, 1].
func (c Color) Floats() (r, g, b, a float32) {
	const s = 1.0 / 255.0
	return float32(c.R()) * s, float32(c.G()) * s, float32(c.B()) * s, float32(c.A()) * s
}

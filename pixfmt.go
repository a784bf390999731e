package ndlm

// BytesPerPixel is the fixed size of one pixel in every Surface.
const BytesPerPixel = 4

// ChannelOrder is the byte order of the four channels of a pixel in memory.
// The order is always explicit; it is never inferred from the host.
type ChannelOrder int

const (
	// OrderBGRA stores blue, green, red, alpha. This is the Linux
	// framebuffer XRGB8888 layout on little-endian machines and the default.
	OrderBGRA ChannelOrder = iota
	// OrderRGBA stores red, green, blue, alpha, matching image.RGBA.
	OrderRGBA
)

// String returns the order name.
func (o ChannelOrder) String() string {
	switch o {
	case OrderBGRA:
		return "BGRA"
	case OrderRGBA:
		return "RGBA"
	default:
		return "unknown"
	}
}

// encode writes c into p[0:4].
func (o ChannelOrder) encode(p []byte, c Color) {
	_ = p[3]
	if o == OrderRGBA {
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		return
	}
	p[0], p[1], p[2], p[3] = c.B, c.G, c.R, c.A
}

// decode reads a color from p[0:4].
func (o ChannelOrder) decode(p []byte) Color {
	_ = p[3]
	if o == OrderRGBA {
		return Color{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return Color{R: p[2], G: p[1], B: p[0], A: p[3]}
}

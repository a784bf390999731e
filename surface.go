package ndlm

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
)

// Surface is the single backing store every Viewport resolves against.
// It wraps a caller-owned byte region (device memory or a plain slice) of
// 4-byte pixels laid out in rows of Stride bytes.
//
// Surface is not safe for concurrent use.
type Surface struct {
	pix    []byte
	width  int
	height int
	stride int
	order  ChannelOrder
}

// SurfaceOption configures a Surface during creation.
type SurfaceOption func(*surfaceOptions)

type surfaceOptions struct {
	stride int
	order  ChannelOrder
}

// WithStride sets the distance in bytes between the starts of two rows.
// Devices often pad their lines; the default is width*4.
func WithStride(stride int) SurfaceOption {
	return func(o *surfaceOptions) {
		o.stride = stride
	}
}

// WithChannelOrder sets the byte order of the pixels. The default is OrderBGRA.
func WithChannelOrder(order ChannelOrder) SurfaceOption {
	return func(o *surfaceOptions) {
		o.order = order
	}
}

// NewSurface wraps pix as a width x height surface. The slice is not copied;
// the caller keeps ownership and must keep it alive while the surface is used.
func NewSurface(pix []byte, width, height int, opts ...SurfaceOption) (*Surface, error) {
	o := surfaceOptions{order: OrderBGRA}
	for _, opt := range opts {
		opt(&o)
	}
	stride, need, err := layout(width, height, o.stride)
	if err != nil {
		return nil, err
	}
	if len(pix) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortBuffer, len(pix), need)
	}
	return &Surface{
		pix:    pix,
		width:  width,
		height: height,
		stride: stride,
		order:  o.order,
	}, nil
}

// NewMemorySurface allocates a zeroed surface of the given size.
func NewMemorySurface(width, height int, opts ...SurfaceOption) (*Surface, error) {
	o := surfaceOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	_, need, err := layout(width, height, o.stride)
	if err != nil {
		return nil, err
	}
	return NewSurface(make([]byte, need), width, height, opts...)
}

// layout validates a geometry and returns the effective stride and the
// number of bytes it spans. A zero stride means width*BytesPerPixel.
// Geometries whose last byte offset does not fit in an int are rejected.
func layout(width, height, stride int) (int, int, error) {
	if width < 0 || height < 0 || width > math.MaxInt/BytesPerPixel {
		return 0, 0, fmt.Errorf("%w: %dx%d surface", ErrInvalidDimensions, width, height)
	}
	row := width * BytesPerPixel
	if stride == 0 {
		stride = row
	}
	if stride < row {
		return 0, 0, fmt.Errorf("%w: stride %d for width %d", ErrInvalidDimensions, stride, width)
	}
	if width == 0 || height == 0 {
		return stride, 0, nil
	}
	if height > 1 && stride > (math.MaxInt-row)/(height-1) {
		return 0, 0, fmt.Errorf("%w: %dx%d surface with stride %d overflows", ErrInvalidDimensions, width, height, stride)
	}
	return stride, stride*(height-1) + row, nil
}

// Width returns the width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the height in pixels.
func (s *Surface) Height() int { return s.height }

// Stride returns the row pitch in bytes.
func (s *Surface) Stride() int { return s.stride }

// Order returns the channel order of the pixels.
func (s *Surface) Order() ChannelOrder { return s.order }

// Data returns the backing bytes.
func (s *Surface) Data() []byte { return s.pix }

// Viewport returns a view covering the whole surface.
func (s *Surface) Viewport() Viewport {
	return Viewport{s: s, w: s.width, h: s.height}
}

// offset returns the byte index of an absolute pixel.
// Callers guarantee the coordinate is inside the surface.
func (s *Surface) offset(x, y int) int {
	return y*s.stride + x*BytesPerPixel
}

// WriteRaw writes the backing store verbatim, padding included.
func (s *Surface) WriteRaw(w io.Writer) error {
	_, err := w.Write(s.pix)
	return err
}

// SaveRaw persists the backing store to a flat raw-pixel file.
func (s *Surface) SaveRaw(path string) error {
	return os.WriteFile(path, s.pix, 0o644) //nolint:gosec // output file for offline inspection
}

// Image converts the surface to an image.RGBA.
func (s *Surface) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := s.order.decode(s.pix[s.offset(x, y):])
			i := img.PixOffset(x, y)
			// Device memory often leaves the alpha byte at zero; show it opaque.
			img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 0xff
		}
	}
	return img
}

// SavePNG saves the surface to a PNG file.
func (s *Surface) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, s.Image())
}

// At implements the image.Image interface.
func (s *Surface) At(x, y int) color.Color {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return Transparent
	}
	return s.order.decode(s.pix[s.offset(x, y):])
}

// Bounds implements the image.Image interface.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// ColorModel implements the image.Image interface.
func (s *Surface) ColorModel() color.Model {
	return color.NRGBAModel
}

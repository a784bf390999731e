package ndlm

import "image"

// Viewport is a bounds-checked rectangle of a Surface. It holds only
// coordinates; pixels are resolved against the surface on every access,
// so narrowing a view never copies data.
//
// Every local coordinate (x, y) with 0 <= x < Width() and 0 <= y < Height()
// maps to a pixel inside the surface. Viewports are cheap values and are
// meant to be created per drawing operation. Two views over overlapping
// regions must not be written from different goroutines.
type Viewport struct {
	s    *Surface
	x, y int
	w, h int
}

// Width returns the width of the view in pixels.
func (v Viewport) Width() int { return v.w }

// Height returns the height of the view in pixels.
func (v Viewport) Height() int { return v.h }

// Bounds returns the view's extent in local coordinates.
func (v Viewport) Bounds() image.Rectangle {
	return image.Rect(0, 0, v.w, v.h)
}

// Origin returns the absolute surface position of the view's (0, 0).
func (v Viewport) Origin() image.Point {
	return image.Pt(v.x, v.y)
}

// Surface returns the backing surface, or nil for the zero Viewport.
func (v Viewport) Surface() *Surface { return v.s }

func (v Viewport) contains(x, y int) bool {
	return v.s != nil && x >= 0 && y >= 0 && x < v.w && y < v.h
}

// Put writes c at local position (x, y). Coordinates outside the view
// return an *OutOfBoundsError and nothing is written.
func (v Viewport) Put(x, y int, c Color) error {
	if !v.contains(x, y) {
		return &OutOfBoundsError{Op: "put", X: x, Y: y, Width: v.w, Height: v.h}
	}
	i := v.s.offset(v.x+x, v.y+y)
	v.s.order.encode(v.s.pix[i:i+BytesPerPixel], c)
	return nil
}

// At reads the color at local position (x, y).
func (v Viewport) At(x, y int) (Color, error) {
	if !v.contains(x, y) {
		return Color{}, &OutOfBoundsError{Op: "at", X: x, Y: y, Width: v.w, Height: v.h}
	}
	i := v.s.offset(v.x+x, v.y+y)
	return v.s.order.decode(v.s.pix[i : i+BytesPerPixel]), nil
}

// Subdimensions returns the sub-view r of v. The child's (0, 0) is v's
// r.Min. It fails unless r lies entirely inside v.
func (v Viewport) Subdimensions(r image.Rectangle) (Viewport, error) {
	if v.s == nil || r.Min.X < 0 || r.Min.Y < 0 || r.Dx() < 0 || r.Dy() < 0 ||
		r.Max.X > v.w || r.Max.Y > v.h {
		return Viewport{}, &OutOfBoundsError{
			Op: "subdimensions", X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy(),
			Width: v.w, Height: v.h,
		}
	}
	return Viewport{
		s: v.s,
		x: v.x + r.Min.X,
		y: v.y + r.Min.Y,
		w: r.Dx(),
		h: r.Dy(),
	}, nil
}

// Offset returns v translated by (dx, dy), keeping the remaining extent.
// It is equivalent to Subdimensions(image.Rect(dx, dy, Width(), Height())).
func (v Viewport) Offset(dx, dy int) (Viewport, error) {
	if v.s == nil || dx < 0 || dy < 0 || dx > v.w || dy > v.h {
		return Viewport{}, &OutOfBoundsError{Op: "offset", X: dx, Y: dy, Width: v.w, Height: v.h}
	}
	return v.Subdimensions(image.Rect(dx, dy, v.w, v.h))
}

// Memset fills every pixel of the view with c.
func (v Viewport) Memset(c Color) {
	if v.s == nil || v.w == 0 || v.h == 0 {
		return
	}
	var px [BytesPerPixel]byte
	v.s.order.encode(px[:], c)
	for y := 0; y < v.h; y++ {
		row := v.s.pix[v.s.offset(v.x, v.y+y):v.s.offset(v.x+v.w, v.y+y)]
		for i := 0; i < len(row); i += BytesPerPixel {
			copy(row[i:i+BytesPerPixel], px[:])
		}
	}
}

package text

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ndlm/ndlm"
)

// CachedGlyph is a rasterized glyph. It never changes after creation.
type CachedGlyph struct {
	// Origin is the top-left of the pixel bounding box relative to the
	// pen position at (0, 0) with the baseline at the font ascent. It may
	// be negative, for instance for accents that rise above the ascent.
	Origin image.Point

	// Width and Height are the bounding box size in pixels. A glyph with
	// no outline has Height 0 and an advance-only Width.
	Width, Height int

	// Coverage holds Width*Height opacities in [0, 1], row by row.
	Coverage []float32
}

// rasterizeGlyph renders r with face, the pen at dot.
func rasterizeGlyph(face font.Face, dot fixed.Point26_6, size float64, r rune) *CachedGlyph {
	dr, mask, maskp, _, _ := face.Glyph(dot, r)
	if mask == nil || dr.Empty() {
		return &CachedGlyph{Width: int(size / 4)}
	}

	w, h := dr.Dx(), dr.Dy()
	g := &CachedGlyph{
		Origin:   dr.Min,
		Width:    w,
		Height:   h,
		Coverage: make([]float32, w*h),
	}
	// The face reuses its mask between calls, so copy it out now.
	switch m := mask.(type) {
	case *image.Alpha:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g.Coverage[y*w+x] = float32(m.AlphaAt(maskp.X+x, maskp.Y+y).A) / 0xff
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				_, _, _, a := m.At(maskp.X+x, maskp.Y+y).RGBA()
				g.Coverage[y*w+x] = float32(a) / 0xffff
			}
		}
	}
	return g
}

// draw composites g at pos. Every raster pixel is written as
// Blend(bg, fg, coverage); pixels outside v are dropped.
func (g *CachedGlyph) draw(v ndlm.Viewport, pos image.Point, bg, fg ndlm.Color) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := ndlm.Blend(bg, fg, float64(g.Coverage[y*g.Width+x]))
			_ = v.Put(pos.X+g.Origin.X+x, pos.Y+g.Origin.Y+y, c)
		}
	}
}

// advance is the cursor step after g: width plus horizontal bearing.
// This approximates the advance width; there is no kerning.
func (g *CachedGlyph) advance() int {
	return g.Width + g.Origin.X
}

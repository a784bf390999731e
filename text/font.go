package text

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ndlm/ndlm"
)

// Font is a Typeface at a fixed pixel size together with a cache of the
// glyphs rasterized so far. The cache only grows; it is filled by
// AddStrToCache and read by DrawText.
//
// Font is not safe for concurrent use.
type Font struct {
	tf     *Typeface
	size   float64
	face   font.Face
	ascent fixed.Int26_6
	glyphs map[rune]*CachedGlyph
}

// NewFont creates a font of tf at size pixels per em.
func NewFont(tf *Typeface, size float64) (*Font, error) {
	if tf == nil {
		return nil, ErrEmptyFontData
	}
	if !(size > 0) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	face, err := opentype.NewFace(tf.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("text: failed to create face: %w", err)
	}
	return &Font{
		tf:     tf,
		size:   size,
		face:   face,
		ascent: face.Metrics().Ascent,
		glyphs: make(map[rune]*CachedGlyph),
	}, nil
}

// Typeface returns the typeface the font was made from.
func (f *Font) Typeface() *Typeface { return f.tf }

// Size returns the pixel size.
func (f *Font) Size() float64 { return f.size }

// Len returns the number of cached glyphs.
func (f *Font) Len() int { return len(f.glyphs) }

// Glyph returns the cached glyph for r.
func (f *Font) Glyph(r rune) (*CachedGlyph, bool) {
	g, ok := f.glyphs[r]
	return g, ok
}

// AddStrToCache rasterizes every rune of s that is not cached yet.
// Calling it again with the same runes does nothing.
func (f *Font) AddStrToCache(s string) {
	dot := fixed.Point26_6{X: 0, Y: f.ascent}
	for _, r := range s {
		if _, ok := f.glyphs[r]; ok {
			continue
		}
		g := rasterizeGlyph(f.face, dot, f.size, r)
		f.glyphs[r] = g
		ndlm.Logger().Debug("glyph cached",
			"font", f.tf.Name(), "size", f.size, "rune", string(r),
			"w", g.Width, "h", g.Height, "cached", len(f.glyphs))
	}
}

// lookup returns the glyphs of s and the baseline offset, or the first
// rune missing from the cache.
func (f *Font) lookup(s string) ([]*CachedGlyph, int, error) {
	glyphs := make([]*CachedGlyph, 0, len(s))
	off := 0
	for _, r := range s {
		g, ok := f.glyphs[r]
		if !ok {
			return nil, 0, &GlyphNotCachedError{Rune: r}
		}
		glyphs = append(glyphs, g)
		if g.Origin.Y < off {
			off = g.Origin.Y
		}
	}
	return glyphs, off, nil
}

// Measure returns the size DrawText would report for s without drawing.
func (f *Font) Measure(s string) (width, height int, err error) {
	glyphs, _, err := f.lookup(s)
	if err != nil {
		return 0, 0, err
	}
	for _, g := range glyphs {
		width += g.advance()
	}
	return width, int(f.size), nil
}

// DrawText renders s left to right at the top-left of v and returns the
// horizontal advance and the font size. Every rune must have been cached
// with AddStrToCache; otherwise a *GlyphNotCachedError is returned and
// nothing is drawn.
//
// All glyphs share one baseline, shifted down by the highest glyph top
// above the ascent. Covered pixels are written as Blend(bg, fg, coverage):
// they are blended with bg, not with what v already holds, so text drawn
// over a non-uniform background shows bg-colored boxes.
func (f *Font) DrawText(v ndlm.Viewport, bg, fg ndlm.Color, s string) (width, height int, err error) {
	glyphs, off, err := f.lookup(s)
	if err != nil {
		return 0, 0, err
	}
	x := 0
	for _, g := range glyphs {
		g.draw(v, image.Pt(x, -off), bg, fg)
		x += g.advance()
	}
	return x, int(f.size), nil
}

// AutoDrawText caches s and draws it. It never fails with ErrGlyphNotCached.
func (f *Font) AutoDrawText(v ndlm.Viewport, bg, fg ndlm.Color, s string) (width, height int, err error) {
	f.AddStrToCache(s)
	return f.DrawText(v, bg, fg, s)
}

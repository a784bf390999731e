package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrGlyphNotCached is returned by DrawText and Measure when a rune
	// has not been added to the font's cache.
	ErrGlyphNotCached = errors.New("text: glyph not cached")

	// ErrUnknownFamily is returned when a family name matches neither an
	// embedded typeface nor a font file path.
	ErrUnknownFamily = errors.New("text: unknown font family")

	// ErrInvalidSize is returned for a non-positive or non-finite pixel size.
	ErrInvalidSize = errors.New("text: invalid font size")
)

// GlyphNotCachedError reports the first rune of a string that was not cached.
type GlyphNotCachedError struct {
	Rune rune
}

func (e *GlyphNotCachedError) Error() string {
	return fmt.Sprintf("text: glyph for %q not in cache", e.Rune)
}

// Unwrap makes errors.Is(err, ErrGlyphNotCached) hold.
func (e *GlyphNotCachedError) Unwrap() error { return ErrGlyphNotCached }

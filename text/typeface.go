package text

import (
	"fmt"
	"os"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Typeface is a parsed outline font. It is immutable after creation and is
// meant to be built once and shared by every Font made from it.
type Typeface struct {
	name string
	font *opentype.Font
}

// NewTypeface parses TTF or OTF data. The slice is retained and must not be
// modified afterwards.
func NewTypeface(data []byte) (*Typeface, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	return &Typeface{
		name: extractFontName(f),
		font: f,
	}, nil
}

// NewTypefaceFromFile loads a Typeface from a font file path.
func NewTypefaceFromFile(path string) (*Typeface, error) {
	// #nosec G304 -- Font file path comes from the configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font file: %w", err)
	}
	return NewTypeface(data)
}

// Name returns the font family name.
func (t *Typeface) Name() string {
	return t.name
}

// NumGlyphs returns the number of glyphs in the font.
func (t *Typeface) NumGlyphs() int {
	return t.font.NumGlyphs()
}

// extractFontName returns the family name, the full name, or a placeholder.
func extractFontName(f *opentype.Font) string {
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(nil, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return "Unknown Font"
}

package text

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Typefaces holds the two built-in typefaces: a monospace and a
// proportional family. Build it once with LoadTypefaces and pass it to
// whatever creates fonts.
type Typefaces struct {
	Mono         *Typeface
	Proportional *Typeface
}

// LoadTypefaces parses the embedded Go Mono and Go Regular fonts.
func LoadTypefaces() (*Typefaces, error) {
	mono, err := NewTypeface(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("text: embedded mono: %w", err)
	}
	prop, err := NewTypeface(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("text: embedded proportional: %w", err)
	}
	return &Typefaces{Mono: mono, Proportional: prop}, nil
}

// Resolve maps a family token to a typeface. "mono", "monospace" and the
// mono family name select Mono; "sans", "proportional" and the proportional
// family name select Proportional. Tokens that look like a path (containing
// a separator or ending in .ttf/.otf) are loaded from disk.
func (ts *Typefaces) Resolve(family string) (*Typeface, error) {
	key := strings.ToLower(strings.TrimSpace(family))
	switch {
	case key == "mono" || key == "monospace" || strings.EqualFold(key, ts.Mono.Name()):
		return ts.Mono, nil
	case key == "sans" || key == "proportional" || strings.EqualFold(key, ts.Proportional.Name()):
		return ts.Proportional, nil
	case strings.ContainsRune(family, filepath.Separator) || strings.ContainsRune(family, '/'),
		strings.HasSuffix(key, ".ttf"), strings.HasSuffix(key, ".otf"):
		return NewTypefaceFromFile(family)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
}

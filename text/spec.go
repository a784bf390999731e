package text

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/ndlm/ndlm"
)

// FontSpec is a parsed "<family-or-path> <pixel-size>" string.
type FontSpec struct {
	Family string
	Size   float64
}

// ParseFontSpec parses "<family-or-path> <pixel-size>". The family may
// contain spaces; the size is the last space-separated field.
func ParseFontSpec(s string) (FontSpec, error) {
	in := strings.TrimSpace(s)
	i := strings.LastIndexByte(in, ' ')
	if i < 0 {
		return FontSpec{}, &ndlm.ParseError{What: "font", Input: s, Err: errors.New("want \"<family> <size>\"")}
	}
	family := strings.TrimSpace(in[:i])
	if family == "" {
		return FontSpec{}, &ndlm.ParseError{What: "font", Input: s, Err: errors.New("missing family")}
	}
	size, err := strconv.ParseFloat(in[i+1:], 64)
	if err != nil {
		return FontSpec{}, &ndlm.ParseError{What: "font", Input: s, Err: err}
	}
	if !(size > 0) || math.IsInf(size, 0) {
		return FontSpec{}, &ndlm.ParseError{What: "font", Input: s, Err: ErrInvalidSize}
	}
	return FontSpec{Family: family, Size: size}, nil
}

// String formats the spec so that ParseFontSpec accepts it.
func (fs FontSpec) String() string {
	return fs.Family + " " + strconv.FormatFloat(fs.Size, 'g', -1, 64)
}

// MarshalText implements encoding.TextMarshaler.
func (fs FontSpec) MarshalText() ([]byte, error) {
	return []byte(fs.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseFontSpec.
func (fs *FontSpec) UnmarshalText(b []byte) error {
	v, err := ParseFontSpec(string(b))
	if err != nil {
		return err
	}
	*fs = v
	return nil
}

// Open resolves the family against ts and creates the font.
func (fs FontSpec) Open(ts *Typefaces) (*Font, error) {
	tf, err := ts.Resolve(fs.Family)
	if err != nil {
		return nil, err
	}
	return NewFont(tf, fs.Size)
}

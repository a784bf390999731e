package ndlm

import (
	"errors"
	"fmt"
)

// Sentinel errors for the rendering core.
var (
	// ErrOutOfBounds is returned when a pixel coordinate or a viewport
	// geometry falls outside its parent's extent.
	ErrOutOfBounds = errors.New("ndlm: out of bounds")

	// ErrInvalidDimensions is returned for shapes with a zero or negative side.
	ErrInvalidDimensions = errors.New("ndlm: invalid dimensions")

	// ErrParse is returned when a configuration string is malformed.
	ErrParse = errors.New("ndlm: parse error")

	// ErrShortBuffer is returned when a pixel store is too small for the
	// geometry it is supposed to hold.
	ErrShortBuffer = errors.New("ndlm: pixel buffer too small")
)

// OutOfBoundsError describes a rejected coordinate or geometry.
// The extent is the one of the view the request was checked against.
type OutOfBoundsError struct {
	Op     string
	X, Y   int
	W, H   int
	Width  int
	Height int
}

func (e *OutOfBoundsError) Error() string {
	if e.W == 0 && e.H == 0 {
		return fmt.Sprintf("ndlm: %s (%d,%d) outside %dx%d view", e.Op, e.X, e.Y, e.Width, e.Height)
	}
	return fmt.Sprintf("ndlm: %s %dx%d+%d+%d outside %dx%d view",
		e.Op, e.W, e.H, e.X, e.Y, e.Width, e.Height)
}

// Unwrap makes errors.Is(err, ErrOutOfBounds) hold.
func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

// ParseError is returned by the configuration-string parsers
// (colors, font specifications).
type ParseError struct {
	// What names the kind of value being parsed, e.g. "color".
	What  string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ndlm: invalid %s %q: %v", e.What, e.Input, e.Err)
	}
	return fmt.Sprintf("ndlm: invalid %s %q", e.What, e.Input)
}

// Unwrap returns ErrParse and the underlying cause, if any.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}

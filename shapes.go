package ndlm

import (
	"fmt"
	"math"
)

// DrawBox draws the 1-pixel outline of a w x h rectangle whose top-left
// corner is the view's origin. Both sides must be positive and the box must
// fit in the view; both are checked before anything is written.
func DrawBox(v Viewport, c Color, w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: box %dx%d", ErrInvalidDimensions, w, h)
	}
	if v.s == nil || w > v.w || h > v.h {
		return &OutOfBoundsError{Op: "box", W: w, H: h, Width: v.w, Height: v.h}
	}
	for x := 0; x < w; x++ {
		_ = v.Put(x, 0, c)
		_ = v.Put(x, h-1, c)
	}
	for y := 0; y < h; y++ {
		_ = v.Put(0, y, c)
		_ = v.Put(w-1, y, c)
	}
	return nil
}

// DrawLine draws a line from (x0, y0) to (x1, y1) inclusive using integer
// Bresenham. Pixels outside the view are skipped.
func DrawLine(v Viewport, c Color, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		_ = v.Put(x, y, c)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// DrawCircle samples a circle of radius r around (cx, cy) at one-degree
// steps. It is a marker, not a scan-converted circle: small radii leave gaps
// and large ones hit some pixels twice.
func DrawCircle(v Viewport, c Color, cx, cy, r int) {
	for a := 0; a < 360; a++ {
		rad := float64(a) * math.Pi / 180
		x := cx + int(float64(r)*math.Cos(rad))
		y := cy - int(float64(r)*math.Sin(rad))
		_ = v.Put(x, y, c)
	}
}

// DrawPoint fills a disc of radius r around (cx, cy).
func DrawPoint(v Viewport, c Color, cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				_ = v.Put(cx+dx, cy+dy, c)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

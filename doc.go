// Package ndlm is the pixel and text core of a framebuffer login prompt.
//
// # Overview
//
// Everything is drawn on the CPU straight into a linear pixel store: device
// memory from a Linux framebuffer, or a plain byte slice for offline
// rendering. There is no windowing system and no toolkit.
//
//	surf, _ := ndlm.NewMemorySurface(640, 480)
//	v := surf.Viewport()
//	v.Memset(ndlm.Black)
//
//	box, _ := v.Subdimensions(image.Rect(20, 20, 620, 200))
//	_ = ndlm.DrawBox(box, ndlm.Gray, box.Width(), box.Height())
//
//	_ = surf.SavePNG("frame.png")
//
// Text is rendered by the text sub-package, which caches rasterized glyphs
// per font size and composites them onto a Viewport.
//
// # Memory layout
//
// Pixels are always 4 bytes. The byte order is explicit ([ChannelOrder]) and
// defaults to BGRA, the XRGB8888 layout Linux framebuffers use. Rows may be
// padded; see [WithStride].
//
// # Viewports
//
// A [Surface] is the one backing store. A [Viewport] is only a rectangle of
// it: Subdimensions and Offset return narrower views without copying, and
// every Put is checked against the view, so no view can reach pixels outside
// the rectangle it was given.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left of the view
//   - X increases right
//   - Y increases down
//
// # Concurrency
//
// The core is single-threaded. Surfaces, viewports and fonts must not be
// used from more than one goroutine at a time.
package ndlm

// Version is the current version of the module.
const Version = "0.1.0"

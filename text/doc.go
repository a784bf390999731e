// Package text rasterizes and caches glyphs and draws them onto an
// ndlm.Viewport.
//
// The pipeline has three parts:
//
//   - Typeface: a parsed outline font, shared and immutable
//   - Font: a Typeface at one pixel size plus its glyph cache
//   - DrawText: composites cached glyphs on a common baseline
//
// Drawing never rasterizes. Callers fill the cache first with
// AddStrToCache, or use AutoDrawText which does both:
//
//	faces, err := text.LoadTypefaces()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	f, err := text.NewFont(faces.Mono, 32)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	f.AddStrToCache("0123456789")
//	w, h, err := f.DrawText(v, ndlm.Black, ndlm.White, "42")
//
// Glyphs are rasterized with golang.org/x/image/font/opentype. The two
// built-in typefaces are Go Mono and Go Regular from
// golang.org/x/image/font/gofont.
package text

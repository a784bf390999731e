package ndlm_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/ndlm/ndlm"
	"github.com/ndlm/ndlm/text"
)

// captureLogs installs a debug-level text logger for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := ndlm.Logger()
	t.Cleanup(func() { ndlm.SetLogger(orig) })

	var buf bytes.Buffer
	ndlm.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func monoFont(t *testing.T) *text.Font {
	t.Helper()
	ts, err := text.LoadTypefaces()
	if err != nil {
		t.Fatalf("LoadTypefaces: %v", err)
	}
	f, err := text.NewFont(ts.Mono, 16)
	if err != nil {
		t.Fatalf("NewFont: %v", err)
	}
	return f
}

func TestLoggerSilentByDefault(t *testing.T) {
	l := ndlm.Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger enabled for %v", level)
		}
	}
}

func TestGlyphCacheLogging(t *testing.T) {
	buf := captureLogs(t)
	f := monoFont(t)

	f.AddStrToCache("ab")
	out := buf.String()
	if n := strings.Count(out, "glyph cached"); n != 2 {
		t.Fatalf("glyph cached records = %d, want 2; log:\n%s", n, out)
	}
	for _, want := range []string{"rune=a", "rune=b", "size=16", "cached=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}

	// Warm runes are not rasterized again, so nothing more is logged.
	before := buf.Len()
	f.AddStrToCache("ba")
	if buf.Len() != before {
		t.Errorf("cached runes logged again:\n%s", buf.String()[before:])
	}
}

func TestSetLoggerNilSilencesLibrary(t *testing.T) {
	buf := captureLogs(t)
	f := monoFont(t)

	ndlm.SetLogger(nil)
	f.AddStrToCache("xyz")
	if buf.Len() != 0 {
		t.Errorf("records written after SetLogger(nil):\n%s", buf.String())
	}
	if ndlm.Logger() == nil {
		t.Fatal("SetLogger(nil) left a nil logger")
	}
}

func TestLoggerConcurrentSwap(t *testing.T) {
	orig := ndlm.Logger()
	t.Cleanup(func() { ndlm.SetLogger(orig) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ndlm.Logger().Debug("frame presented")
		}()
		go func() {
			defer wg.Done()
			ndlm.SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
			ndlm.SetLogger(nil)
		}()
	}
	wg.Wait()
}

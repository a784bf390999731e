package greeter

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ndlm/ndlm"
	"github.com/ndlm/ndlm/internal/config"
	"github.com/ndlm/ndlm/text"
)

type login struct {
	user, pass string
	cmd        []string
}

type fakeAuth struct {
	err     error
	logins  []login
	cancels int
	onLogin func()
}

func (a *fakeAuth) Login(_ context.Context, user, pass string, cmd []string) error {
	a.logins = append(a.logins, login{user, pass, cmd})
	if a.onLogin != nil {
		a.onLogin()
	}
	return a.err
}

func (a *fakeAuth) Cancel(context.Context) error {
	a.cancels++
	return nil
}

// Surface 480x200 with a 400x100 dialog: the dialog sits at (40, 50).
const (
	dialogX = 40
	dialogY = 50
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Session = []string{"/bin/true"}
	cfg.LastUserFile = filepath.Join(t.TempDir(), "state", "lastuser")
	cfg.Theme.Font = text.FontSpec{Family: "mono", Size: 16}
	cfg.Theme.HeadlineFont = text.FontSpec{Family: "sans", Size: 20}
	cfg.Theme.DialogWidth = 400
	cfg.Theme.DialogHeight = 100
	return cfg
}

func newTestGreeter(t *testing.T, cfg config.Config, w, h int, auth Authenticator, opts ...Option) (*Greeter, *ndlm.Surface) {
	t.Helper()
	ts, err := text.LoadTypefaces()
	if err != nil {
		t.Fatalf("LoadTypefaces: %v", err)
	}
	s, err := ndlm.NewMemorySurface(w, h)
	if err != nil {
		t.Fatalf("NewMemorySurface: %v", err)
	}
	opts = append([]Option{WithHostname("test")}, opts...)
	g, err := New(s, cfg, ts, auth, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, s
}

func typeString(t *testing.T, g *Greeter, s string) {
	t.Helper()
	for _, r := range s {
		if out, err := g.HandleKey(context.Background(), r); err != nil || out != OutcomeContinue {
			t.Fatalf("HandleKey(%q) = %v, %v", r, out, err)
		}
	}
}

func pixel(t *testing.T, s *ndlm.Surface, x, y int) ndlm.Color {
	t.Helper()
	c, err := s.Viewport().At(x, y)
	if err != nil {
		t.Fatalf("At(%d, %d): %v", x, y, err)
	}
	return c
}

func TestLoginSuccess(t *testing.T) {
	cfg := testConfig(t)
	auth := &fakeAuth{}
	g, _ := newTestGreeter(t, cfg, 480, 200, auth)

	typeString(t, g, "bob\rhunter2")
	if g.Mode() != EditingPassword {
		t.Fatalf("mode = %v, want password", g.Mode())
	}
	out, err := g.HandleKey(context.Background(), '\r')
	if err != nil || out != OutcomeLoggedIn {
		t.Fatalf("enter = %v, %v; want logged in", out, err)
	}
	if len(auth.logins) != 1 {
		t.Fatalf("logins = %d, want 1", len(auth.logins))
	}
	got := auth.logins[0]
	if got.user != "bob" || got.pass != "hunter2" || len(got.cmd) != 1 || got.cmd[0] != "/bin/true" {
		t.Errorf("login = %+v", got)
	}

	data, err := os.ReadFile(cfg.LastUserFile)
	if err != nil {
		t.Fatalf("last user not written: %v", err)
	}
	if string(data) != "bob" {
		t.Errorf("last user = %q, want bob", data)
	}
}

func TestEnterRules(t *testing.T) {
	auth := &fakeAuth{}
	g, _ := newTestGreeter(t, testConfig(t), 480, 200, auth)
	ctx := context.Background()

	// Enter on an empty username does nothing.
	if _, err := g.HandleKey(ctx, '\r'); err != nil {
		t.Fatal(err)
	}
	if g.Mode() != EditingUsername {
		t.Errorf("mode = %v after empty enter, want username", g.Mode())
	}

	// Enter on an empty password goes back and clears the username.
	typeString(t, g, "alice\r")
	if g.Mode() != EditingPassword {
		t.Fatalf("mode = %v, want password", g.Mode())
	}
	typeString(t, g, "\r")
	if g.Mode() != EditingUsername || g.Username() != "" {
		t.Errorf("after empty password: mode %v, username %q", g.Mode(), g.Username())
	}
	if len(auth.logins) != 0 {
		t.Errorf("logins = %d, want 0", len(auth.logins))
	}
}

func TestEditing(t *testing.T) {
	g, _ := newTestGreeter(t, testConfig(t), 480, 200, &fakeAuth{})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "abc", "abc"},
		{"backspace", "abc\x7f", "ab"},
		{"ctrl-h", "abc\x08\x08", "a"},
		{"backspace multibyte", "a\u00e9\x7f", "a"},
		{"backspace empty", "\x7f", ""},
		{"ctrl-u", "abc\x15x", "x"},
		{"ctrl-k", "abc\x0b", ""},
		{"control ignored", "a\x1bb", "ab"},
		{"combining composed", "e\u0301", "\u00e9"},
		{"capped", strings.Repeat("x", 70), strings.Repeat("x", 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typeString(t, g, "\x15")
			typeString(t, g, tt.input)
			if g.Username() != tt.want {
				t.Errorf("username = %q, want %q", g.Username(), tt.want)
			}
		})
	}
}

func TestTabKeepsFields(t *testing.T) {
	auth := &fakeAuth{}
	g, _ := newTestGreeter(t, testConfig(t), 480, 200, auth)

	typeString(t, g, "dave\tpw\t")
	if g.Mode() != EditingUsername || g.Username() != "dave" {
		t.Fatalf("mode %v, username %q", g.Mode(), g.Username())
	}
	typeString(t, g, "\t")
	if out, err := g.HandleKey(context.Background(), '\r'); err != nil || out != OutcomeLoggedIn {
		t.Fatalf("enter = %v, %v", out, err)
	}
	if auth.logins[0].pass != "pw" {
		t.Errorf("password = %q, want pw", auth.logins[0].pass)
	}
}

func TestLoginFailure(t *testing.T) {
	cfg := testConfig(t)
	auth := &fakeAuth{err: errors.New("denied")}
	g, s := newTestGreeter(t, cfg, 480, 200, auth)

	var pending ndlm.Color
	auth.onLogin = func() { pending = pixel(t, s, dialogX, dialogY) }

	typeString(t, g, "eve\rwrong\r")
	if pending != cfg.Theme.Pending {
		t.Errorf("box during login = %v, want %v", pending, cfg.Theme.Pending)
	}
	if g.Mode() != EditingUsername || g.Username() != "" {
		t.Errorf("after failure: mode %v, username %q", g.Mode(), g.Username())
	}
	if auth.cancels != 1 {
		t.Errorf("cancels = %d, want 1", auth.cancels)
	}
	if _, err := os.Stat(cfg.LastUserFile); !os.IsNotExist(err) {
		t.Errorf("last user written after failure: %v", err)
	}

	if err := g.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if c := pixel(t, s, dialogX, dialogY); c != cfg.Theme.Failure {
		t.Errorf("box after failure = %v, want %v", c, cfg.Theme.Failure)
	}

	// The failure color lasts until the next key.
	typeString(t, g, "e")
	if err := g.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if c := pixel(t, s, dialogX, dialogY); c != cfg.Theme.Box {
		t.Errorf("box after key = %v, want %v", c, cfg.Theme.Box)
	}
}

func TestCancelKeys(t *testing.T) {
	for _, r := range []rune{0x03, 0x04} {
		auth := &fakeAuth{}
		g, _ := newTestGreeter(t, testConfig(t), 480, 200, auth)
		typeString(t, g, "x")
		out, err := g.HandleKey(context.Background(), r)
		if err != nil || out != OutcomeCancelled {
			t.Errorf("key %#x = %v, %v; want cancelled", r, out, err)
		}
		if auth.cancels != 1 {
			t.Errorf("key %#x: cancels = %d, want 1", r, auth.cancels)
		}
	}
}

func TestLastUserPreload(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(filepath.Dir(cfg.LastUserFile), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.LastUserFile, []byte("carol\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	g, _ := newTestGreeter(t, cfg, 480, 200, &fakeAuth{})
	if g.Mode() != EditingPassword || g.Username() != "carol" {
		t.Errorf("mode %v, username %q; want password, carol", g.Mode(), g.Username())
	}
}

func TestRun(t *testing.T) {
	auth := &fakeAuth{}
	presents := 0
	g, _ := newTestGreeter(t, testConfig(t), 480, 200, auth,
		WithPresenter(PresenterFunc(func() error { presents++; return nil })))

	out, err := g.Run(context.Background(), strings.NewReader("alice\rsecret\r"))
	if err != nil || out != OutcomeLoggedIn {
		t.Fatalf("Run = %v, %v; want logged in", out, err)
	}
	if len(auth.logins) != 1 || auth.logins[0].user != "alice" || auth.logins[0].pass != "secret" {
		t.Errorf("logins = %+v", auth.logins)
	}
	// Initial frame, one per continuing key, one pending frame.
	if want := 1 + len("alice\rsecret") + 1; presents != want {
		t.Errorf("presents = %d, want %d", presents, want)
	}
}

func TestRunEOF(t *testing.T) {
	auth := &fakeAuth{}
	g, _ := newTestGreeter(t, testConfig(t), 480, 200, auth)
	out, err := g.Run(context.Background(), strings.NewReader("bob"))
	if err != nil || out != OutcomeCancelled {
		t.Fatalf("Run = %v, %v; want cancelled", out, err)
	}
	if auth.cancels != 1 {
		t.Errorf("cancels = %d, want 1", auth.cancels)
	}
}

func TestRunContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, _ := newTestGreeter(t, testConfig(t), 480, 200, &fakeAuth{})
	if _, err := g.Run(ctx, strings.NewReader("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}

func TestPasswordNotRendered(t *testing.T) {
	frame := func(pass string) []byte {
		g, s := newTestGreeter(t, testConfig(t), 480, 200, &fakeAuth{})
		typeString(t, g, "u\r"+pass)
		if err := g.Draw(); err != nil {
			t.Fatalf("Draw: %v", err)
		}
		return bytes.Clone(s.Data())
	}
	a, b := frame("abc"), frame("xyz")
	if !bytes.Equal(a, b) {
		t.Error("frames differ for passwords of equal length")
	}
	if bytes.Equal(a, frame("abcd")) {
		t.Error("frames equal for passwords of different length")
	}
}

func TestDrawFrame(t *testing.T) {
	cfg := testConfig(t)
	g, s := newTestGreeter(t, cfg, 480, 200, &fakeAuth{})
	if err := g.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	corners := [][2]int{
		{dialogX, dialogY},
		{dialogX + 399, dialogY},
		{dialogX, dialogY + 99},
		{dialogX + 399, dialogY + 99},
	}
	for _, p := range corners {
		if c := pixel(t, s, p[0], p[1]); c != cfg.Theme.Box {
			t.Errorf("corner %v = %v, want %v", p, c, cfg.Theme.Box)
		}
	}
	if c := pixel(t, s, 0, 0); c != cfg.Theme.Background {
		t.Errorf("outside dialog = %v, want background", c)
	}

	// The active line carries its marker and the headline is drawn above.
	var active, headline bool
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			c := pixel(t, s, x, y)
			if c == cfg.Theme.Active {
				active = true
			}
			if y < dialogY && c != cfg.Theme.Background && c != cfg.Theme.Box {
				headline = true
			}
		}
	}
	if !active {
		t.Error("no active-colored pixel drawn")
	}
	if !headline {
		t.Error("no headline pixel drawn above the dialog")
	}

	// "Login" sits in the dialog's left column, before the prompt marker.
	tw, th, err := g.headline.Measure(title)
	if err != nil {
		t.Fatalf("Measure(%q): %v", title, err)
	}
	var titled bool
	for y := dialogY + 8; y < dialogY+8+th; y++ {
		for x := dialogX + 8; x < dialogX+8+tw; x++ {
			if pixel(t, s, x, y) != cfg.Theme.Background {
				titled = true
			}
		}
	}
	if !titled {
		t.Errorf("no %q title drawn inside the dialog", title)
	}
}

func TestDrawFailureClearsFrame(t *testing.T) {
	orig := ndlm.Logger()
	t.Cleanup(func() { ndlm.SetLogger(orig) })
	var buf bytes.Buffer
	ndlm.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg := testConfig(t)
	cfg.Theme.DialogWidth = 0
	presents := 0
	g, s := newTestGreeter(t, cfg, 64, 32, &fakeAuth{},
		WithPresenter(PresenterFunc(func() error { presents++; return nil })))
	s.Viewport().Memset(ndlm.Red)

	if _, err := g.Run(context.Background(), strings.NewReader("")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(buf.String(), "draw failed, frame cleared") {
		t.Errorf("missing draw failure warning, log: %s", buf.String())
	}
	if presents != 1 {
		t.Errorf("presents = %d, want 1", presents)
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := pixel(t, s, x, y); c != cfg.Theme.Background {
				t.Fatalf("pixel (%d, %d) = %v after failed draw, want background", x, y, c)
			}
		}
	}
}

func TestDrawSmallSurface(t *testing.T) {
	cfg := testConfig(t)
	g, s := newTestGreeter(t, cfg, 20, 10, &fakeAuth{})
	if err := g.Draw(); err != nil {
		t.Fatalf("Draw on small surface: %v", err)
	}
	if c := pixel(t, s, 0, 0); c != cfg.Theme.Box {
		t.Errorf("dialog clamped to screen: corner = %v, want box", c)
	}
}

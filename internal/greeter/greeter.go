// Package greeter implements the keyboard-driven login prompt drawn with
// the ndlm core.
package greeter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/ndlm/ndlm"
	"github.com/ndlm/ndlm/internal/config"
	"github.com/ndlm/ndlm/text"
)

// maxFieldRunes caps the username and password length.
const maxFieldRunes = 64

// title is drawn with the headline font inside the dialog.
const title = "Login"

// Control characters read from a raw terminal.
const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyCtrlH     = 0x08
	keyTab       = '\t'
	keyLineFeed  = '\n'
	keyCtrlK     = 0x0B
	keyEnter     = '\r'
	keyCtrlU     = 0x15
	keyBackspace = 0x7F
)

// Mode is the field being edited.
type Mode int

const (
	EditingUsername Mode = iota
	EditingPassword
)

func (m Mode) String() string {
	if m == EditingPassword {
		return "password"
	}
	return "username"
}

// Outcome is the result of handling one key.
type Outcome int

const (
	// OutcomeContinue means the prompt keeps running.
	OutcomeContinue Outcome = iota
	// OutcomeLoggedIn means the session was started.
	OutcomeLoggedIn
	// OutcomeCancelled means the user gave up (Ctrl-C, Ctrl-D, end of input).
	OutcomeCancelled
)

// Authenticator starts sessions. *greetd.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, username, password string, cmd []string) error
	Cancel(ctx context.Context) error
}

// Presenter makes a finished frame visible.
type Presenter interface {
	Present() error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func() error

// Present calls f.
func (f PresenterFunc) Present() error { return f() }

type boxState int

const (
	boxIdle boxState = iota
	boxPending
	boxFailed
)

// Option configures a Greeter during creation.
type Option func(*Greeter)

// WithPresenter sets what is called after each frame.
func WithPresenter(p Presenter) Option {
	return func(g *Greeter) {
		g.presenter = p
	}
}

// WithHostname overrides the hostname shown in the headline.
func WithHostname(name string) Option {
	return func(g *Greeter) {
		g.hostname = name
	}
}

// Greeter is the login prompt state machine and its renderer.
// It is not safe for concurrent use.
type Greeter struct {
	surface   *ndlm.Surface
	theme     config.Theme
	session   []string
	lastUser  string
	auth      Authenticator
	presenter Presenter
	hostname  string

	prompt   *text.Font
	headline *text.Font

	mode     Mode
	username string
	password string
	box      boxState
}

// New creates a greeter drawing on surface. Fonts are resolved against ts.
// When cfg names a last-user file that holds a name, the prompt starts in
// password mode with that name filled in.
func New(surface *ndlm.Surface, cfg config.Config, ts *text.Typefaces, auth Authenticator, opts ...Option) (*Greeter, error) {
	prompt, err := cfg.Theme.Font.Open(ts)
	if err != nil {
		return nil, fmt.Errorf("greeter: prompt font: %w", err)
	}
	headline, err := cfg.Theme.HeadlineFont.Open(ts)
	if err != nil {
		return nil, fmt.Errorf("greeter: headline font: %w", err)
	}
	g := &Greeter{
		surface:   surface,
		theme:     cfg.Theme,
		session:   cfg.Session,
		lastUser:  cfg.LastUserFile,
		auth:      auth,
		presenter: PresenterFunc(func() error { return nil }),
		prompt:    prompt,
		headline:  headline,
	}
	if host, err := os.Hostname(); err == nil {
		g.hostname = host
	}
	for _, opt := range opts {
		opt(g)
	}

	// Field labels never change; warm the cache once.
	g.prompt.AddStrToCache("Username: Password: *")
	g.headline.AddStrToCache(title)

	if name := g.readLastUser(); name != "" {
		g.username = name
		g.mode = EditingPassword
	}
	return g, nil
}

// Mode returns the field being edited.
func (g *Greeter) Mode() Mode { return g.mode }

// Username returns the username typed so far.
func (g *Greeter) Username() string { return g.username }

// Run draws the prompt and handles input from in until the user logs in or
// cancels. End of input counts as cancellation.
func (g *Greeter) Run(ctx context.Context, in io.Reader) (Outcome, error) {
	g.render()
	rd := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return OutcomeCancelled, err
		}
		r, _, err := rd.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				g.cancel(ctx)
				return OutcomeCancelled, nil
			}
			return OutcomeCancelled, fmt.Errorf("greeter: read input: %w", err)
		}
		out, err := g.HandleKey(ctx, r)
		if err != nil || out != OutcomeContinue {
			return out, err
		}
		g.render()
	}
}

// HandleKey applies one key press.
func (g *Greeter) HandleKey(ctx context.Context, r rune) (Outcome, error) {
	g.box = boxIdle

	switch r {
	case keyCtrlU, keyCtrlK:
		g.setField("")
	case keyCtrlC, keyCtrlD:
		g.username, g.password = "", ""
		g.cancel(ctx)
		return OutcomeCancelled, nil
	case keyBackspace, keyCtrlH:
		f := g.field()
		_, size := utf8.DecodeLastRuneInString(f)
		g.setField(f[:len(f)-size])
	case keyTab:
		g.toggleMode()
	case keyEnter, keyLineFeed:
		return g.enter(ctx)
	default:
		if !unicode.IsPrint(r) || utf8.RuneCountInString(g.field()) >= maxFieldRunes {
			return OutcomeContinue, nil
		}
		// Without shaping a combining mark cannot be drawn over its base,
		// so compose it into a single rune first.
		g.setField(norm.NFC.String(g.field() + string(r)))
	}
	return OutcomeContinue, nil
}

func (g *Greeter) enter(ctx context.Context) (Outcome, error) {
	if g.mode == EditingUsername {
		if g.username != "" {
			g.mode = EditingPassword
		}
		return OutcomeContinue, nil
	}
	if g.password == "" {
		g.username = ""
		g.mode = EditingUsername
		return OutcomeContinue, nil
	}

	g.box = boxPending
	g.render()

	username, password := g.username, g.password
	err := g.auth.Login(ctx, username, password, g.session)
	g.password = ""
	if err == nil {
		ndlm.Logger().Info("session started", "user", username)
		g.writeLastUser(username)
		return OutcomeLoggedIn, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return OutcomeCancelled, ctxErr
	}

	ndlm.Logger().Warn("login failed", "user", username, "err", err)
	g.username = ""
	g.mode = EditingUsername
	g.cancel(ctx)
	g.box = boxFailed
	return OutcomeContinue, nil
}

func (g *Greeter) cancel(ctx context.Context) {
	if err := g.auth.Cancel(ctx); err != nil {
		ndlm.Logger().Debug("cancel session", "err", err)
	}
}

func (g *Greeter) toggleMode() {
	if g.mode == EditingUsername {
		g.mode = EditingPassword
	} else {
		g.mode = EditingUsername
	}
}

func (g *Greeter) field() string {
	if g.mode == EditingPassword {
		return g.password
	}
	return g.username
}

func (g *Greeter) setField(s string) {
	if g.mode == EditingPassword {
		g.password = s
	} else {
		g.username = s
	}
}

func (g *Greeter) readLastUser() string {
	if g.lastUser == "" {
		return ""
	}
	data, err := os.ReadFile(g.lastUser)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (g *Greeter) writeLastUser(name string) {
	if g.lastUser == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(g.lastUser), 0o755); err != nil {
		ndlm.Logger().Warn("remember last user", "err", err)
		return
	}
	if err := os.WriteFile(g.lastUser, []byte(name), 0o644); err != nil { //nolint:gosec // not secret
		ndlm.Logger().Warn("remember last user", "err", err)
	}
}

// render draws a frame and presents it. A frame that fails to draw is
// replaced by a blank background so no half-drawn prompt stays on screen.
func (g *Greeter) render() {
	if err := g.Draw(); err != nil {
		ndlm.Logger().Warn("draw failed, frame cleared", "err", err)
		g.surface.Viewport().Memset(g.theme.Background)
	}
	if err := g.presenter.Present(); err != nil {
		ndlm.Logger().Warn("present failed", "err", err)
	}
}

// Draw renders the current state onto the whole surface.
func (g *Greeter) Draw() error {
	th := g.theme
	screen := g.surface.Viewport()
	screen.Memset(th.Background)
	sw, sh := screen.Width(), screen.Height()

	w, h := min(th.DialogWidth, sw), min(th.DialogHeight, sh)
	x0 := clamp(int(float64(sw)*th.DialogHorizontalAlignment)-w/2, 0, sw-w)
	y0 := clamp(int(float64(sh)*th.DialogVerticalAlignment)-h/2, 0, sh-h)
	dialog, err := screen.Subdimensions(image.Rect(x0, y0, x0+w, y0+h))
	if err != nil {
		return err
	}
	if err := ndlm.DrawBox(dialog, g.boxColor(), w, h); err != nil {
		return err
	}

	if err := g.drawHeadline(screen, y0); err != nil {
		return err
	}

	lineH := int(g.prompt.Size())
	pad := max(lineH/2, 4)
	marker := max(lineH/6, 1)
	inner := image.Rect(1, 1, w-1, h-1)

	// The title takes the left column; the prompts start to its right.
	titleW, titleH, err := g.headline.Measure(title)
	if err != nil {
		return err
	}
	titleArea := image.Rectangle{Min: image.Pt(pad, pad), Max: image.Pt(pad+titleW, pad+titleH)}.Intersect(inner)
	if !titleArea.Empty() {
		tv, err := dialog.Subdimensions(titleArea)
		if err != nil {
			return err
		}
		if _, _, err := g.headline.DrawText(tv, th.Background, th.Foreground, title); err != nil {
			return err
		}
	}
	col := pad + titleW + pad

	stars := strings.Repeat("*", utf8.RuneCountInString(g.password))
	lines := []struct {
		mode  Mode
		label string
	}{
		{EditingUsername, "Username: " + g.username},
		{EditingPassword, "Password: " + stars},
	}
	for i, l := range lines {
		ly := pad + i*(lineH+pad/2)
		tx := col + 4*marker
		// Not image.Rect: it would swap the corners of a too-narrow dialog.
		area := image.Rectangle{Min: image.Pt(tx, ly), Max: image.Pt(w-pad, ly+lineH)}.Intersect(inner)
		if area.Empty() {
			continue
		}
		field, err := dialog.Subdimensions(area)
		if err != nil {
			return err
		}
		field.Memset(th.Background)

		fg := th.Foreground
		if l.mode == g.mode {
			fg = th.Active
			mx, my := col+marker, ly+lineH/2
			ndlm.DrawPoint(dialog, fg, mx, my, marker)
			ndlm.DrawCircle(dialog, fg, mx, my, marker+2)
		}
		if _, _, err := g.prompt.AutoDrawText(field, th.Background, fg, l.label); err != nil {
			return err
		}
	}
	return nil
}

// drawHeadline centers "Welcome to <host>" above the dialog, underlined,
// when there is room for it.
func (g *Greeter) drawHeadline(screen ndlm.Viewport, dialogTop int) error {
	if g.hostname == "" {
		return nil
	}
	s := "Welcome to " + g.hostname
	g.headline.AddStrToCache(s)
	tw, th, err := g.headline.Measure(s)
	if err != nil {
		return err
	}
	top := dialogTop - th - th/4
	if top < 0 || tw > screen.Width() {
		return nil
	}
	x := (screen.Width() - tw) / 2
	area, err := screen.Subdimensions(image.Rect(x, top, x+tw, top+th))
	if err != nil {
		return err
	}
	if _, _, err := g.headline.DrawText(area, g.theme.Background, g.theme.Foreground, s); err != nil {
		return err
	}
	ly := top + th + 2
	ndlm.DrawLine(screen, g.theme.Box, x, ly, x+tw-1, ly)
	return nil
}

func (g *Greeter) boxColor() ndlm.Color {
	switch g.box {
	case boxPending:
		return g.theme.Pending
	case boxFailed:
		return g.theme.Failure
	default:
		return g.theme.Box
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

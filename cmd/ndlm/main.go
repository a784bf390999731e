// Command ndlm is a framebuffer login prompt for greetd.
//
// Usage:
//
//	ndlm [flags] [session command...]
//
// With -raw or -png it renders into memory and writes every frame to the
// given file instead of opening a framebuffer device.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/ndlm/ndlm"
	"github.com/ndlm/ndlm/internal/config"
	"github.com/ndlm/ndlm/internal/greetd"
	"github.com/ndlm/ndlm/internal/greeter"
	"github.com/ndlm/ndlm/text"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", config.DefaultPath, "configuration file")
		fbPath     = flag.String("fb", "/dev/fb0", "framebuffer device")
		ttyPath    = flag.String("tty", "/dev/tty", "console switched to graphics mode while running")
		rawOut     = flag.String("raw", "", "render headless, writing raw frames to this file")
		pngOut     = flag.String("png", "", "render headless, writing PNG frames to this file")
		width      = flag.Int("width", 1280, "headless surface width")
		height     = flag.Int("height", 720, "headless surface height")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	ndlm.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	log := ndlm.Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("load config", "err", err)
		return 2
	}
	if args := flag.Args(); len(args) > 0 {
		cfg.Session = args
	}

	ts, err := text.LoadTypefaces()
	if err != nil {
		log.Error("load typefaces", "err", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := greetd.Dial(ctx, cfg.Socket)
	if err != nil {
		log.Error("connect to greetd", "err", err)
		return 2
	}
	defer func() {
		_ = client.Close()
	}()

	var (
		surface   *ndlm.Surface
		presenter greeter.Presenter
	)
	if *rawOut != "" || *pngOut != "" {
		surface, err = ndlm.NewMemorySurface(*width, *height)
		if err != nil {
			log.Error("create surface", "err", err)
			return 2
		}
		presenter = filePresenter(surface, *rawOut, *pngOut)
	} else {
		var restore func()
		surface, presenter, restore, err = openDevice(*fbPath, *ttyPath)
		if err != nil {
			log.Error("open framebuffer", "err", err)
			return 2
		}
		defer restore()
	}

	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			log.Error("raw terminal", "err", err)
			return 2
		}
		defer func() {
			_ = term.Restore(fd, state)
		}()
	}

	g, err := greeter.New(surface, cfg, ts, client, greeter.WithPresenter(presenter))
	if err != nil {
		log.Error("create greeter", "err", err)
		return 2
	}

	out, err := g.Run(ctx, os.Stdin)
	switch {
	case err != nil && !errors.Is(err, context.Canceled):
		log.Error("greeter", "err", err)
		return 2
	case out != greeter.OutcomeLoggedIn:
		return 1
	}
	return 0
}

// filePresenter persists each frame to the requested files.
func filePresenter(s *ndlm.Surface, rawPath, pngPath string) greeter.Presenter {
	return greeter.PresenterFunc(func() error {
		if rawPath != "" {
			if err := s.SaveRaw(rawPath); err != nil {
				return fmt.Errorf("save raw frame: %w", err)
			}
		}
		if pngPath != "" {
			if err := s.SavePNG(pngPath); err != nil {
				return fmt.Errorf("save png frame: %w", err)
			}
		}
		return nil
	})
}

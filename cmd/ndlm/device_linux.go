//go:build linux

package main

import (
	"os"

	"github.com/ndlm/ndlm"
	"github.com/ndlm/ndlm/internal/fbdev"
	"github.com/ndlm/ndlm/internal/greeter"
)

// openDevice maps the framebuffer and puts the console into graphics mode.
// restore undoes both.
func openDevice(fbPath, ttyPath string) (*ndlm.Surface, greeter.Presenter, func(), error) {
	dev, err := fbdev.Open(fbPath)
	if err != nil {
		return nil, nil, nil, err
	}
	tty, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
	if err != nil {
		_ = dev.Close()
		return nil, nil, nil, err
	}
	// Without graphics mode the console may draw over the prompt; carry on.
	if err := fbdev.SetKDMode(tty, fbdev.KDGraphics); err != nil {
		ndlm.Logger().Warn("console graphics mode", "err", err)
	}
	restore := func() {
		if err := fbdev.SetKDMode(tty, fbdev.KDText); err != nil {
			ndlm.Logger().Warn("console text mode", "err", err)
		}
		_ = tty.Close()
		_ = dev.Close()
	}
	return dev.Surface(), dev, restore, nil
}

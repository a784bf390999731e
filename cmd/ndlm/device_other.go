//go:build !linux

package main

import (
	"errors"

	"github.com/ndlm/ndlm"
	"github.com/ndlm/ndlm/internal/greeter"
)

func openDevice(string, string) (*ndlm.Surface, greeter.Presenter, func(), error) {
	return nil, nil, nil, errors.New("framebuffer devices need Linux; use -raw or -png")
}

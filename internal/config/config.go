// Package config loads the ndlm configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/ndlm/ndlm"
	"github.com/ndlm/ndlm/text"
)

// DefaultPath is where the configuration is read from when no path is given.
const DefaultPath = "/etc/ndlm/config.toml"

// Config is the whole configuration file.
type Config struct {
	// Session is the command greetd starts after a successful login.
	Session []string `toml:"session"`
	// Socket overrides $GREETD_SOCK.
	Socket string `toml:"socket"`
	// LastUserFile remembers the last user that logged in. Empty disables it.
	LastUserFile string `toml:"last_user_file"`
	Theme        Theme  `toml:"theme"`
}

// Theme controls fonts, colors and dialog placement.
type Theme struct {
	Font         text.FontSpec `toml:"font"`
	HeadlineFont text.FontSpec `toml:"headline_font"`

	Background ndlm.Color `toml:"background"`
	Foreground ndlm.Color `toml:"foreground"`
	Active     ndlm.Color `toml:"active"`
	Box        ndlm.Color `toml:"box"`
	Pending    ndlm.Color `toml:"pending"`
	Failure    ndlm.Color `toml:"failure"`

	DialogWidth  int `toml:"dialog_width"`
	DialogHeight int `toml:"dialog_height"`

	// Alignments place the dialog center as a fraction of the screen.
	DialogHorizontalAlignment float64 `toml:"dialog_horizontal_alignment"`
	DialogVerticalAlignment   float64 `toml:"dialog_vertical_alignment"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Session:      []string{"/bin/sh", "-l"},
		LastUserFile: "/var/cache/ndlm/lastuser",
		Theme: Theme{
			Font:                      text.FontSpec{Family: "mono", Size: 32},
			HeadlineFont:              text.FontSpec{Family: "mono", Size: 72},
			Background:                ndlm.Black,
			Foreground:                ndlm.White,
			Active:                    ndlm.Yellow,
			Box:                       ndlm.Gray,
			Pending:                   ndlm.Yellow,
			Failure:                   ndlm.Red,
			DialogWidth:               1024,
			DialogHeight:              168,
			DialogHorizontalAlignment: 0.5,
			DialogVerticalAlignment:   0.5,
		},
	}
}

// Load reads the file at path over the defaults. A missing file at
// DefaultPath is not an error; any other missing file is.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path) //nolint:gosec // configuration path chosen by the administrator
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultPath {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a TOML document over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return Config{}, fmt.Errorf("config: %s", sme.String())
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	if len(c.Session) == 0 || c.Session[0] == "" {
		return errors.New("config: session command is empty")
	}
	t := c.Theme
	for name, v := range map[string]float64{
		"dialog_horizontal_alignment": t.DialogHorizontalAlignment,
		"dialog_vertical_alignment":   t.DialogVerticalAlignment,
	} {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("config: %s = %v, want a value in [0, 1]", name, v)
		}
	}
	if t.DialogWidth <= 0 || t.DialogHeight <= 0 {
		return fmt.Errorf("config: dialog size %dx%d must be positive", t.DialogWidth, t.DialogHeight)
	}
	return nil
}

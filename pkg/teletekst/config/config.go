// Package config reads the viewer's TOML configuration file.
//
// Every field has a default, so a missing file is a valid configuration:
//
//	[page]
//	default = 100
//	default_subpage = 1
//	url_template = "http://nos.nl/data/teletekst/gif/P{page}_{subpage}.gif"
//	max_roll_forward = 1
//	timeout = "10s"
//
//	[input]
//	subscribe_delay = "1s"
//	yes = 74
//	no = 55
//	say = 98
//	block = ["yes", "no", "say"]
//	devices = []
//
//	[log]
//	path = "KiepTeletext.log"
//	level = "info"
//
//	[window]
//	fullscreen = true
//	always_on_top = true
//	font_path = ""
//	width = 1024
//	height = 768
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kiep/teletekst/pkg/teletekst/constants"
	"github.com/kiep/teletekst/pkg/teletekst/fetch"
	"github.com/kiep/teletekst/pkg/teletekst/hook"
	"github.com/kiep/teletekst/pkg/teletekst/scan"
)

var ErrInvalid = errors.New("invalid configuration")

// Switch names accepted by [input] block.
const (
	SwitchYes = "yes"
	SwitchNo  = "no"
	SwitchSay = "say"
)

// maxKeyCode is the highest Linux input key code (KEY_MAX).
const maxKeyCode = 0x2ff

type Config struct {
	Page   PageConfig   `toml:"page"`
	Input  InputConfig  `toml:"input"`
	Log    LogConfig    `toml:"log"`
	Window WindowConfig `toml:"window"`
}

type PageConfig struct {
	Default        int      `toml:"default"`
	DefaultSubpage int      `toml:"default_subpage"`
	URLTemplate    string   `toml:"url_template"`
	MaxRollForward int      `toml:"max_roll_forward"`
	Timeout        Duration `toml:"timeout"`
}

type InputConfig struct {
	SubscribeDelay Duration `toml:"subscribe_delay"`
	Yes            int      `toml:"yes"`
	No             int      `toml:"no"`
	Say            int      `toml:"say"`
	Block          []string `toml:"block"`
	Devices        []string `toml:"devices"`
}

type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

type WindowConfig struct {
	Fullscreen  bool   `toml:"fullscreen"`
	AlwaysOnTop bool   `toml:"always_on_top"`
	FontPath    string `toml:"font_path"`
	Width       int32  `toml:"width"`
	Height      int32  `toml:"height"`
}

func Default() *Config {
	return &Config{
		Page: PageConfig{
			Default:        constants.DefaultPage,
			DefaultSubpage: constants.DefaultSubpage,
			URLTemplate:    constants.DefaultURLTemplate,
			MaxRollForward: 1,
			Timeout:        Duration{constants.DefaultFetchTimeout},
		},
		Input: InputConfig{
			SubscribeDelay: Duration{constants.DefaultSubscribeDelay},
			Yes:            int(constants.DefaultKeyYes),
			No:             int(constants.DefaultKeyNo),
			Say:            int(constants.DefaultKeySay),
			Block:          []string{SwitchYes, SwitchNo, SwitchSay},
		},
		Log: LogConfig{
			Path:  constants.DefaultLogFile,
			Level: "info",
		},
		Window: WindowConfig{
			Fullscreen:  true,
			AlwaysOnTop: true,
			Width:       1024,
			Height:      768,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Page.Default < 0:
		return invalid("page.default", "must not be negative")
	case c.Page.DefaultSubpage < 1:
		return invalid("page.default_subpage", "must be at least 1")
	case !fetch.URLTemplate(c.Page.URLTemplate).Valid():
		return invalid("page.url_template", "must contain {page} and {subpage}")
	case c.Page.MaxRollForward < 0:
		return invalid("page.max_roll_forward", "must not be negative")
	case c.Page.Timeout.Duration <= 0:
		return invalid("page.timeout", "must be positive")
	case c.Input.SubscribeDelay.Duration < 0:
		return invalid("input.subscribe_delay", "must not be negative")
	}

	keys := map[string]int{SwitchYes: c.Input.Yes, SwitchNo: c.Input.No, SwitchSay: c.Input.Say}
	seen := make(map[int]string, len(keys))
	for _, name := range []string{SwitchYes, SwitchNo, SwitchSay} {
		code := keys[name]
		if code <= 0 || code > maxKeyCode {
			return invalid("input."+name, fmt.Sprintf("key code %d out of range", code))
		}
		if other, dup := seen[code]; dup {
			return invalid("input."+name, "same key as input."+other)
		}
		seen[code] = name
	}

	for _, name := range c.Input.Block {
		if _, ok := keys[strings.ToLower(name)]; !ok {
			return invalid("input.block", fmt.Sprintf("unknown switch %q", name))
		}
	}

	if _, ok := ParseLevel(c.Log.Level); !ok {
		return invalid("log.level", fmt.Sprintf("unknown level %q", c.Log.Level))
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return invalid("window", "size must not be negative")
	}
	return nil
}

// Bindings returns the configured switch keys.
func (c *Config) Bindings() scan.Bindings {
	return scan.Bindings{
		Yes: constants.KeyCode(c.Input.Yes),
		No:  constants.KeyCode(c.Input.No),
		Say: constants.KeyCode(c.Input.Say),
	}
}

// BlockedKeys returns the keys of the switches named in [input] block.
func (c *Config) BlockedKeys() hook.KeySet {
	b := c.Bindings()
	byName := map[string]constants.KeyCode{SwitchYes: b.Yes, SwitchNo: b.No, SwitchSay: b.Say}

	codes := make([]constants.KeyCode, 0, len(c.Input.Block))
	for _, name := range c.Input.Block {
		if code, ok := byName[strings.ToLower(name)]; ok {
			codes = append(codes, code)
		}
	}
	return hook.NewKeySet(codes...)
}

// StartTarget is the page shown at startup.
func (c *Config) StartTarget() fetch.Target {
	return fetch.Target{Page: c.Page.Default, Subpage: c.Page.DefaultSubpage}
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalid, field, reason)
}

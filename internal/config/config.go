package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config is the loaded termstorm configuration.
type Config struct {
	Terminal TerminalConfig `toml:"terminal"`
	UI       UIConfig       `toml:"ui"`
	Theme    ThemeConfig    `toml:"theme"`
}

// TerminalConfig holds settings for the shell sessions.
type TerminalConfig struct {
	// Shell is the shell executable. Empty means $SHELL, then /bin/sh.
	Shell string `toml:"shell"`

	// Term is the TERM value exported to children.
	Term string `toml:"term"`

	// Scrollback is the history line limit. Negative disables history.
	Scrollback int `toml:"scrollback"`

	// WorkDir is the starting working directory. Empty means inherit.
	WorkDir string `toml:"cwd"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// CursorStyle is "block", "underline", or "bar".
	CursorStyle string `toml:"cursor_style"`

	// CursorBlink enables cursor blinking.
	CursorBlink bool `toml:"cursor_blink"`

	// Bell sounds the terminal bell when a child emits BEL.
	Bell bool `toml:"bell"`
}

// ThemeConfig holds color settings as hex strings. Resolve parses them.
type ThemeConfig struct {
	// Foreground is the default text color, e.g. "#d0d0d0". Empty keeps
	// the host terminal's default.
	Foreground string `toml:"fg"`

	// Background is the default background color. Empty keeps the host
	// terminal's default.
	Background string `toml:"bg"`

	// Palette overrides indexed colors; keys are indexes 0-255 as
	// strings, values are hex colors.
	Palette map[string]string `toml:"palette"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Terminal: TerminalConfig{
			Term:       "xterm-256color",
			Scrollback: 10000,
		},
		UI: UIConfig{
			CursorStyle: "block",
			CursorBlink: true,
			Bell:        true,
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "termstorm", "config.toml")
}

// Load reads the config file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error; the defaults and
// environment still apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data on top of the defaults without touching the
// environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envOverrides maps environment variables onto settings.
var envOverrides = map[string]func(*Config, string) error{
	"TERMSTORM_SHELL": func(c *Config, v string) error {
		c.Terminal.Shell = v
		return nil
	},
	"TERMSTORM_TERM": func(c *Config, v string) error {
		c.Terminal.Term = v
		return nil
	},
	"TERMSTORM_CWD": func(c *Config, v string) error {
		c.Terminal.WorkDir = v
		return nil
	},
	"TERMSTORM_SCROLLBACK": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: TERMSTORM_SCROLLBACK=%q", ErrInvalidSetting, v)
		}
		c.Terminal.Scrollback = n
		return nil
	},
	"TERMSTORM_CURSOR_STYLE": func(c *Config, v string) error {
		c.UI.CursorStyle = v
		return nil
	},
	"TERMSTORM_FG": func(c *Config, v string) error {
		c.Theme.Foreground = v
		return nil
	},
	"TERMSTORM_BG": func(c *Config, v string) error {
		c.Theme.Background = v
		return nil
	},
}

// applyEnv overlays TERMSTORM_* environment variables.
func (c *Config) applyEnv() error {
	for env, apply := range envOverrides {
		if val, ok := os.LookupEnv(env); ok {
			if err := apply(c, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate checks setting values. Theme colors are validated separately by
// Resolve, which reports which string failed.
func (c *Config) Validate() error {
	switch c.UI.CursorStyle {
	case "block", "underline", "bar":
	default:
		return fmt.Errorf("%w: cursor_style %q (want block, underline, or bar)",
			ErrInvalidSetting, c.UI.CursorStyle)
	}
	return nil
}

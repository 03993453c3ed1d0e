package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config controls runtime behavior for the host shell.
type Config struct {
	DataDir      string `env:"CORNELL_DATA_DIR"`
	ContentDir   string `env:"CORNELL_CONTENT_DIR"`
	ContentID    string `env:"CORNELL_CONTENT_ID"`
	LogPath      string `env:"CORNELL_LOG"`
	Dev          bool   `env:"CORNELL_DEV"`
	DevHTTP      string `env:"CORNELL_DEV_HTTP"`
	DemoScenario string `env:"CORNELL_DEMO"`
	DebugLayout  bool   `env:"CORNELL_DEBUG"`
	ASCIIOnly    bool   `env:"CORNELL_ASCII"`
	UI           UIConfig
	Editing      EditingConfig
}

type UIConfig struct {
	StyleVariant string `env:"CORNELL_STYLE" envDefault:"ink"`
	MotionLevel  string `env:"CORNELL_MOTION" envDefault:"full"`
}

type EditingConfig struct {
	AutosaveDebounceMS int `env:"CORNELL_AUTOSAVE_MS" envDefault:"800"`
}

func DefaultConfig() Config {
	return Config{
		ContentDir: "content",
		DevHTTP:    "127.0.0.1:17428",
		UI: UIConfig{
			StyleVariant: "ink",
			MotionLevel:  "full",
		},
		Editing: EditingConfig{
			AutosaveDebounceMS: 800,
		},
	}
}

// FromEnv loads the defaults and applies CORNELL_* environment
// overrides on top.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.UI.StyleVariant {
	case "", "ink", "parchment", "mocha":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "ink"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}
	if c.Editing.AutosaveDebounceMS <= 0 {
		c.Editing.AutosaveDebounceMS = 800
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DevHTTP == "" {
		c.DevHTTP = "127.0.0.1:17428"
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "cornell")
	}

	return nil
}

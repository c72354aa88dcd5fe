// Package config loads pad settings from a TOML file with environment
// overrides on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"SignaturePad/internal/state"
)

const EnvPrefix = "SIGNATUREPAD_"

type Config struct {
	SaveDir  string `toml:"save_dir"`
	LogLevel string `toml:"log_level"`
	Brush    Brush  `toml:"brush"`
	Speech   Speech `toml:"speech"`
	Mirror   Mirror `toml:"mirror"`
}

type Brush struct {
	StrokeColor     string `toml:"stroke_color"`
	BackgroundColor string `toml:"background_color"`
	Size            int    `toml:"size"`
}

type Speech struct {
	// Command is the external recognizer; "{lang}" is substituted.
	Command []string `toml:"command"`
	Lang    string   `toml:"lang"`
	Timeout Duration `toml:"timeout"`
}

type Mirror struct {
	Enabled   bool `toml:"enabled"`
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

// Duration accepts "15s" style strings in TOML.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		SaveDir:  "",
		LogLevel: "info",
		Brush: Brush{
			StrokeColor:     state.DefaultStrokeColor,
			BackgroundColor: state.DefaultBackground,
			Size:            state.DefaultBrushSize,
		},
		Speech: Speech{
			Lang:    "en-US",
			Timeout: Duration{15 * time.Second},
		},
		Mirror: Mirror{
			Enabled:   false,
			Port:      8888,
			Advertise: true,
		},
	}
}

// DefaultPath is signaturepad/config.toml under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "signaturepad", "config.toml")
}

// Load reads path over the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	cfg.SaveDir = expandHome(cfg.SaveDir)
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	str("SAVE_DIR", &c.SaveDir)
	str("LOG_LEVEL", &c.LogLevel)
	str("STROKE_COLOR", &c.Brush.StrokeColor)
	str("BACKGROUND_COLOR", &c.Brush.BackgroundColor)
	str("SPEECH_LANG", &c.Speech.Lang)

	if v, ok := lookup(EnvPrefix + "BRUSH_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sBRUSH_SIZE: %w", EnvPrefix, err)
		}
		c.Brush.Size = n
	}
	if v, ok := lookup(EnvPrefix + "SPEECH_COMMAND"); ok {
		c.Speech.Command = strings.Fields(v)
	}
	if v, ok := lookup(EnvPrefix + "MIRROR"); ok {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sMIRROR: %w", EnvPrefix, err)
		}
		c.Mirror.Enabled = on
	}
	if v, ok := lookup(EnvPrefix + "MIRROR_PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMIRROR_PORT: %w", EnvPrefix, err)
		}
		c.Mirror.Port = n
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.BrushSettings().Validate(); err != nil {
		return fmt.Errorf("brush: %w", err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.Mirror.Enabled && (c.Mirror.Port < 1 || c.Mirror.Port > 65535) {
		return fmt.Errorf("mirror port %d out of range", c.Mirror.Port)
	}
	if c.Speech.Timeout.Duration < 0 {
		return fmt.Errorf("negative speech timeout %s", c.Speech.Timeout)
	}
	return nil
}

// BrushSettings is the starting brush for a new board.
func (c Config) BrushSettings() state.Brush {
	return state.Brush{
		StrokeColor: c.Brush.StrokeColor,
		Background:  c.Brush.BackgroundColor,
		Size:        c.Brush.Size,
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	UI      UIConfig      `mapstructure:"ui"`
	Evasion EvasionConfig `mapstructure:"evasion"`
	Timing  TimingConfig  `mapstructure:"timing"`
	Content ContentConfig `mapstructure:"content"`
	Journal JournalConfig `mapstructure:"journal"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Log     LogConfig     `mapstructure:"log"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Recipient string `mapstructure:"recipient"`
	Theme     string `mapstructure:"theme"`
}

// EvasionConfig tunes where the decline button may jump to. Sizes are cells.
type EvasionConfig struct {
	Padding             int `mapstructure:"padding"`
	ExclusionHalfWidth  int `mapstructure:"exclusion_half_width"`
	ExclusionHalfHeight int `mapstructure:"exclusion_half_height"`
	MaxAttempts         int `mapstructure:"max_attempts"`
}

// TimingConfig holds effect lifetimes and the animation frame interval.
type TimingConfig struct {
	Wiggle         time.Duration `mapstructure:"wiggle"`
	MarkerLifetime time.Duration `mapstructure:"marker_lifetime"`
	BurstDelay     time.Duration `mapstructure:"burst_delay"`
	Frame          time.Duration `mapstructure:"frame"`
}

// ContentConfig points at an optional TOML file replacing the built-in words.
type ContentConfig struct {
	Path string `mapstructure:"path"`
}

// JournalConfig holds sqlite settings.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// AudioConfig holds sound settings.
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// LogConfig holds log file settings.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Themes are the accepted ui.theme values.
var Themes = []string{"rose", "mocha", "latte"}

// LogLevels are the accepted log.level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// ErrInvalid marks a configuration value that cannot be used.
var ErrInvalid = errors.New("invalid config")

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("ui.recipient", "Naomi")
	v.SetDefault("ui.theme", "rose")
	v.SetDefault("evasion.padding", 1)
	v.SetDefault("evasion.exclusion_half_width", 16)
	v.SetDefault("evasion.exclusion_half_height", 8)
	v.SetDefault("evasion.max_attempts", 1000)
	v.SetDefault("timing.wiggle", "400ms")
	v.SetDefault("timing.marker_lifetime", "1s")
	v.SetDefault("timing.burst_delay", "300ms")
	v.SetDefault("timing.frame", "33ms")
	v.SetDefault("content.path", "")
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", filepath.Join(home, ".local", "share", "sayyes", "journal.db"))
	v.SetDefault("audio.enabled", false)
	v.SetDefault("audio.volume", 0.6)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "sayyes", "sayyes.log"))
	v.SetDefault("log.level", "info")
}

// Path returns the config file location: $SAYYES_CONFIG or
// ~/.config/sayyes/config.toml.
func Path() string {
	if p := os.Getenv("SAYYES_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "sayyes", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix SAYYES_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("SAYYES")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the program cannot run with.
func (c Config) Validate() error {
	if err := oneOf("ui.theme", c.UI.Theme, Themes); err != nil {
		return err
	}
	if err := oneOf("log.level", c.Log.Level, LogLevels); err != nil {
		return err
	}
	e := c.Evasion
	if e.Padding < 0 || e.ExclusionHalfWidth < 0 || e.ExclusionHalfHeight < 0 {
		return fmt.Errorf("evasion sizes must not be negative: %w", ErrInvalid)
	}
	if e.MaxAttempts <= 0 {
		return fmt.Errorf("evasion.max_attempts must be positive, got %d: %w", e.MaxAttempts, ErrInvalid)
	}
	t := c.Timing
	for name, d := range map[string]time.Duration{
		"timing.wiggle":          t.Wiggle,
		"timing.marker_lifetime": t.MarkerLifetime,
		"timing.burst_delay":     t.BurstDelay,
		"timing.frame":           t.Frame,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s: %w", name, d, ErrInvalid)
		}
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be within [0, 1], got %.2f: %w", c.Audio.Volume, ErrInvalid)
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		return fmt.Errorf("journal.path is empty: %w", ErrInvalid)
	}
	return nil
}

// oneOf checks value against allowed and suggests the closest match.
func oneOf(key, value string, allowed []string) error {
	norm := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if norm == a {
			return nil
		}
	}
	if s := Suggest(norm, allowed); s != "" {
		return fmt.Errorf("%s: unknown value %q (did you mean %q?): %w", key, value, s, ErrInvalid)
	}
	return fmt.Errorf("%s: unknown value %q (want one of %s): %w", key, value, strings.Join(allowed, ", "), ErrInvalid)
}

// Suggest returns the candidate closest to input by edit distance, or "" when
// nothing is within a third of the input's length (minimum 2 edits).
func Suggest(input string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(input, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := max(2, len(input)/3)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

// Save writes the provided config to path, creating the directory if needed.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("ui.recipient", cfg.UI.Recipient)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("evasion.padding", cfg.Evasion.Padding)
	v.Set("evasion.exclusion_half_width", cfg.Evasion.ExclusionHalfWidth)
	v.Set("evasion.exclusion_half_height", cfg.Evasion.ExclusionHalfHeight)
	v.Set("evasion.max_attempts", cfg.Evasion.MaxAttempts)
	v.Set("timing.wiggle", cfg.Timing.Wiggle.String())
	v.Set("timing.marker_lifetime", cfg.Timing.MarkerLifetime.String())
	v.Set("timing.burst_delay", cfg.Timing.BurstDelay.String())
	v.Set("timing.frame", cfg.Timing.Frame.String())
	v.Set("content.path", cfg.Content.Path)
	v.Set("journal.enabled", cfg.Journal.Enabled)
	v.Set("journal.path", cfg.Journal.Path)
	v.Set("audio.enabled", cfg.Audio.Enabled)
	v.Set("audio.volume", cfg.Audio.Volume)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

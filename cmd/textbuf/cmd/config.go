package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gesquive/textbuf"
	"github.com/gesquive/textbuf/internal/console"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const envPrefix = "TEXTBUF"

// Config holds the settings shared by every subcommand.
type Config struct {
	Locale     string `yaml:"locale" mapstructure:"locale"`
	Comparison string `yaml:"comparison" mapstructure:"comparison"`
	LogLevel   string `yaml:"log-level" mapstructure:"log-level"`
	NoColor    bool   `yaml:"no-color" mapstructure:"no-color"`

	locale *textbuf.Locale
	level  slog.Level
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Locale:     "und",
		Comparison: "ordinal",
		LogLevel:   "info",
		NoColor:    false,
	}
}

// LoadConfig merges defaults, the optional config file, TEXTBUF_* environment
// variables and flags, in increasing order of precedence.
func LoadConfig(v *viper.Viper, flags *pflag.FlagSet, configFile string) (*Config, error) {
	config := DefaultConfig()
	v.SetDefault("locale", config.Locale)
	v.SetDefault("comparison", config.Comparison)
	v.SetDefault("log-level", config.LogLevel)
	v.SetDefault("no-color", config.NoColor)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, name := range []string{"locale", "comparison", "log-level", "no-color"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// Validate checks every field and caches the parsed locale and level.
func (c *Config) Validate() error {
	loc, err := textbuf.ParseLocale(c.Locale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	c.locale = loc

	level, err := console.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log-level %q: %w", c.LogLevel, err)
	}
	c.level = level

	if _, err := comparerFor(c.Comparison, loc.Tag()); err != nil {
		return err
	}
	return nil
}

// Comparer returns the configured comparison strategy.
func (c *Config) Comparer() textbuf.Comparer {
	cmp, _ := comparerFor(c.Comparison, c.locale.Tag())
	return cmp
}

func comparerFor(name string, tag language.Tag) (textbuf.Comparer, error) {
	switch strings.ToLower(name) {
	case "", "ordinal":
		return textbuf.Ordinal, nil
	case "ordinal-ignore-case":
		return textbuf.OrdinalIgnoreCase, nil
	case "culture":
		return textbuf.Culture(tag), nil
	case "culture-ignore-case":
		return textbuf.CultureIgnoreCase(tag), nil
	case "invariant":
		return textbuf.InvariantCulture, nil
	case "invariant-ignore-case":
		return textbuf.InvariantCultureIgnoreCase, nil
	}
	return nil, fmt.Errorf("unknown comparison %q", name)
}

package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // timezone names must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the immutable input of one pipeline run. It is loaded once and
// passed by value or pointer to every stage; nothing mutates it afterwards.
type Config struct {
	DataDir      string       `mapstructure:"data_dir" yaml:"data_dir"`
	OutputDir    string       `mapstructure:"output_dir" yaml:"output_dir"`
	Target       string       `mapstructure:"target" yaml:"target"`
	Self         string       `mapstructure:"self" yaml:"self"`
	Timezone     string       `mapstructure:"timezone" yaml:"timezone"`
	Phrases      PhraseConfig `mapstructure:"phrases" yaml:"phrases"`
	Formats      []string     `mapstructure:"formats" yaml:"formats"`
	Workers      int          `mapstructure:"workers" yaml:"workers"`
	UnescapeHTML bool         `mapstructure:"unescape_html" yaml:"unescape_html"`
	DryRun       bool         `mapstructure:"dry_run" yaml:"dry_run"`

	location *time.Location
}

// PhraseConfig holds the phrase lists the statistics aggregator looks for
type PhraseConfig struct {
	GoodMorning []string `mapstructure:"good_morning" yaml:"good_morning"`
	Custom      []string `mapstructure:"custom" yaml:"custom"`
	Slang       []string `mapstructure:"slang" yaml:"slang"`
}

// Phrase group names used in statistics output
const (
	GroupGoodMorning = "good_morning"
	GroupCustom      = "custom"
	GroupSlang       = "slang"
)

// PhraseGroup is a named list of phrases
type PhraseGroup struct {
	Name    string
	Phrases []string
}

var (
	defaultGoodMorning = []string{"gm", "good morning", "morning", "bonjour", "ohayo", "buenos dias", "guten morgen"}
	defaultCustom      = []string{"happy birthday", "congratulations", "thank you", "thanks", "lol", "haha", "wow", "awesome", "cool", "nice"}
	defaultSlang       = []string{"wesh", "sahit", "saha", "bezaf", "khouya", "yaw", "mlih", "ya3tik saha"}
)

// DefaultConfig returns the configuration used when nothing else is set
func DefaultConfig() Config {
	return Config{
		DataDir:   ".",
		OutputDir: "output",
		Timezone:  "UTC",
		Phrases: PhraseConfig{
			GoodMorning: append([]string(nil), defaultGoodMorning...),
			Custom:      append([]string(nil), defaultCustom...),
			Slang:       append([]string(nil), defaultSlang...),
		},
		Formats:      []string{"txt", "html", "json"},
		Workers:      4,
		UnescapeHTML: true,
	}
}

// flagKeys maps CLI flag names onto config keys
var flagKeys = map[string]string{
	"data":          "data_dir",
	"out":           "output_dir",
	"target":        "target",
	"self":          "self",
	"timezone":      "timezone",
	"good-morning":  "phrases.good_morning",
	"phrase":        "phrases.custom",
	"slang":         "phrases.slang",
	"format":        "formats",
	"workers":       "workers",
	"unescape-html": "unescape_html",
	"dry-run":       "dry_run",
}

// LoadConfig resolves configuration from defaults, an optional YAML file, a
// .env file, CHATBOOK_* environment variables and the given flags, in that
// order of increasing precedence.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		LogWarn("Failed to load .env: %v", err)
	}

	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("phrases.good_morning", def.Phrases.GoodMorning)
	v.SetDefault("phrases.custom", def.Phrases.Custom)
	v.SetDefault("phrases.slang", def.Phrases.Slang)
	v.SetDefault("formats", def.Formats)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("unescape_html", def.UnescapeHTML)
	v.SetDefault("dry_run", false)
	v.SetDefault("target", "")
	v.SetDefault("self", "")

	v.SetEnvPrefix("CHATBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("chatbook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "chatbook"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		LogDebug("Using config file %s", v.ConfigFileUsed())
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key, ok := flagKeys[f.Name]
			if !ok || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and resolves the timezone
func (c *Config) Validate() error {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc
	if c.Workers <= 0 {
		c.Workers = 1
	}
	c.Phrases.GoodMorning = cleanList(c.Phrases.GoodMorning)
	c.Phrases.Custom = cleanList(c.Phrases.Custom)
	c.Phrases.Slang = cleanList(c.Phrases.Slang)
	c.Formats = cleanList(c.Formats)
	return nil
}

// Location returns the zone used for calendar-date bucketing
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// PhraseGroups returns the configured phrase lists in a fixed order
func (c *Config) PhraseGroups() []PhraseGroup {
	return []PhraseGroup{
		{Name: GroupGoodMorning, Phrases: c.Phrases.GoodMorning},
		{Name: GroupCustom, Phrases: c.Phrases.Custom},
		{Name: GroupSlang, Phrases: c.Phrases.Slang},
	}
}

// cleanList trims entries, drops blanks and keeps the first occurrence of duplicates
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}

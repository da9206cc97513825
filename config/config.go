// Package config loads naming, logging and database settings for lappa.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/shrek82/lappa/inflect"
	"github.com/shrek82/lappa/logger"
	"github.com/shrek82/lappa/model"
	"github.com/shrek82/lappa/pool"
	"github.com/spf13/pflag"
)

const (
	// DefaultFile is looked up in the working directory when no file is given.
	DefaultFile = "lappa.yaml"
	// EnvPrefix marks environment variables read by Load.
	EnvPrefix = "LAPPA_"
)

// Config holds all lappa settings.
type Config struct {
	TagName         string       `koanf:"tag_name"`
	PluralizeTables bool         `koanf:"pluralize_tables"`
	Naming          NamingConfig `koanf:"naming"`
	Log             LogConfig    `koanf:"log"`
	Database        DBConfig     `koanf:"database"`

	// File is the config file that was read, empty if none.
	File string `koanf:"-"`
}

// NamingConfig extends the default pluralization rules.
type NamingConfig struct {
	PluralOverrides map[string]string `koanf:"plural_overrides"`
	Uncountable     []string          `koanf:"uncountable"`
}

// DBConfig locates the database checked by lappa-names.
type DBConfig struct {
	Driver string       `koanf:"driver"`
	DSN    string       `koanf:"dsn"`
	Pool   pool.Options `koanf:"pool"`
}

// LogConfig selects the logger level and output format.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaults() map[string]any {
	return map[string]any{
		"tag_name":         model.DefaultTagName,
		"pluralize_tables": true,
		"log.level":        "warn",
		"log.format":       string(logger.LogFormatText),
		"database.driver":  "sqlite3",
	}
}

// Load reads configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
//
// An explicit cfgFile must exist; otherwise DefaultFile is read when present.
// flags may be nil. Only flags that were set on the command line are applied.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := cfgFile
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// LAPPA_LOG_LEVEL -> log.level, LAPPA_NAMING_UNCOUNTABLE=a,b -> naming.uncountable
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path
	return &cfg, nil
}

func envKey(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = nest(key)
	if key == "naming.uncountable" {
		return key, splitList(value)
	}
	return key, value
}

// flagKey maps --log-level to log.level and --tag-name to tag_name.
func flagKey(name string) string {
	return nest(strings.ReplaceAll(name, "-", "_"))
}

// nest turns a flat key into a dotted one for the sections that have them,
// log_level -> log.level, database_pool_max_open_conns -> database.pool.max_open_conns.
func nest(key string) string {
	for _, section := range []string{"log", "naming", "database_pool", "database"} {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return strings.ReplaceAll(section, "_", ".") + "." + rest
		}
	}
	return key
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Pluralizer builds a pluralizer with the configured overrides.
func (c *Config) Pluralizer() *inflect.Pluralizer {
	if len(c.Naming.PluralOverrides) == 0 && len(c.Naming.Uncountable) == 0 {
		return inflect.Default()
	}
	opts := make([]inflect.Option, 0, len(c.Naming.PluralOverrides)+1)
	for singular, plural := range c.Naming.PluralOverrides {
		opts = append(opts, inflect.WithIrregular(singular, plural))
	}
	if len(c.Naming.Uncountable) > 0 {
		opts = append(opts, inflect.WithUncountable(c.Naming.Uncountable...))
	}
	return inflect.NewPluralizer(opts...)
}

// Registry builds a model registry using the configured tag name and
// table naming.
func (c *Config) Registry() *model.Registry {
	return model.NewRegistry(model.Options{
		TagName:        c.TagName,
		SingularTables: !c.PluralizeTables,
		Pluralizer:     c.Pluralizer(),
	})
}

// Logger builds a standard logger with the configured level and format.
func (c *Config) Logger() logger.Logger {
	l := logger.NewStdLogger()
	l.SetLevel(logger.ParseLevel(c.Log.Level))
	if strings.EqualFold(c.Log.Format, string(logger.LogFormatJSON)) {
		l.SetFormat(logger.LogFormatJSON)
	}
	return l
}

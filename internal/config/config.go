// Package config loads the settings of the opds-catalog command.
//
// Values are resolved in viper's order: command line flags, environment variables with the
// OPDS_CATALOG_ prefix, an optional config file, then defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const (
	EnvPrefix = "OPDS_CATALOG"

	KeyDatabase  = "database"
	KeyLocale    = "locale"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
	KeyTelemetry = "telemetry"

	LogFormatText = "text"
	LogFormatJSON = "json"

	DefaultLocale    = "ru"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = LogFormatText
)

// flagNames maps config keys to the command line flags setting them.
var flagNames = map[string]string{
	KeyDatabase:  "database",
	KeyLocale:    "locale",
	KeyLogLevel:  "log-level",
	KeyLogFormat: "log-format",
	KeyTelemetry: "telemetry",
}

var (
	ErrDatabaseMissing  = errors.New("database path is not configured")
	ErrInvalidLocale    = errors.New("locale is not a valid BCP 47 tag")
	ErrInvalidLogLevel  = errors.New("log level must be one of debug, info, warn, error")
	ErrInvalidLogFormat = errors.New("log format must be text or json")
)

// Config holds the settings of one command run.
// Telemetry switches on span and metric export to stderr.
type Config struct {
	Database  string `mapstructure:"database"`
	Locale    string `mapstructure:"locale"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	Telemetry bool   `mapstructure:"telemetry"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyLocale, DefaultLocale)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyDatabase, "")
	v.SetDefault(KeyTelemetry, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file, binds flags and decodes the result into a validated Config.
// An empty configFile skips the file.
func Load(v *viper.Viper, configFile string, flags *pflag.FlagSet) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if flags != nil {
		for key, name := range flagNames {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}

			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that every setting is present and well-formed.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Database) == "" {
		errs = append(errs, ErrDatabaseMissing)
	}

	if _, err := c.LanguageTag(); err != nil {
		errs = append(errs, err)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel))
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat))
	}

	return errors.Join(errs...)
}

// LanguageTag parses the configured locale.
func (c Config) LanguageTag() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q", ErrInvalidLocale, c.Locale)
	}

	return tag, nil
}

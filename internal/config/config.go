package config

import (
	"os"

	"codeberg.org/pmokit/aitrackd/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultListen   = ":8600"
	DefaultLogLevel = "info"

	configEnvVar = "AITRACKD_CONFIG"
)

type Config struct {
	Listen      string `mapstructure:"listen"`
	LogLevel    string `mapstructure:"log_level"`
	Seed        bool   `mapstructure:"seed"`
	Telemetry   bool   `mapstructure:"telemetry"`
	TelemetryDB string `mapstructure:"telemetry_db"`
}

// Load reads configuration from flags, an optional TOML file and the
// environment. Flags take precedence over the file, the file over defaults.
// The config file path can be forced with the AITRACKD_CONFIG environment
// variable.
func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("seed", true)
	v.SetDefault("telemetry", false)
	v.SetDefault("telemetry_db", "")

	flags := pflag.NewFlagSet("aitrackd", pflag.ContinueOnError)
	flags.String("listen", DefaultListen, "Address to serve the dashboard API on")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Bool("seed", true, "Preload the sample tools on startup")
	flags.Bool("telemetry", false, "Record dashboard snapshots to a local database")
	flags.String("telemetry-db", "", "Path to the telemetry database")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	if path := os.Getenv(configEnvVar); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("aitrackd")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// An explicitly named file that is missing or malformed is an error
			if os.Getenv(configEnvVar) != "" || !os.IsNotExist(err) {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	// Only flags the user actually set override the file
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "log-level":
			v.Set("log_level", f.Value.String())
		case "telemetry-db":
			v.Set("telemetry_db", f.Value.String())
		default:
			v.Set(f.Name, f.Value.String())
		}
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	errFactory := errors.New()

	switch c.LogLevel {
	case "debug", "info", "warning", "warn", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Listen == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "listen address must not be empty")
	}

	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "telemetry requires telemetry_db to be set")
	}

	return nil
}

package config

import (
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/bustop/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval = 1000 // milliseconds
	DefaultCount    = 0    // unbounded
	DefaultFormat   = FormatTable
	DefaultLogLevel = "info"

	defaultConfigName = "bustop"
	defaultConfigPath = "/etc"
	configEnvVar      = "BUSTOP_CONFIG"
)

// Output formats accepted by the --format flag.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatAppend = "append"
)

type Config struct {
	Interval    int    `mapstructure:"interval"` // milliseconds between cycle starts
	Count       uint64 `mapstructure:"count"`    // 0 = sample until cancelled
	Format      string `mapstructure:"format"`
	LogLevel    string `mapstructure:"log_level"`
	Telemetry   bool   `mapstructure:"telemetry"`
	TelemetryDB string `mapstructure:"database"`
	Debug       bool   `mapstructure:"debug"`
	Verbose     bool   `mapstructure:"verbose"`
}

// IntervalDuration returns the sampling cadence as a duration.
func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Millisecond
}

// Load reads configuration from the TOML config file, environment and
// command-line flags, in ascending priority. Validation failures are fatal
// before sampling starts; nothing here can fail once the loop is running.
func Load() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	errFactory := errors.New()

	flags := pflag.NewFlagSet("bustop", pflag.ContinueOnError)
	flags.IntP("interval", "i", DefaultInterval, "sample interval in milliseconds")
	flags.Uint64P("count", "n", DefaultCount, "number of samples to collect (0 = infinite)")
	flags.StringP("format", "f", DefaultFormat, "output format: table, json or append")
	flags.String("log-level", DefaultLogLevel, "log level: debug, info, warning or error")
	flags.Bool("telemetry", false, "record snapshots to the telemetry database")
	flags.String("database", "", "telemetry database path")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("verbose", "v", false, "enable verbose logging")

	if err := flags.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("count", DefaultCount)
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("log_level", DefaultLogLevel)

	if path := os.Getenv(configEnvVar); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("toml")
		v.AddConfigPath(defaultConfigPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Flags set on the command line win over the config file.
	flags.Visit(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		v.Set(key, f.Value.String())
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks configuration invariants that must hold before the
// sampling loop starts.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	switch c.Format {
	case FormatTable, FormatJSON, FormatAppend:
	default:
		return errFactory.WithData(errors.ErrInvalidFormat, c.Format)
	}

	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "telemetry enabled without a database path")
	}

	return nil
}

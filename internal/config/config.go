package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/pmt/internal/db"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. PMT_DB_PATH.
const EnvPrefix = "PMT"

type Config struct {
	DB        DBConfig        `mapstructure:"db"`
	Assign    AssignConfig    `mapstructure:"assign"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type DBConfig struct {
	Driver      string        `mapstructure:"driver"`
	Path        string        `mapstructure:"path"`
	DSN         string        `mapstructure:"dsn"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

// AssignConfig holds assignment defaults. MaxOpenTasks is used when a
// caller does not pass its own limit.
type AssignConfig struct {
	MaxOpenTasks int `mapstructure:"max_open_tasks"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Stdout  bool `mapstructure:"stdout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DB: DBConfig{
			Driver:      db.DriverSQLite,
			Path:        filepath.Join(Dir(), "pmt.db"),
			BusyTimeout: 5 * time.Second,
		},
		Assign:    AssignConfig{MaxOpenTasks: 3},
		Log:       LogConfig{Level: "warn", Format: "text"},
		Telemetry: TelemetryConfig{Enabled: false, Stdout: false},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("db.driver", d.DB.Driver)
	v.SetDefault("db.path", d.DB.Path)
	v.SetDefault("db.dsn", d.DB.DSN)
	v.SetDefault("db.busy_timeout", d.DB.BusyTimeout)
	v.SetDefault("assign.max_open_tasks", d.Assign.MaxOpenTasks)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("telemetry.enabled", d.Telemetry.Enabled)
	v.SetDefault("telemetry.stdout", d.Telemetry.Stdout)
}

// New returns a viper instance with defaults and PMT_* environment
// bindings. Commands bind their flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file (or the default config file when it exists) into v and
// returns the validated configuration. Precedence is flags, environment,
// file, then defaults.
func Load(v *viper.Viper, file string) (*Config, error) {
	switch {
	case file != "":
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	default:
		v.SetConfigFile(File())
		if err := v.ReadInConfig(); err != nil && !isMissing(err) {
			return nil, fmt.Errorf("reading config %s: %w", File(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

func isMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// DBConfig converts to the store's open options.
func (c DBConfig) Open() db.Config {
	return db.Config{
		Driver:      c.Driver,
		Path:        c.Path,
		DSN:         c.DSN,
		BusyTimeout: c.BusyTimeout,
	}
}

// Dir returns the directory holding the config file and default database.
func Dir() string {
	if home := os.Getenv("PMT_HOME"); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pmt"
	}
	return filepath.Join(home, ".pmt")
}

// File returns the default config file path.
func File() string {
	return filepath.Join(Dir(), "config.yaml")
}

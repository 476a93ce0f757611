package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/pmt/internal/db"
)

// ValidationErrors collects every problem found in a configuration.
type ValidationErrors []error

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

func (e ValidationErrors) Unwrap() []error {
	return e
}

func (c *Config) Validate() []error {
	var errs []error

	switch c.DB.Driver {
	case db.DriverSQLite:
		if c.DB.Path == "" {
			errs = append(errs, fmt.Errorf("db.path is required for the sqlite driver"))
		}
	case db.DriverMySQL:
		if c.DB.DSN == "" {
			errs = append(errs, fmt.Errorf("db.dsn is required for the mysql driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("db.driver: invalid value %q (expected sqlite or mysql)", c.DB.Driver))
	}
	if c.DB.BusyTimeout < 0 {
		errs = append(errs, fmt.Errorf("db.busy_timeout must not be negative"))
	}
	if c.Assign.MaxOpenTasks < 0 {
		errs = append(errs, fmt.Errorf("assign.max_open_tasks must be >= 0, got %d", c.Assign.MaxOpenTasks))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: invalid value %q (expected text or json)", c.Log.Format))
	}

	return errs
}

// ParseLevel maps a configured log level onto slog.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log.level: invalid value %q", s)
	}
	return lvl, nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config selects and locates the backing store.
type Config struct {
	Driver      string        // "sqlite" (default) or "mysql"
	Path        string        // SQLite file path or ":memory:"
	DSN         string        // MySQL DSN, e.g. user:pass@tcp(host:3306)/pmt
	BusyTimeout time.Duration // SQLite lock wait
}

const (
	defaultBusyTimeout = 5 * time.Second
	openMaxElapsed     = 30 * time.Second
)

func newOpenBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = openMaxElapsed
	return bo
}

// OpenDB opens a SQLite database at the given path with default settings.
// If path is ":memory:", uses an in-memory database.
func OpenDB(path string) (*sql.DB, error) {
	return Open(context.Background(), Config{Driver: DriverSQLite, Path: path})
}

// Open connects to the configured store, waits for it to answer a ping and
// runs migrations.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	var (
		database *sql.DB
		err      error
	)
	switch strings.ToLower(cfg.Driver) {
	case "", DriverSQLite:
		database, err = openSQLite(cfg)
		cfg.Driver = DriverSQLite
	case DriverMySQL:
		database, err = openMySQL(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := ping(ctx, database); err != nil {
		database.Close()
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Driver, err)
	}

	if err := Migrate(database, cfg.Driver); err != nil {
		database.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return database, nil
}

func openSQLite(cfg Config) (*sql.DB, error) {
	path := cfg.Path
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}

	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)&_pragma=busy_timeout(%d)&_time_format=sqlite",
		path, busy.Milliseconds())
	if !memory {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	database, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Each connection to :memory: is its own database.
	if memory {
		database.SetMaxOpenConns(1)
	}
	return database, nil
}

func openMySQL(cfg Config) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("mysql dsn is required")
	}
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing mysql dsn: %w", err)
	}
	// Conditional updates rely on matched, not changed, row counts.
	mc.ClientFoundRows = true
	mc.ParseTime = false
	mc.MultiStatements = false

	database, err := sql.Open(DriverMySQL, mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	database.SetConnMaxLifetime(5 * time.Minute)
	return database, nil
}

func ping(ctx context.Context, database *sql.DB) error {
	return backoff.Retry(func() error {
		err := database.PingContext(ctx)
		if err == nil {
			return nil
		}
		if IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(newOpenBackoff(), ctx))
}

// Package db owns the single SQLite connection shared by every repository.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lopeshyago/fusionbackapp/pkg/config"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Client struct {
	conn *gorm.DB
}

// New opens the file at cfg.Path and pins the pool to one connection; SQLite
// allows a single writer and transactions must not interleave.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	conn, err := gorm.Open(sqlite.Open(cfg.DSN()), &gorm.Config{
		Logger:                 queryLogger(logg, cfg.SlowQuery),
		SkipDefaultTransaction: true,
		NowFunc:                Now,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Path, err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging %s: %w", cfg.Path, err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"db_path":      cfg.Path,
			"journal_mode": cfg.JournalMode,
		}), "db.connected")
	}
	return &Client{conn: conn}, nil
}

// gormWriter forwards gorm's trace lines to the service logger at debug.
type gormWriter struct {
	logg *logger.Logger
}

func (g gormWriter) Printf(format string, args ...any) {
	ctx := g.logg.WithField(context.Background(), "component", "gorm")
	g.logg.Debug(ctx, fmt.Sprintf(format, args...))
}

// queryLogger reports slow statements and failures when slow > 0, otherwise
// stays silent.
func queryLogger(logg *logger.Logger, slow time.Duration) gormlogger.Interface {
	if logg == nil || slow <= 0 {
		return gormlogger.Discard
	}
	return gormlogger.New(gormWriter{logg: logg}, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Now is the clock for stored timestamps: UTC, whole seconds, so text
// comparisons in SQLite order correctly.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func (c *Client) DB() *gorm.DB {
	return c.conn
}

// SQL returns the database/sql handle the migrator drives.
func (c *Client) SQL() (*sql.DB, error) {
	return c.conn.DB()
}

func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *Client) Exec(ctx context.Context, query string, args ...any) *gorm.DB {
	return c.conn.WithContext(ctx).Exec(query, args...)
}

func (c *Client) Raw(ctx context.Context, query string, args ...any) *gorm.DB {
	return c.conn.WithContext(ctx).Raw(query, args...)
}

// WithTx runs fn in a transaction that commits when fn returns nil. Errors
// and panics roll back; panics are re-raised.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(fn)
}

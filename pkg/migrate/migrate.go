// Package migrate brings the SQLite file to the schema this build expects.
// Migrations are an ordered goose list recorded in goose_db_version; every
// step is additive and safe to replay against a database created by an
// older build.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where `migrate create` writes new SQL files.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns the embedded SQL migration files.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(fmt.Sprintf("migrate: embedded migrations: %v", err))
	}
	return sub
}

// Applied is one migration executed by Ensure.
type Applied struct {
	Version  int64
	Source   string
	Duration time.Duration
}

// StatusEntry reports whether a known migration has been applied.
type StatusEntry struct {
	Version   int64
	Source    string
	Applied   bool
	AppliedAt time.Time
}

func newProvider(db *sql.DB) (*goose.Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, Migrations(),
		goose.WithGoMigrations(goMigrations()...),
	)
	if err != nil {
		return nil, fmt.Errorf("new goose provider: %w", err)
	}
	return provider, nil
}

// Ensure applies every pending migration in version order. Running it against
// an up-to-date database is a no-op.
func Ensure(ctx context.Context, db *sql.DB) ([]Applied, error) {
	provider, err := newProvider(db)
	if err != nil {
		return nil, err
	}

	results, err := provider.Up(ctx)
	var partial *goose.PartialError
	if errors.As(err, &partial) {
		results = partial.Applied
	}
	applied := make([]Applied, 0, len(results))
	for _, r := range results {
		if r == nil || r.Source == nil || r.Error != nil {
			continue
		}
		applied = append(applied, Applied{
			Version:  r.Source.Version,
			Source:   sourceName(r.Source),
			Duration: r.Duration,
		})
	}
	if err != nil {
		return applied, fmt.Errorf("goose up: %w", err)
	}
	return applied, nil
}

// Status lists every known migration with its applied state.
func Status(ctx context.Context, db *sql.DB) ([]StatusEntry, error) {
	provider, err := newProvider(db)
	if err != nil {
		return nil, err
	}
	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	out := make([]StatusEntry, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, StatusEntry{
			Version:   s.Source.Version,
			Source:    sourceName(s.Source),
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

// Version returns the highest applied migration version.
func Version(ctx context.Context, db *sql.DB) (int64, error) {
	provider, err := newProvider(db)
	if err != nil {
		return 0, err
	}
	v, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get db version: %w", err)
	}
	return v, nil
}

func sourceName(src *goose.Source) string {
	if src.Path != "" {
		return src.Path
	}
	return fmt.Sprintf("%d (go)", src.Version)
}

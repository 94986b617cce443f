package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/lopeshyago/fusionbackapp/pkg/config"
	"github.com/lopeshyago/fusionbackapp/pkg/db"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
	"github.com/lopeshyago/fusionbackapp/pkg/metrics"
)

// Recorder receives migration outcomes; *metrics.MigrationMetrics satisfies it.
type Recorder interface {
	ObserveRun(duration time.Duration, applied int, failed bool)
	SetVersion(version int64)
}

var _ Recorder = (*metrics.MigrationMetrics)(nil)

// AutoRun applies pending migrations at boot. A failure is returned unless
// cfg.Migrate.TolerateFailure is set, in which case it is logged and nil is
// returned so the process keeps serving on the schema it has.
func AutoRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client, rec Recorder) error {
	if !cfg.Migrate.AutoRun {
		logg.Info(ctx, "migrations auto-run disabled")
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "tolerate_failure": cfg.Migrate.TolerateFailure})
	logg.Info(ctx, "running migrations")

	start := time.Now()
	applied, runErr := Ensure(ctx, sqlDB)
	if rec != nil {
		rec.ObserveRun(time.Since(start), len(applied), runErr != nil)
	}
	for _, a := range applied {
		logg.Info(logg.WithFields(ctx, map[string]any{"version": a.Version, "source": a.Source, "duration_ms": a.Duration.Milliseconds()}), "migration applied")
	}

	if version, err := Version(ctx, sqlDB); err == nil {
		if rec != nil {
			rec.SetVersion(version)
		}
		ctx = logg.WithField(ctx, "schema_version", version)
	}

	if runErr != nil {
		if cfg.Migrate.TolerateFailure {
			logg.Error(ctx, "migrations failed; continuing on partial schema", runErr)
			return nil
		}
		return fmt.Errorf("running migrations: %w", runErr)
	}

	logg.Info(logg.WithField(ctx, "applied", len(applied)), "migrations completed")
	return nil
}

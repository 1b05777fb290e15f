// internal/app/bootstrap/run.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/sponsorlists/internal/app/features/reports"
	userstore "github.com/dalemusser/sponsorlists/internal/app/store/users"
	"github.com/dalemusser/sponsorlists/internal/app/system/timeouts"
	"github.com/dalemusser/sponsorlists/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// shutdownTimeout bounds the disconnect at the end of a run, which may
// happen after the run context was canceled.
const shutdownTimeout = 10 * time.Second

// Run is the process entry point: build the logger, load and validate
// config, then generate the reports. startedAt stamps the run directory.
//
// It returns an error only when the run could not be configured or a
// report file could not be written. Connection and query failures are
// logged and end in an empty or partial run.
func Run(ctx context.Context, startedAt time.Time) error {
	logger, level, err := NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return execute(ctx, startedAt, logger, level)
}

// execute runs everything after the logger exists. Failures are logged
// before they are returned.
func execute(ctx context.Context, startedAt time.Time, logger *zap.Logger, level zap.AtomicLevel) error {
	err := configureAndGenerate(ctx, startedAt, logger, level)
	if err != nil {
		logger.Error("run failed", zap.Error(err))
	}
	return err
}

func configureAndGenerate(ctx context.Context, startedAt time.Time, logger *zap.Logger, level zap.AtomicLevel) error {
	coreCfg, appCfg, err := LoadConfig(logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := ValidateConfig(coreCfg, appCfg, logger); err != nil {
		return err
	}
	lvl, _ := parseLogLevel(appCfg.LogLevel)
	level.SetLevel(lvl)
	logger.Debug("configuration loaded", zap.String("env", coreCfg.Env))

	return GenerateReports(ctx, appCfg, startedAt, logger)
}

// GenerateReports connects once, runs the reports, and disconnects.
func GenerateReports(ctx context.Context, appCfg AppConfig, startedAt time.Time, logger *zap.Logger) error {
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	timeouts.Configure(timeouts.Config{
		Ping:  appCfg.TimeoutPing,
		Query: appCfg.TimeoutQuery,
		Batch: appCfg.TimeoutBatch,
	})

	var src reports.Source
	deps, err := ConnectDB(ctx, appCfg, logger)
	if err != nil {
		logger.Error("error occurred when connecting to database", zap.Error(err))
		src = offlineSource{err: err}
	} else {
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = Shutdown(sctx, deps, logger)
		}()
		src = userstore.New(deps.MongoDatabase, logger)
	}

	runner := reports.NewRunner(src, reports.Config{
		Root:      appCfg.ReportsRoot,
		Sponsor:   appCfg.Sponsor,
		StartedAt: startedAt,
	}, logger)

	_, err = runner.Run(ctx)
	return err
}

// offlineSource stands in for the store when no connection could be made,
// so the runner takes its usual no-sponsors and skip paths.
type offlineSource struct {
	err error
}

func (o offlineSource) DiscoverSponsors(context.Context) ([]string, error) {
	return nil, o.err
}

func (o offlineSource) PriorityLists(context.Context, string) (models.PriorityLists, error) {
	return models.PriorityLists{}, o.err
}

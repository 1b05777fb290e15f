// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dalemusser/sponsorlists/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Bare environment names read when the prefixed keys are unset.
const (
	envMongoURI = "MONGO_URI"
	envDBName   = "DB_NAME"
)

// appConfigKeys defines the configuration keys for sponsorlists.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, reports_root, etc.
//   - Environment variables: SPONSORLISTS_MONGO_URI, SPONSORLISTS_SPONSOR, etc.
//   - Command-line flags: --mongo_uri, --sponsor, etc.
//
// log_level is a WAFFLE core key (SPONSORLISTS_LOG_LEVEL, --log_level) and
// must not be registered here.
var appConfigKeys = []config.AppKey{
	// An empty URI is not defaulted: a missing connection string must surface
	// as a connection error at run time.
	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI (falls back to MONGO_URI)"},
	{Name: "mongo_database", Default: "", Desc: "MongoDB database name (falls back to DB_NAME)"},
	{Name: "mongo_max_pool_size", Default: 10, Desc: "MongoDB max connection pool size (default: 10)"},

	{Name: "reports_root", Default: ".", Desc: "Directory the reports_<timestamp> directory is created in"},
	{Name: "sponsor", Default: "", Desc: "Report on this sponsor only, skipping discovery"},

	{Name: "timeout_ping", Default: "5s", Desc: "Timeout for the post-connect ping"},
	{Name: "timeout_query", Default: "30s", Desc: "Timeout for each sponsor list query"},
	{Name: "timeout_batch", Default: "2m", Desc: "Timeout for sponsor discovery"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, SPONSORLISTS_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
//
// MONGO_URI and DB_NAME are honored when the prefixed values are empty.
// The log level is taken from the core config.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SPONSORLISTS", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: cast.ToUint64(appValues["mongo_max_pool_size"]),

		ReportsRoot: appValues.String("reports_root"),
		Sponsor:     strings.TrimSpace(appValues.String("sponsor")),

		LogLevel: coreCfg.LogLevel,

		TimeoutPing:  appValues.Duration("timeout_ping", timeouts.DefaultPing),
		TimeoutQuery: appValues.Duration("timeout_query", timeouts.DefaultQuery),
		TimeoutBatch: appValues.Duration("timeout_batch", timeouts.DefaultBatch),
	}
	appCfg = applyEnvFallback(appCfg, os.Getenv)

	return coreCfg, appCfg, nil
}

// applyEnvFallback fills the connection settings from the bare MONGO_URI and
// DB_NAME variables when the prefixed configuration left them empty.
func applyEnvFallback(cfg AppConfig, getenv func(string) string) AppConfig {
	if cfg.MongoURI == "" {
		cfg.MongoURI = strings.TrimSpace(getenv(envMongoURI))
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = strings.TrimSpace(getenv(envDBName))
	}
	return cfg
}

// ValidateConfig performs app-specific config validation.
//
// Connection settings are left to ConnectDB, which reports a missing or bad
// URI as a connection error.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if strings.TrimSpace(appCfg.ReportsRoot) == "" {
		return errors.New("reports_root must not be empty")
	}
	if _, err := parseLogLevel(appCfg.LogLevel); err != nil {
		logger.Error("invalid log level", zap.String("log_level", appCfg.LogLevel), zap.Error(err))
		return fmt.Errorf("invalid log_level: %w", err)
	}
	for name, d := range map[string]time.Duration{
		"timeout_ping":  appCfg.TimeoutPing,
		"timeout_query": appCfg.TimeoutQuery,
		"timeout_batch": appCfg.TimeoutBatch,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}
	return nil
}

// parseLogLevel maps a config value to a zap level; "" means info.
func parseLogLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
}

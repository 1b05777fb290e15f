package bootstrap

import (
	"os"
	"testing"
	"time"

	"github.com/dalemusser/sponsorlists/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "hackathon",
		ReportsRoot:   ".",
		LogLevel:      "info",
		TimeoutPing:   time.Second,
		TimeoutQuery:  time.Second,
		TimeoutBatch:  time.Second,
	}
}

func TestApplyEnvFallback(t *testing.T) {
	env := map[string]string{
		"MONGO_URI": " mongodb://db.internal:27017 ",
		"DB_NAME":   "hackathon",
	}
	getenv := func(k string) string { return env[k] }

	t.Run("fills empty values", func(t *testing.T) {
		got := applyEnvFallback(AppConfig{}, getenv)
		if got.MongoURI != "mongodb://db.internal:27017" {
			t.Errorf("MongoURI = %q", got.MongoURI)
		}
		if got.MongoDatabase != "hackathon" {
			t.Errorf("MongoDatabase = %q", got.MongoDatabase)
		}
	})

	t.Run("prefixed values win", func(t *testing.T) {
		got := applyEnvFallback(AppConfig{MongoURI: "mongodb://primary", MongoDatabase: "events"}, getenv)
		if got.MongoURI != "mongodb://primary" {
			t.Errorf("MongoURI = %q, want prefixed value", got.MongoURI)
		}
		if got.MongoDatabase != "events" {
			t.Errorf("MongoDatabase = %q, want prefixed value", got.MongoDatabase)
		}
	})

	t.Run("nothing set anywhere", func(t *testing.T) {
		got := applyEnvFallback(AppConfig{}, func(string) string { return "" })
		if got.MongoURI != "" || got.MongoDatabase != "" {
			t.Errorf("expected empty connection settings, got %+v", got)
		}
	})
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", func(*AppConfig) {}, false},
		{"missing connection settings are not a config error", func(c *AppConfig) {
			c.MongoURI = ""
			c.MongoDatabase = ""
		}, false},
		{"empty reports root", func(c *AppConfig) { c.ReportsRoot = "  " }, true},
		{"bad log level", func(c *AppConfig) { c.LogLevel = "loud" }, true},
		{"negative timeout", func(c *AppConfig) { c.TimeoutQuery = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if err != nil {
				t.Fatalf("parseLogLevel(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// configEnv lists every variable LoadConfig reads for sponsorlists.
var configEnv = []string{
	"SPONSORLISTS_ENV",
	"SPONSORLISTS_LOG_LEVEL",
	"SPONSORLISTS_MONGO_URI",
	"SPONSORLISTS_MONGO_DATABASE",
	"SPONSORLISTS_MONGO_MAX_POOL_SIZE",
	"SPONSORLISTS_REPORTS_ROOT",
	"SPONSORLISTS_SPONSOR",
	"SPONSORLISTS_TIMEOUT_PING",
	"SPONSORLISTS_TIMEOUT_QUERY",
	"SPONSORLISTS_TIMEOUT_BATCH",
	"MONGO_URI",
	"DB_NAME",
}

// freshConfigEnv gives LoadConfig a clean flag set, the given command-line
// arguments, and an environment where every config variable is unset unless
// listed in env. WAFFLE registers its flags on pflag.CommandLine, so each
// load needs its own set.
func freshConfigEnv(t *testing.T, env map[string]string, args ...string) {
	t.Helper()

	oldFlags, oldArgs := pflag.CommandLine, os.Args
	pflag.CommandLine = pflag.NewFlagSet("sponsorlists", pflag.ContinueOnError)
	os.Args = append([]string{"sponsorlists"}, args...)
	t.Cleanup(func() {
		pflag.CommandLine = oldFlags
		os.Args = oldArgs
	})

	for _, k := range configEnv {
		t.Setenv(k, env[k])
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	freshConfigEnv(t, nil)

	coreCfg, appCfg, err := LoadConfig(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "dev", coreCfg.Env)
	assert.Equal(t, coreCfg.LogLevel, appCfg.LogLevel)
	assert.Empty(t, appCfg.MongoURI)
	assert.Empty(t, appCfg.MongoDatabase)
	assert.Equal(t, uint64(10), appCfg.MongoMaxPoolSize)
	assert.Equal(t, ".", appCfg.ReportsRoot)
	assert.Empty(t, appCfg.Sponsor)
	assert.Equal(t, timeouts.DefaultPing, appCfg.TimeoutPing)
	assert.Equal(t, timeouts.DefaultQuery, appCfg.TimeoutQuery)
	assert.Equal(t, timeouts.DefaultBatch, appCfg.TimeoutBatch)
	require.NoError(t, ValidateConfig(coreCfg, appCfg, testLogger()))
}

func TestLoadConfig_PrefixedEnvironment(t *testing.T) {
	freshConfigEnv(t, map[string]string{
		"SPONSORLISTS_LOG_LEVEL":           "warn",
		"SPONSORLISTS_MONGO_URI":           "mongodb://primary:27017",
		"SPONSORLISTS_MONGO_DATABASE":      "events",
		"SPONSORLISTS_MONGO_MAX_POOL_SIZE": "20",
		"SPONSORLISTS_REPORTS_ROOT":        "/srv/reports",
		"SPONSORLISTS_SPONSOR":             " acme@sponsor.io ",
		"SPONSORLISTS_TIMEOUT_QUERY":       "45s",
		"MONGO_URI":                        "mongodb://fallback:27017",
		"DB_NAME":                          "fallback",
	})

	_, appCfg, err := LoadConfig(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "warn", appCfg.LogLevel)
	assert.Equal(t, "mongodb://primary:27017", appCfg.MongoURI, "prefixed value wins over MONGO_URI")
	assert.Equal(t, "events", appCfg.MongoDatabase, "prefixed value wins over DB_NAME")
	assert.Equal(t, uint64(20), appCfg.MongoMaxPoolSize)
	assert.Equal(t, "/srv/reports", appCfg.ReportsRoot)
	assert.Equal(t, "acme@sponsor.io", appCfg.Sponsor)
	assert.Equal(t, 45*time.Second, appCfg.TimeoutQuery)
	assert.Equal(t, timeouts.DefaultBatch, appCfg.TimeoutBatch)
}

func TestLoadConfig_BareEnvironmentFallback(t *testing.T) {
	freshConfigEnv(t, map[string]string{
		"MONGO_URI": "mongodb://db.internal:27017",
		"DB_NAME":   "hackathon",
	})

	_, appCfg, err := LoadConfig(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db.internal:27017", appCfg.MongoURI)
	assert.Equal(t, "hackathon", appCfg.MongoDatabase)
}

func TestLoadConfig_Flags(t *testing.T) {
	freshConfigEnv(t, nil, "--sponsor=flag@sponsor.io", "--log_level=error", "--timeout_ping=2s")

	_, appCfg, err := LoadConfig(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "flag@sponsor.io", appCfg.Sponsor)
	assert.Equal(t, "error", appCfg.LogLevel)
	assert.Equal(t, 2*time.Second, appCfg.TimeoutPing)
}

// internal/app/bootstrap/connect.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/sponsorlists/internal/app/system/timeouts"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ErrConnect wraps every failure to open the run's database handle.
var ErrConnect = errors.New("database connection failed")

// ConnectDB opens the run's MongoDB client and verifies it with a ping.
//
// A missing or malformed URI, an empty database name, and an unreachable
// server are all reported as errors wrapping ErrConnect. On error no client
// is left open.
func ConnectDB(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	uri := strings.TrimSpace(appCfg.MongoURI)
	if uri == "" {
		return DBDeps{}, fmt.Errorf("%w: no MongoDB URI configured", ErrConnect)
	}
	if err := wafflemongo.ValidateURI(uri); err != nil {
		return DBDeps{}, fmt.Errorf("%w: invalid MongoDB URI: %v", ErrConnect, err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return DBDeps{}, fmt.Errorf("%w: no database name configured", ErrConnect)
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeouts.Ping())
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("%w: ping: %v", ErrConnect, err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

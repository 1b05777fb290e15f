// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds the configuration for a reporting run.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig keeps the
// framework-level settings; everything specific to sponsor reporting lives
// here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database holding the users collection
	MongoMaxPoolSize uint64 // Upper bound on pooled connections for the run's single client

	// Report output
	ReportsRoot string // Directory the reports_<timestamp> directory is created in
	Sponsor     string // When set, report on this sponsor only and skip discovery

	// Logging
	LogLevel string // debug | info | warn | error, copied from CoreConfig.LogLevel

	// Database timeouts
	TimeoutPing  time.Duration // Post-connect ping
	TimeoutQuery time.Duration // Each list query
	TimeoutBatch time.Duration // Sponsor discovery aggregation
}

// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers the HTTP listener, TLS, log level and request
// timeouts. AppConfig covers what is specific to the complaints service:
// where the collection lives, the optional cache, and request limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoCollection  string // Collection holding complaint documents
	MongoMaxPoolSize uint64 // Upper bound on pooled connections
	MongoMinPoolSize uint64 // Connections kept open while idle

	// Optional Redis read-through cache (disabled when RedisAddr is empty)
	RedisAddr string
	RedisTTL  time.Duration

	// Request handling
	MaxBodyBytes  int64         // Cap on POST /complaints bodies
	TimeoutShort  time.Duration // Single-document store calls
	TimeoutMedium time.Duration // Listing the collection
}

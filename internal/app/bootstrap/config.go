// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	complaintstore "github.com/dalemusser/complaints/internal/app/store/complaints"
	"github.com/dalemusser/complaints/internal/app/system/limits"
	"github.com/dalemusser/complaints/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the complaints service.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, redis_addr, etc.
//   - Environment variables: COMPLAINTS_MONGO_URI, COMPLAINTS_REDIS_ADDR, etc.
//   - Command-line flags: --mongo_uri, --redis_addr, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "complaints", Desc: "MongoDB database name"},
	{Name: "mongo_collection", Default: complaintstore.DefaultCollection, Desc: "MongoDB collection holding complaints"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 0, Desc: "MongoDB min connection pool size (default: 0)"},

	// Cache
	{Name: "redis_addr", Default: "", Desc: "Redis address (host:port) for the complaint cache; blank disables it"},
	{Name: "redis_ttl", Default: "5m", Desc: "Complaint cache entry lifetime (e.g., 30s, 5m)"},

	// Request handling
	{Name: "max_body_bytes", Default: limits.MaxComplaintBodySize, Desc: "Maximum POST /complaints body size in bytes"},
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-complaint store calls"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for listing all complaints"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// COMPLAINTS_* environment variables and flags with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COMPLAINTS", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoCollection:  appValues.String("mongo_collection"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RedisAddr: appValues.String("redis_addr"),
		RedisTTL:  appValues.Duration("redis_ttl", complaintstore.DefaultCacheTTL),

		MaxBodyBytes:  int64(appValues.Int("max_body_bytes")),
		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is checked here so configuration mistakes surface before
// any connection attempt.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateAppConfig(appCfg)
}

func validateAppConfig(appCfg AppConfig) error {
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoCollection == "" {
		return fmt.Errorf("mongo_collection must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize && appCfg.MongoMaxPoolSize != 0 {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if appCfg.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", appCfg.MaxBodyBytes)
	}
	if appCfg.TimeoutShort <= 0 || appCfg.TimeoutMedium <= 0 {
		return fmt.Errorf("store timeouts must be positive (short=%s, medium=%s)",
			appCfg.TimeoutShort, appCfg.TimeoutMedium)
	}
	if appCfg.RedisAddr != "" && appCfg.RedisTTL <= time.Duration(0) {
		return fmt.Errorf("redis_ttl must be positive when redis_addr is set")
	}
	return nil
}

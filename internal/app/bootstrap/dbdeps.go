// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the long-lived backend handles shared by every request.
// They are created in ConnectDB and released in Shutdown.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil when the complaint cache is disabled.
	Redis *redis.Client
}

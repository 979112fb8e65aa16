package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoURIEnv names an existing MongoDB to test against. When unset, a
// container is started with testcontainers.
const MongoURIEnv = "MONGO_TEST_URI"

var (
	mongoOnce   sync.Once
	mongoClient *mongo.Client
	mongoErr    error
)

// TestContext returns a context bounded for a single test's database work.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SetupTestDB returns a fresh, uniquely named database that is dropped when
// the test ends. The test is skipped when no MongoDB is reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	if os.Getenv(MongoURIEnv) == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}
	mongoOnce.Do(func() {
		mongoClient, mongoErr = connectTestMongo()
	})
	if mongoErr != nil {
		t.Skipf("mongo unavailable: %v", mongoErr)
	}

	name := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
	db := mongoClient.Database(name)
	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
	})
	return db
}

func connectTestMongo() (client *mongo.Client, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	uri := os.Getenv(MongoURIEnv)
	if uri == "" {
		uri, err = startMongoContainer(ctx)
		if err != nil {
			return nil, err
		}
	}

	client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// startMongoContainer runs a throwaway MongoDB. The container is reaped by
// testcontainers when the test binary exits.
func startMongoContainer(ctx context.Context) (uri string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("start mongo container: %v", r)
		}
	}()

	container, err := tcmongo.Run(ctx, "mongo:7")
	if err != nil {
		return "", fmt.Errorf("start mongo container: %w", err)
	}
	return container.ConnectionString(ctx)
}

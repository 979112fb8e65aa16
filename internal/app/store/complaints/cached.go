// internal/app/store/complaints/cached.go
package complaintstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dalemusser/complaints/internal/app/system/metrics"
	"github.com/dalemusser/complaints/internal/app/system/timeouts"
	"github.com/dalemusser/complaints/internal/domain/models"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	// cacheKeyPrefix namespaces complaint entries in Redis.
	cacheKeyPrefix = "complaint:"

	// DefaultCacheTTL applies when no TTL is configured.
	DefaultCacheTTL = 5 * time.Minute

	// tombstone marks a deleted id. FindByID treats it as a miss and the
	// read path never overwrites it.
	tombstone = "deleted"

	// minTombstoneTTL bounds how long a deleted id stays marked. It must
	// outlast any backend read that started before the delete.
	minTombstoneTTL = time.Minute
)

// Backend is the set of store operations CachedStore decorates.
type Backend interface {
	FindAll(ctx context.Context) ([]models.Complaint, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Complaint, bool, error)
	Insert(ctx context.Context, c models.Complaint) (models.Complaint, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// CachedStore is a read-through Redis cache in front of a Backend.
// Only found records are cached; Redis errors are logged and the request
// falls through to the backend.
//
// DeleteByID leaves a tombstone under the id's key. Reads populate the cache
// with SET NX, so a read that fetched a record before a concurrent delete
// cannot write it back over the tombstone.
type CachedStore struct {
	next Backend
	rdb  redis.Cmdable
	ttl  time.Duration
	log  *zap.Logger
	m    *metrics.Metrics
}

// NewCached wraps next with a Redis cache.
func NewCached(next Backend, rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{next: next, rdb: rdb, ttl: ttl, log: logger, m: m}
}

func cacheKey(id primitive.ObjectID) string {
	return cacheKeyPrefix + id.Hex()
}

// FindAll always reads from the backend.
func (s *CachedStore) FindAll(ctx context.Context) ([]models.Complaint, error) {
	return s.next.FindAll(ctx)
}

// FindByID serves from Redis when possible and populates it on a miss.
func (s *CachedStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Complaint, bool, error) {
	raw, err := s.rdb.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil && string(raw) == tombstone:
		s.m.IncCacheLookup(metrics.CacheMiss)
		return s.next.FindByID(ctx, id)
	case err == nil:
		var c models.Complaint
		if jerr := json.Unmarshal(raw, &c); jerr == nil {
			s.m.IncCacheLookup(metrics.CacheHit)
			return c, true, nil
		}
		s.log.Warn("complaint cache entry undecodable", zap.String("id", id.Hex()))
		s.m.IncCacheLookup(metrics.CacheError)
	case errors.Is(err, redis.Nil):
		s.m.IncCacheLookup(metrics.CacheMiss)
	default:
		s.log.Warn("complaint cache get failed", zap.String("id", id.Hex()), zap.Error(err))
		s.m.IncCacheLookup(metrics.CacheError)
	}

	c, found, err := s.next.FindByID(ctx, id)
	if err != nil || !found {
		return c, found, err
	}
	s.fill(ctx, c)
	return c, true, nil
}

// Insert writes to the backend, then to the cache.
func (s *CachedStore) Insert(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	out, err := s.next.Insert(ctx, c)
	if err != nil {
		return out, err
	}
	s.put(ctx, out)
	return out, nil
}

// DeleteByID deletes from the backend and replaces the cache entry with a
// tombstone.
func (s *CachedStore) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	n, err := s.next.DeleteByID(ctx, id)
	if err != nil {
		return n, err
	}
	if serr := s.rdb.Set(ctx, cacheKey(id), tombstone, s.tombstoneTTL()).Err(); serr != nil {
		s.log.Error("complaint cache invalidate failed", zap.String("id", id.Hex()), zap.Error(serr))
	}
	return n, nil
}

func (s *CachedStore) tombstoneTTL() time.Duration {
	if d := 2 * timeouts.Short(); d > minTombstoneTTL {
		return d
	}
	return minTombstoneTTL
}

// put overwrites the entry for c. Used on writes.
func (s *CachedStore) put(ctx context.Context, c models.Complaint) {
	raw, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(c.ID), raw, s.ttl).Err(); err != nil {
		s.log.Warn("complaint cache set failed", zap.String("id", c.ID.Hex()), zap.Error(err))
	}
}

// fill stores c only if the key is empty. Used on reads.
func (s *CachedStore) fill(ctx context.Context, c models.Complaint) {
	raw, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := s.rdb.SetNX(ctx, cacheKey(c.ID), raw, s.ttl).Err(); err != nil {
		s.log.Warn("complaint cache fill failed", zap.String("id", c.ID.Hex()), zap.Error(err))
	}
}

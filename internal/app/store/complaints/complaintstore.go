// internal/app/store/complaints/complaintstore.go
package complaintstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/complaints/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultCollection is the collection complaints live in unless configured otherwise.
const DefaultCollection = "complaints"

// ErrStoreUnavailable wraps every failure reported by the database.
// Callers map it to a server error.
var ErrStoreUnavailable = errors.New("complaint store unavailable")

// Store provides access to the complaints collection.
// The collection handle is shared by all requests and is safe for concurrent use.
type Store struct {
	c *mongo.Collection
}

// New creates a complaint store on the default collection.
func New(db *mongo.Database) *Store {
	return NewWithCollection(db, DefaultCollection)
}

// NewWithCollection creates a complaint store on the named collection.
func NewWithCollection(db *mongo.Database, name string) *Store {
	if name == "" {
		name = DefaultCollection
	}
	return &Store{c: db.Collection(name)}
}

// Collection exposes the underlying collection handle.
func (s *Store) Collection() *mongo.Collection {
	return s.c
}

// FindAll returns every complaint in store order. The result is never nil.
func (s *Store) FindAll(ctx context.Context) ([]models.Complaint, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: find all: %w", ErrStoreUnavailable, err)
	}
	defer cur.Close(ctx)

	out := make([]models.Complaint, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode all: %w", ErrStoreUnavailable, err)
	}
	return out, nil
}

// FindByID looks up one complaint. A missing record is reported as
// found=false with a nil error.
func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (models.Complaint, bool, error) {
	var c models.Complaint
	err := s.c.FindOne(ctx, bson.M{models.FieldID: id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Complaint{}, false, nil
	}
	if err != nil {
		return models.Complaint{}, false, fmt.Errorf("%w: find %s: %w", ErrStoreUnavailable, id.Hex(), err)
	}
	return c, true, nil
}

// Insert persists c exactly as given. The caller assigns ID and Version.
func (s *Store) Insert(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	if c.ID.IsZero() {
		return models.Complaint{}, fmt.Errorf("insert: %w", models.ErrMalformedID)
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Complaint{}, fmt.Errorf("%w: insert %s: %w", ErrStoreUnavailable, c.ID.Hex(), err)
	}
	return c, nil
}

// DeleteByID removes at most one complaint and returns how many were removed.
func (s *Store) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{models.FieldID: id})
	if err != nil {
		return 0, fmt.Errorf("%w: delete %s: %w", ErrStoreUnavailable, id.Hex(), err)
	}
	return res.DeletedCount, nil
}

// Count returns the estimated number of complaints.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.c.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: count: %w", ErrStoreUnavailable, err)
	}
	return n, nil
}

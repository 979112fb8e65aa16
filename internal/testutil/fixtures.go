package testutil

import (
	"context"
	"testing"

	complaintstore "github.com/dalemusser/complaints/internal/app/store/complaints"
	"github.com/dalemusser/complaints/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// CreateComplaint inserts a complaint directly into the complaints collection.
func (f *Fixtures) CreateComplaint(ctx context.Context, text string) models.Complaint {
	f.t.Helper()

	c := models.Complaint{
		ID:      primitive.NewObjectID(),
		Text:    text,
		Version: models.InitialVersion,
	}
	if _, err := f.db.Collection(complaintstore.DefaultCollection).InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test complaint: %v", err)
	}
	return c
}

// CreateRawComplaint inserts an arbitrary document, for records that were not
// written by this service.
func (f *Fixtures) CreateRawComplaint(ctx context.Context, doc any) {
	f.t.Helper()

	if _, err := f.db.Collection(complaintstore.DefaultCollection).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to create raw complaint: %v", err)
	}
}

// internal/domain/models/complaint.go
package models

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field names shared by the BSON documents and the JSON wire format.
// Existing consumers read these exact names, so they must not change.
const (
	FieldID      = "_id"
	FieldText    = "complaint"
	FieldVersion = "__v"
)

// InitialVersion is the version every complaint is created with.
const InitialVersion = 0

var (
	// ErrValidation is returned when required input is missing or blank.
	ErrValidation = errors.New("validation failed")

	// ErrMalformedID is returned when an identifier is not a 24-character hex ObjectID.
	ErrMalformedID = errors.New("malformed complaint id")

	// ErrNotFound is returned when a well-formed id matches no complaint.
	ErrNotFound = errors.New("complaint not found")
)

// Complaint is a persisted complaint record. ID and Version are always set.
type Complaint struct {
	ID      primitive.ObjectID `bson:"_id" json:"_id"`
	Text    string             `bson:"complaint" json:"complaint"`
	Version int                `bson:"__v" json:"__v"`
}

// NewComplaint is the body of a create request. It carries no identifier
// or version; those are assigned when the record is built.
type NewComplaint struct {
	Text string `json:"complaint"`
}

// Validate reports ErrValidation when the complaint text is empty or
// whitespace-only.
func (n NewComplaint) Validate() error {
	if strings.TrimSpace(n.Text) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, FieldText)
	}
	return nil
}

// Build validates n and returns the record to persist, with a fresh ObjectID
// and the initial version.
func (n NewComplaint) Build() (Complaint, error) {
	if err := n.Validate(); err != nil {
		return Complaint{}, err
	}
	return Complaint{
		ID:      primitive.NewObjectID(),
		Text:    n.Text,
		Version: InitialVersion,
	}, nil
}

// ParseComplaintID parses the 24-character hex form of a complaint id.
func ParseComplaintID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrMalformedID, s)
	}
	return id, nil
}

package domain

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	dErrors "gesclient/pkg/domain-errors"
)

// ID identifies a stored document. It is the hex form of a MongoDB ObjectID,
// minted the same way by the in-memory stores.
type ID string

// NewID mints a fresh document id.
func NewID() ID {
	return ID(primitive.NewObjectID().Hex())
}

// ParseID constructs an ID from external input such as a path parameter.
//
// Errors: returns CodeInvalidInput when the value is empty or not a 24-char
// hex ObjectID.
func ParseID(raw string) (ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil || oid.IsZero() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "id must be a 24-character hex identifier")
	}
	return ID(oid.Hex()), nil
}

// ObjectID converts the id back to its driver representation. The id must
// come from NewID or ParseID.
func (id ID) ObjectID() primitive.ObjectID {
	oid, _ := primitive.ObjectIDFromHex(string(id))
	return oid
}

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}

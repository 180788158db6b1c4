package model

import (
	"github.com/google/uuid"
)

// ID is the opaque 128-bit document identifier assigned on add and
// stable for the document's lifetime, per the data model's doc-id
// invariant.
type ID uuid.UUID

// NilID is the zero value, returned alongside an error whenever an
// operation cannot produce a valid id.
var NilID ID

// NewID assigns a fresh random 128-bit id.
func NewID() ID {
	return ID(uuid.New())
}

// DeriveID produces a stable id for a caller-supplied external id
// string, so repeated add/update calls naming the same external id
// converge on the same internal id.
func DeriveID(external string) ID {
	return ID(uuid.NewSHA1(uuid.Nil, []byte(external)))
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether id is the zero-value identifier.
func (id ID) IsNil() bool {
	return id == NilID
}

// ParseID parses the canonical string form of an id, as stored in the
// snapshot and journal files.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilID, err
	}
	return ID(u), nil
}

// Package identity canonicalizes user and team references.
//
// Historic records store the same reference in two encodings: a raw Mongo
// ObjectID and its 24-character hex rendering. Every membership or ownership
// comparison must go through this package; comparing stored fields directly
// silently misses data written under the other encoding.
package identity

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID is the canonical comparable form of a reference: the lowercase hex
// rendering of an ObjectID, or the raw string when it is not a valid ObjectID.
type ID string

// String returns the canonical form as a plain string.
func (id ID) String() string { return string(id) }

// Normalize canonicalizes a textual reference. It has no side effects and never
// fails; an unparseable reference keeps its raw form and simply compares
// unequal to every valid one.
func Normalize(ref string) ID {
	if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
		return ID(oid.Hex())
	}
	return ID(ref)
}

// FromValue canonicalizes a reference read from a document, where the stored
// value may be an ObjectID or a string.
func FromValue(v interface{}) ID {
	switch ref := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return ID(ref.Hex())
	case string:
		return Normalize(ref)
	default:
		return Normalize(fmt.Sprint(ref))
	}
}

// Equal reports whether two references denote the same identity regardless of
// encoding. It is symmetric and transitive.
func Equal(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return Normalize(a) == Normalize(b)
}

// Forms returns every stored encoding a reference may appear under, for use in
// document-store $in filters. A query matching only one encoding silently
// fails against data written under the other.
func Forms(ref string) []interface{} {
	if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
		return []interface{}{oid.Hex(), oid}
	}
	return []interface{}{ref}
}

// IsValid reports whether ref is a parseable ObjectID encoding.
func IsValid(ref string) bool {
	_, err := primitive.ObjectIDFromHex(ref)
	return err == nil
}

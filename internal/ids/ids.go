// Package ids provides type-safe UUIDv4 identifiers using a phantom type
// parameter, so a SessionId and a StreamId can never be compared or passed
// to each other's functions by mistake, at zero runtime cost.
//
// This mirrors original_source's pjs-domain::value_objects::id::Id<T>
// (a sealed-trait phantom marker over Uuid), translated to Go generics: a
// sealed interface stands in for Rust's sealed trait, and the marker type
// parameter contributes no field to Id[T], so its size and alignment equal
// uuid.UUID's.
package ids

import (
	"fmt"

	"github.com/google/uuid"
)

// marker is implemented only by types declared in this package, so
// external packages cannot mint their own Id[T] marker types.
type marker interface {
	sealed()
}

// SessionMarker tags identifiers that name a Session.
type SessionMarker struct{}

func (SessionMarker) sealed() {}

// StreamMarker tags identifiers that name a Stream.
type StreamMarker struct{}

func (StreamMarker) sealed() {}

// Id is a UUIDv4 identifier distinguished at compile time by T.
type Id[T marker] struct {
	value uuid.UUID
}

// New returns a fresh random (v4) identifier.
func New[T marker]() Id[T] {
	return Id[T]{value: uuid.New()}
}

// FromUUID wraps an existing UUID.
func FromUUID[T marker](u uuid.UUID) Id[T] {
	return Id[T]{value: u}
}

// Parse parses the string representation of a UUID into an Id.
func Parse[T marker](s string) (Id[T], error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Id[T]{}, fmt.Errorf("ids: parse %q: %w", s, err)
	}
	return Id[T]{value: u}, nil
}

// UUID returns the underlying UUID.
func (id Id[T]) UUID() uuid.UUID { return id.value }

// String renders the canonical UUID string form.
func (id Id[T]) String() string { return id.value.String() }

// IsZero reports whether the identifier is the zero UUID (unset).
func (id Id[T]) IsZero() bool { return id.value == uuid.Nil }

// Equal reports whether two identifiers of the same type are equal.
func (id Id[T]) Equal(other Id[T]) bool { return id.value == other.value }

// SessionID names a Session.
type SessionID = Id[SessionMarker]

// StreamID names a Stream.
type StreamID = Id[StreamMarker]

// NewSessionID returns a fresh SessionID.
func NewSessionID() SessionID { return New[SessionMarker]() }

// NewStreamID returns a fresh StreamID.
func NewStreamID() StreamID { return New[StreamMarker]() }

package ids

import (
	"unsafe"

	"github.com/google/uuid"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdIsZeroCost(t *testing.T) {
	var id SessionID
	var raw uuid.UUID

	assert.Equal(t, unsafe.Sizeof(raw), unsafe.Sizeof(id), "Id[T] must be the same size as uuid.UUID")
	assert.Equal(t, unsafe.Alignof(raw), unsafe.Alignof(id), "Id[T] must have the same alignment as uuid.UUID")
}

func TestNewIdsAreUnique(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	assert.NotEqual(t, a, b)
	assert.Equal(t, uuid.Version(4), a.UUID().Version())
}

func TestDistinctMarkerTypesFromSameUUID(t *testing.T) {
	u := uuid.New()
	sessionID := FromUUID[SessionMarker](u)
	streamID := FromUUID[StreamMarker](u)

	// Same underlying UUID, but the Go type system keeps them distinct:
	// sessionID and streamID cannot be compared or assigned to each
	// other without an explicit conversion through uuid.UUID.
	assert.Equal(t, u, sessionID.UUID())
	assert.Equal(t, u, streamID.UUID())
}

func TestParseRoundtrip(t *testing.T) {
	u := uuid.New()
	parsed, err := Parse[SessionMarker](u.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equal(FromUUID[SessionMarker](u)))

	_, err = Parse[SessionMarker]("not-a-uuid")
	assert.Error(t, err)
}

func TestIsZero(t *testing.T) {
	var id SessionID
	assert.True(t, id.IsZero())

	id = NewSessionID()
	assert.False(t, id.IsZero())
}

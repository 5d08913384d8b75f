package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odin-labs/pjs/internal/ids"
	"github.com/odin-labs/pjs/internal/jsonpath"
	"github.com/odin-labs/pjs/internal/priority"
	"github.com/odin-labs/pjs/internal/value"
)

func TestRoundtripPatchFrame(t *testing.T) {
	streamID := ids.NewStreamID()
	path, _ := jsonpath.Parse("/name")
	payload, err := PatchPayload(path, value.String("Alice"))
	require.NoError(t, err)

	f := Frame{
		Kind:     KindPatch,
		StreamID: streamID,
		Sequence: 3,
		Priority: priority.High,
		Path:     path,
		Payload:  payload,
		Flags:    FlagChecksum,
	}

	wire, err := Encode(f)
	require.NoError(t, err)

	decoded, err := Decode(wire, streamID)
	require.NoError(t, err)

	assert.Equal(t, f.Kind, decoded.Kind)
	assert.Equal(t, f.StreamID, decoded.StreamID)
	assert.Equal(t, f.Sequence, decoded.Sequence)
	assert.Equal(t, f.Payload, decoded.Payload)
	assert.True(t, f.Path.Equal(decoded.Path))
	assert.Equal(t, priority.Priority(0), decoded.Priority, "priority is generation-only and never carried on the wire")
}

func TestRoundtripSkeletonFrame(t *testing.T) {
	streamID := ids.NewStreamID()
	root, err := value.Parse([]byte(`{"id":1,"name":"x"}`))
	require.NoError(t, err)

	payload, err := SkeletonPayload(root)
	require.NoError(t, err)

	f := Frame{Kind: KindSkeleton, StreamID: streamID, Sequence: 0, Payload: payload}
	wire, err := Encode(f)
	require.NoError(t, err)

	decoded, err := Decode(wire, streamID)
	require.NoError(t, err)
	assert.Equal(t, KindSkeleton, decoded.Kind)
	assert.Equal(t, payload, decoded.Payload)
}

func TestRoundtripCompleteFrame(t *testing.T) {
	streamID := ids.NewStreamID()
	f := Frame{Kind: KindComplete, StreamID: streamID, Sequence: 7, Payload: CompletePayload()}

	wire, err := Encode(f)
	require.NoError(t, err)

	decoded, err := Decode(wire, streamID)
	require.NoError(t, err)
	assert.Equal(t, KindComplete, decoded.Kind)
	assert.Empty(t, decoded.Payload)
}

func TestRoundtripErrorFrame(t *testing.T) {
	streamID := ids.NewStreamID()
	f := Frame{Kind: KindError, StreamID: streamID, Sequence: 2, Payload: ErrorPayload("cancelled")}

	wire, err := Encode(f)
	require.NoError(t, err)

	decoded, err := Decode(wire, streamID)
	require.NoError(t, err)
	assert.Equal(t, KindError, decoded.Kind)
	assert.Equal(t, "cancelled", ErrorReason(decoded.Payload))
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	streamID := ids.NewStreamID()
	wire, err := Encode(Frame{Kind: KindComplete, StreamID: streamID})
	require.NoError(t, err)
	wire[0] = 2

	_, err = Decode(wire, streamID)
	assert.Error(t, err)
}

func TestDecodeRejectsBadChecksum(t *testing.T) {
	streamID := ids.NewStreamID()
	payload, err := PatchPayload(jsonpath.Root(), value.Int(1))
	require.NoError(t, err)

	wire, err := Encode(Frame{Kind: KindPatch, StreamID: streamID, Payload: payload, Flags: FlagChecksum})
	require.NoError(t, err)

	wire[len(wire)-1] ^= 0xFF // corrupt last payload byte

	_, err = Decode(wire, streamID)
	assert.Error(t, err)
}

func TestDecodeRejectsTruncatedFrame(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3}, ids.NewStreamID())
	assert.Error(t, err)
}

func TestDecodeRejectsPayloadLengthMismatch(t *testing.T) {
	streamID := ids.NewStreamID()
	wire, err := Encode(Frame{Kind: KindComplete, StreamID: streamID, Payload: []byte("x")})
	require.NoError(t, err)

	wire = append(wire, []byte("extra")...)

	_, err = Decode(wire, streamID)
	assert.Error(t, err)
}

func TestFeatureFlagsSurviveRoundtrip(t *testing.T) {
	streamID := ids.NewStreamID()
	f := Frame{Kind: KindSkeleton, StreamID: streamID, Flags: FlagFinal | FlagNumeric}

	wire, err := Encode(f)
	require.NoError(t, err)

	decoded, err := Decode(wire, streamID)
	require.NoError(t, err)
	assert.Equal(t, FlagFinal|FlagNumeric, decoded.Flags)
}

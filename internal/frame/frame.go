// Package frame implements the Frame entity and its wire codec: the
// 23-byte little-endian header plus payload that the streamer emits and
// the reconstructor consumes.
package frame

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/odin-labs/pjs/internal/ids"
	"github.com/odin-labs/pjs/internal/jsonpath"
	"github.com/odin-labs/pjs/internal/pjserr"
	"github.com/odin-labs/pjs/internal/priority"
)

// Kind discriminates the four frame types. It is encoded on the wire in
// bits 8-9 (counting from 0) of the flags field (shift = 8), not as a
// separate byte.
type Kind uint8

const (
	KindPatch Kind = iota
	KindSkeleton
	KindComplete
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindPatch:
		return "patch"
	case KindSkeleton:
		return "skeleton"
	case KindComplete:
		return "complete"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Flags is the wire bitset. Bits 0-7 are pass-through feature flags; bits
// 8-9 (shifted) carry the frame Kind.
type Flags uint16

const (
	FlagCompressed Flags = 1 << 0
	FlagEncrypted  Flags = 1 << 1
	FlagChunked    Flags = 1 << 2
	FlagFinal      Flags = 1 << 3
	FlagSchema     Flags = 1 << 4
	FlagSimdHint   Flags = 1 << 5
	FlagNumeric    Flags = 1 << 6
	FlagChecksum   Flags = 1 << 7
)

const (
	kindShift = 8
	kindMask  = 0x3
)

const (
	wireVersion  byte = 1
	headerLength      = 23
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// Frame is the transport unit moved from Streamer to transport to
// Reconstructor. StreamID and Priority are in-memory-only: they are not
// wire fields (see Encode/Decode).
type Frame struct {
	Kind     Kind
	StreamID ids.StreamID
	Sequence uint64
	Priority priority.Priority
	Path     jsonpath.Path
	Payload  []byte
	SchemaID uint32
	Flags    Flags // pass-through feature bits only; kind bits are managed separately
}

// kindBits returns the 2-bit wire encoding for k.
func kindBits(k Kind) (uint16, error) {
	switch k {
	case KindPatch:
		return 0b00, nil
	case KindSkeleton:
		return 0b01, nil
	case KindComplete:
		return 0b10, nil
	case KindError:
		return 0b11, nil
	default:
		return 0, pjserr.New(pjserr.InvalidFrame, "unknown frame kind %d", k)
	}
}

func kindFromBits(bits uint16) (Kind, error) {
	switch bits {
	case 0b00:
		return KindPatch, nil
	case 0b01:
		return KindSkeleton, nil
	case 0b10:
		return KindComplete, nil
	case 0b11:
		return KindError, nil
	default:
		return 0, pjserr.New(pjserr.InvalidFrame, "unreachable kind bits %d", bits)
	}
}

// Encode serializes f into its wire representation. Path and StreamID are
// not written: Path is recoverable from the Patch JSON payload on decode,
// and StreamID is scoped by the transport's connection context.
func Encode(f Frame) ([]byte, error) {
	bits, err := kindBits(f.Kind)
	if err != nil {
		return nil, err
	}

	featureBits := uint16(f.Flags) &^ (kindMask << kindShift)
	wireFlags := featureBits | (bits << kindShift)

	checksum := uint32(0)
	if wireFlags&uint16(FlagChecksum) != 0 {
		checksum = crc32.Checksum(f.Payload, crc32cTable)
	}

	buf := make([]byte, headerLength+len(f.Payload))
	buf[0] = wireVersion
	binary.LittleEndian.PutUint16(buf[1:3], wireFlags)
	binary.LittleEndian.PutUint64(buf[3:11], f.Sequence)
	binary.LittleEndian.PutUint32(buf[11:15], uint32(len(f.Payload)))
	binary.LittleEndian.PutUint32(buf[15:19], f.SchemaID)
	binary.LittleEndian.PutUint32(buf[19:23], checksum)
	copy(buf[headerLength:], f.Payload)

	return buf, nil
}

// Decode parses a wire frame previously produced by Encode. streamID is
// supplied by the caller's transport context since it is not a wire
// field. Priority is left at its zero value: it is a generation-time-only
// property per spec, never carried on the wire.
func Decode(data []byte, streamID ids.StreamID) (Frame, error) {
	if len(data) < headerLength {
		return Frame{}, pjserr.New(pjserr.InvalidFrame, "frame too short: %d bytes", len(data))
	}
	if data[0] != wireVersion {
		return Frame{}, pjserr.New(pjserr.InvalidFrame, "unsupported version %d", data[0])
	}

	wireFlags := binary.LittleEndian.Uint16(data[1:3])
	sequence := binary.LittleEndian.Uint64(data[3:11])
	payloadLength := binary.LittleEndian.Uint32(data[11:15])
	schemaID := binary.LittleEndian.Uint32(data[15:19])
	checksum := binary.LittleEndian.Uint32(data[19:23])

	payload := data[headerLength:]
	if uint32(len(payload)) != payloadLength {
		return Frame{}, pjserr.New(pjserr.InvalidFrame, "payload_length %d does not match actual payload %d", payloadLength, len(payload))
	}

	if wireFlags&uint16(FlagChecksum) != 0 {
		if crc32.Checksum(payload, crc32cTable) != checksum {
			return Frame{}, pjserr.New(pjserr.InvalidFrame, "checksum mismatch")
		}
	}

	kindBitsVal := (wireFlags >> kindShift) & kindMask
	kind, err := kindFromBits(kindBitsVal)
	if err != nil {
		return Frame{}, err
	}

	featureFlags := Flags(wireFlags &^ (kindMask << kindShift))

	f := Frame{
		Kind:     kind,
		StreamID: streamID,
		Sequence: sequence,
		SchemaID: schemaID,
		Flags:    featureFlags,
		Payload:  append([]byte(nil), payload...),
	}

	if kind == KindPatch {
		path, err := PatchPath(f.Payload)
		if err != nil {
			return Frame{}, err
		}
		f.Path = path
	}

	return f, nil
}

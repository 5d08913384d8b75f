// Package pjserr defines the PJS error taxonomy: a closed set of kinds
// rather than a sprawl of sentinel error values, so callers can branch on
// recovery strategy (fatal-for-stream, report-only, internal-only) without
// string matching.
package pjserr

import "fmt"

// Kind classifies a PJS error by its recovery strategy.
type Kind string

const (
	// InvalidFrame marks a wire-format violation: bad version, length
	// mismatch, bad checksum, or a sequence gap/duplicate. Fatal for the
	// stream.
	InvalidFrame Kind = "invalid_frame"

	// InvalidPath marks a path that cannot be resolved against the
	// working document. Fatal for the stream.
	InvalidPath Kind = "invalid_path"

	// InvalidPriority marks an out-of-range priority value. Must never
	// leak past the boundary that constructs a Priority.
	InvalidPriority Kind = "invalid_priority"

	// InvalidStreamState marks an operation attempted outside the stream
	// states that permit it.
	InvalidStreamState Kind = "invalid_stream_state"

	// InvalidSessionState marks an operation attempted outside the
	// session states that permit it.
	InvalidSessionState Kind = "invalid_session_state"

	// TooManyStreams marks a rejected OpenStream because the session is
	// already at its concurrency cap. The session remains healthy.
	TooManyStreams Kind = "too_many_streams"

	// InsufficientCredits is internal only: it never surfaces to a
	// caller, it causes the streamer to suspend instead.
	InsufficientCredits Kind = "insufficient_credits"

	// Cancelled marks a cooperative cancellation. Terminal for the
	// stream via an Error frame.
	Cancelled Kind = "cancelled"

	// Timeout marks an ack or session-idle timeout.
	Timeout Kind = "timeout"

	// Internal marks an unexpected failure recovered from a panic inside
	// the generation or reconstruction algorithms. Fatal for the stream.
	Internal Kind = "internal"
)

// Error is a PJS error carrying a Kind alongside a human-readable message
// and, optionally, the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around an existing cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	pe, ok := err.(*Error)
	if !ok {
		return false
	}
	return pe.Kind == kind
}

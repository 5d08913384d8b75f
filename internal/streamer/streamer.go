// Package streamer implements the frame-generation algorithm (spec.md
// §4.3): skeleton emission, depth-first flatten with subtree folding,
// threshold filtering, stable priority/document-order sort, frame-count
// budgeting, and Complete/Error emission under flow control.
package streamer

import (
	"context"
	"sort"

	"github.com/odin-labs/pjs/internal/frame"
	"github.com/odin-labs/pjs/internal/ids"
	"github.com/odin-labs/pjs/internal/jsonpath"
	"github.com/odin-labs/pjs/internal/pjserr"
	"github.com/odin-labs/pjs/internal/priority"
	"github.com/odin-labs/pjs/internal/priorityassign"
	"github.com/odin-labs/pjs/internal/value"
)

// Config is StreamConfig: the per-generation tuning the spec names.
type Config struct {
	PriorityThreshold priority.Priority
	MaxFrames         int // 0 = unlimited
	EmitSkeleton      bool
}

// DefaultConfig returns the documented defaults: emit a skeleton, every
// priority tier passes the threshold, no frame budget.
func DefaultConfig() Config {
	return Config{
		PriorityThreshold: priority.Background,
		MaxFrames:         0,
		EmitSkeleton:      true,
	}
}

// StreamHandle is the per-stream collaborator the streamer suspends on
// and reports to. Session's Stream type implements this.
type StreamHandle interface {
	ID() ids.StreamID
	NextSequence() uint64
	RecordEmittedPath(path jsonpath.Path)
	// Throttle blocks before the next Patch emission per spec.md §5: Pause
	// (indefinite), then SlowDown (soft delay), then FlowControlCredits
	// (consume one unit), in that order. It returns ctx.Err()-wrapped
	// pjserr.Cancelled if ctx is cancelled while suspended.
	Throttle(ctx context.Context) error
	// Cancelled reports whether cooperative cancellation has been
	// requested. Checked before every emit and immediately after waking
	// from a suspension.
	Cancelled() bool
}

// Sink receives frames as the streamer produces them, in emission order.
type Sink interface {
	Send(ctx context.Context, f frame.Frame) error
}

// Generate runs the full generation algorithm against root, pushing
// frames to sink via handle. It returns the Kind of the terminal frame
// it sent (Complete or Error) so the caller can drive its own stream
// state machine; a non-nil error means either the terminal frame itself
// failed to send, or (when the returned Kind is KindError) the stream
// ended abnormally but the Error frame was delivered successfully.
func Generate(ctx context.Context, handle StreamHandle, sink Sink, root *value.Data, cfg Config, assignCfg priorityassign.Config) (terminal frame.Kind, err error) {
	defer func() {
		if r := recover(); r != nil {
			internalErr := pjserr.New(pjserr.Internal, "panic during frame generation: %v", r)
			_ = emitError(ctx, handle, sink, internalErr.Error())
			terminal, err = frame.KindError, internalErr
		}
	}()

	if cfg.EmitSkeleton {
		if err := emitSkeleton(ctx, handle, sink, root); err != nil {
			_ = emitError(ctx, handle, sink, err.Error())
			return frame.KindError, err
		}
	}

	candidates, _, _ := flatten(jsonpath.Root(), root, nil, assignCfg)

	filtered := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.priority >= cfg.PriorityThreshold {
			filtered = append(filtered, c)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].priority > filtered[j].priority
	})

	if cfg.MaxFrames > 0 && len(filtered) > cfg.MaxFrames {
		filtered = filtered[:cfg.MaxFrames]
	}

	for _, c := range filtered {
		if handle.Cancelled() {
			return frame.KindError, emitCancelled(ctx, handle, sink)
		}

		if err := handle.Throttle(ctx); err != nil {
			if handle.Cancelled() {
				return frame.KindError, emitCancelled(ctx, handle, sink)
			}
			return frame.KindError, emitError(ctx, handle, sink, err.Error())
		}

		if handle.Cancelled() {
			return frame.KindError, emitCancelled(ctx, handle, sink)
		}

		if err := emitPatch(ctx, handle, sink, c); err != nil {
			_ = emitError(ctx, handle, sink, err.Error())
			return frame.KindError, err
		}
	}

	if err := emitComplete(ctx, handle, sink); err != nil {
		return frame.KindComplete, err
	}
	return frame.KindComplete, nil
}

func emitSkeleton(ctx context.Context, handle StreamHandle, sink Sink, root *value.Data) error {
	payload, err := frame.SkeletonPayload(root)
	if err != nil {
		return pjserr.Wrap(pjserr.InvalidFrame, err, "build skeleton payload")
	}
	f := frame.Frame{
		Kind:     frame.KindSkeleton,
		StreamID: handle.ID(),
		Sequence: handle.NextSequence(),
		Payload:  payload,
		Flags:    frame.FlagChecksum,
	}
	return sink.Send(ctx, f)
}

func emitPatch(ctx context.Context, handle StreamHandle, sink Sink, c candidate) error {
	payload, err := frame.PatchPayload(c.path, c.value)
	if err != nil {
		return pjserr.Wrap(pjserr.InvalidFrame, err, "build patch payload for %s", c.path.String())
	}
	f := frame.Frame{
		Kind:     frame.KindPatch,
		StreamID: handle.ID(),
		Sequence: handle.NextSequence(),
		Priority: c.priority,
		Path:     c.path,
		Payload:  payload,
		Flags:    frame.FlagChecksum,
	}
	if err := sink.Send(ctx, f); err != nil {
		return err
	}
	handle.RecordEmittedPath(c.path)
	return nil
}

func emitComplete(ctx context.Context, handle StreamHandle, sink Sink) error {
	f := frame.Frame{
		Kind:     frame.KindComplete,
		StreamID: handle.ID(),
		Sequence: handle.NextSequence(),
		Payload:  frame.CompletePayload(),
	}
	return sink.Send(ctx, f)
}

func emitCancelled(ctx context.Context, handle StreamHandle, sink Sink) error {
	return emitError(ctx, handle, sink, "cancelled")
}

func emitError(ctx context.Context, handle StreamHandle, sink Sink, reason string) error {
	f := frame.Frame{
		Kind:     frame.KindError,
		StreamID: handle.ID(),
		Sequence: handle.NextSequence(),
		Payload:  frame.ErrorPayload(reason),
	}
	return sink.Send(ctx, f)
}

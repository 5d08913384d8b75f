package session

import (
	"golang.org/x/sync/errgroup"

	"github.com/odin-labs/pjs/internal/frame"
	"github.com/odin-labs/pjs/internal/pjserr"
	"github.com/odin-labs/pjs/internal/priorityassign"
	"github.com/odin-labs/pjs/internal/streamer"
	"github.com/odin-labs/pjs/internal/value"
)

// DispatchJob is one stream's worth of work for Session.Dispatch: the
// document to generate frames from, the stream to generate it on, and the
// sink that receives the frames.
type DispatchJob struct {
	Stream       *Stream
	Sink         streamer.Sink
	Root         *value.Data
	AssignConfig priorityassign.Config
}

// Dispatch runs streamer.Generate concurrently across jobs, one goroutine
// per stream, replacing the hand-rolled WaitGroup/channel fan-out the
// teacher used for broadcast with errgroup's first-error propagation.
// Each stream's terminal state is driven by the Kind Generate reports:
// Complete marks the stream Completed, Error while cancellation was
// requested marks it Cancelled, any other Error marks it Failed. Dispatch
// itself returns the first non-nil error from any job, if any, but every
// job's stream is still given a terminal state regardless. Each stream
// runs under the cancellation scope it was given by Session.OpenStream;
// Dispatch does not impose a scope of its own.
func (s *Session) Dispatch(jobs []DispatchJob) error {
	var g errgroup.Group

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			terminal, err := streamer.Generate(job.Stream.Context(), job.Stream, job.Sink, job.Root, job.Stream.cfg.Generation, job.AssignConfig)

			switch {
			case terminal == frame.KindComplete && err == nil:
				job.Stream.MarkCompleted()
			case terminal == frame.KindError && job.Stream.Cancelled():
				job.Stream.MarkCancelled()
			default:
				job.Stream.MarkFailed()
			}

			if err != nil {
				return pjserr.Wrap(pjserr.Internal, err, "dispatch stream %s", job.Stream.ID())
			}
			return nil
		})
	}

	return g.Wait()
}

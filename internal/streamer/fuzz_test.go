package streamer

import (
	"context"
	"testing"

	"github.com/odin-labs/pjs/internal/frame"
	"github.com/odin-labs/pjs/internal/priorityassign"
	"github.com/odin-labs/pjs/internal/value"
)

// FuzzGenerateSequenceAndPriorityOrdering sweeps arbitrary JSON documents
// through Generate and checks three of spec.md §8's "for all X" properties
// hold beyond the worked S1-S6 scenarios: frame sequence numbers are gapless
// and strictly increasing from zero, exactly one terminal frame (Complete or
// Error) is ever emitted, and Patch frames never climb back to a higher
// priority once a lower one has gone out (the stable sort step 4 must hold
// for every shape, not just the examples).
func FuzzGenerateSequenceAndPriorityOrdering(f *testing.F) {
	oversized := make([]byte, 1200)
	for i := range oversized {
		oversized[i] = 'x'
	}

	seeds := []string{
		`{"id":1,"name":"Alice","logs":["a","b","c"]}`,
		`{"a":{"5":"x","6":"` + string(oversized) + `"}}`,
		`[1,2,3]`,
		`{"meta":{"a":1,"b":2}}`,
		`null`,
		`42`,
		`"hello"`,
		`true`,
		`{}`,
		`[]`,
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		root, err := value.Parse([]byte(input))
		if err != nil {
			t.Skip("not a valid JsonData document")
		}

		handle := newFakeHandle()
		sink := &recordingSink{}
		_, err = Generate(context.Background(), handle, sink, root, DefaultConfig(), priorityassign.DefaultConfig())
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		var lastSeq int64 = -1
		sawTerminal := false
		var highWaterMark uint8 = 255
		for _, fr := range sink.frames {
			if int64(fr.Sequence) != lastSeq+1 {
				t.Fatalf("sequence %d out of order after %d", fr.Sequence, lastSeq)
			}
			lastSeq = int64(fr.Sequence)

			switch fr.Kind {
			case frame.KindComplete, frame.KindError:
				if sawTerminal {
					t.Fatalf("more than one terminal frame")
				}
				sawTerminal = true
			case frame.KindPatch:
				if uint8(fr.Priority) > highWaterMark {
					t.Fatalf("priority %d emitted after a lower priority %d", fr.Priority, highWaterMark)
				}
				highWaterMark = uint8(fr.Priority)
			}
		}
		if !sawTerminal {
			t.Fatalf("no terminal frame emitted")
		}
	})
}

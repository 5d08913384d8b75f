package reconstruct

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odin-labs/pjs/internal/ids"
	"github.com/odin-labs/pjs/internal/priorityassign"
	"github.com/odin-labs/pjs/internal/streamer"
	"github.com/odin-labs/pjs/internal/value"
)

// FuzzReconstructionSoundness sweeps arbitrary JSON documents through the
// full streamer.Generate -> Reconstructor.Apply -> Document pipeline and
// checks spec.md §8's reconstruction-soundness property: for every JsonData
// root r, reconstruct(stream(r)) == r. The seed corpus includes the
// numeric-field-name-vs-array-index collision ("5" as an object key) that
// TestReconstructRoundtripsNumericFieldNameAmbiguity exercises directly,
// plus assorted scalar, array, and nested shapes, so the fuzzer mutates
// from real failure-prone structure instead of starting blind.
func FuzzReconstructionSoundness(f *testing.F) {
	seeds := []string{
		`{"a":{"5":"x","6":"y"}}`,
		`{"a":{"5":"x","6":"` + strings.Repeat("x", priorityassign.DefaultConfig().LargeStringThreshold+1) + `"}}`,
		`{"id":1,"name":"Alice","logs":["a","b","c"]}`,
		`{"0":"zero","1":"one"}`,
		`[1,2,3]`,
		`{"meta":{"a":1,"b":2}}`,
		`null`,
		`42`,
		`-17`,
		`3.5`,
		`"hello"`,
		`true`,
		`false`,
		`{}`,
		`[]`,
		`[[1,2],[3,4]]`,
		`{"a":{"b":{"c":1}}}`,
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		root, err := value.Parse([]byte(input))
		if err != nil {
			t.Skip("not a valid JsonData document")
		}

		handle := &collectingHandle{id: ids.NewStreamID()}
		sink := &collectingSink{}
		_, genErr := streamer.Generate(context.Background(), handle, sink, root, streamer.DefaultConfig(), priorityassign.DefaultConfig())
		require.NoError(t, genErr)

		r := New()
		for _, fr := range sink.frames {
			if err := r.Apply(fr); err != nil {
				t.Fatalf("reconstruction failed on a document streamer itself produced: %v\ninput: %s", err, input)
			}
		}

		doc, err := r.Document()
		require.NoError(t, err)

		want, err := value.Marshal(root)
		require.NoError(t, err)
		got, err := value.Marshal(doc)
		require.NoError(t, err)
		if string(want) != string(got) {
			t.Fatalf("reconstruct(stream(r)) != r\ninput: %s\nwant: %s\ngot:  %s", input, want, got)
		}
	})
}

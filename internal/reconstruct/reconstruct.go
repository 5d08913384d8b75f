// Package reconstruct implements the receive-side Reconstructor (spec.md
// §4.5): applies an ordered sequence of frames for one stream to rebuild
// a JsonData document.
package reconstruct

import (
	"github.com/odin-labs/pjs/internal/frame"
	"github.com/odin-labs/pjs/internal/jsonpath"
	"github.com/odin-labs/pjs/internal/pjserr"
	"github.com/odin-labs/pjs/internal/value"
)

// Reconstructor applies frames in sequence order, producing successive
// snapshots of the working document and a final result once a terminal
// frame (Complete or Error) is applied.
type Reconstructor struct {
	nextSequence uint64
	started      bool
	finished     bool
	failed       error
	doc          *value.Data
}

// New returns a Reconstructor with no working document yet; the first
// applied frame must be sequence 0.
func New() *Reconstructor {
	return &Reconstructor{}
}

// Apply advances the reconstructor by one frame. It fails with
// InvalidFrame on sequence gaps or duplicates, and with InvalidPath on an
// out-of-shape Patch path.
func (r *Reconstructor) Apply(f frame.Frame) error {
	if r.finished {
		return pjserr.New(pjserr.InvalidFrame, "frame applied after terminal frame")
	}
	if f.Sequence != r.nextSequence {
		return pjserr.New(pjserr.InvalidFrame, "sequence %d out of order, expected %d", f.Sequence, r.nextSequence)
	}
	r.nextSequence++

	switch f.Kind {
	case frame.KindSkeleton:
		doc, err := frame.SkeletonValue(f.Payload)
		if err != nil {
			return err
		}
		r.doc = doc
		r.started = true
		return nil

	case frame.KindPatch:
		if !r.started {
			// No skeleton was emitted (emit_skeleton=false): the working
			// document starts as null, so only a Patch addressing the
			// root can establish it; any deeper path fails.
			r.doc = value.Null()
			r.started = true
		}
		path, err := patchPath(f)
		if err != nil {
			return err
		}
		v, err := frame.PatchValue(f.Payload)
		if err != nil {
			return err
		}
		return r.applyPatch(path, v)

	case frame.KindComplete:
		r.finished = true
		return nil

	case frame.KindError:
		r.finished = true
		r.failed = pjserr.New(pjserr.InvalidFrame, "stream failed: %s", frame.ErrorReason(f.Payload))
		r.doc = nil
		return nil

	default:
		return pjserr.New(pjserr.InvalidFrame, "unknown frame kind %d", f.Kind)
	}
}

// patchPath recovers the path a Patch frame addresses from its JSON
// payload directly, rather than trusting the in-memory Path field: a
// frame decoded off the wire already has it populated this way, but one
// constructed directly (as in tests or a same-process transport) may
// not have set it.
func patchPath(f frame.Frame) (jsonpath.Path, error) {
	return frame.PatchPath(f.Payload)
}

// applyPatch resolves path in the working document and replaces the
// addressed node. Implicit intermediate-node creation is never allowed:
// the skeleton (or, absent one, an earlier Patch) must already have
// established the shape.
//
// Field-vs-index resolution for the final segment is decided against the
// parent's actual Kind(), never against the wire path's own guess
// (segment.IsIndex): a numeric-looking segment like "5" is genuinely
// ambiguous between an array index and an object field named "5" until
// matched against the real document (spec.md §6: "numeric segments
// interpreted as array indices when the parent is an array").
func (r *Reconstructor) applyPatch(path jsonpath.Path, v *value.Data) error {
	if len(path) == 0 {
		r.doc = v
		return nil
	}

	parent, err := navigateToParent(r.doc, path)
	if err != nil {
		return err
	}

	last := path[len(path)-1]
	switch parent.Kind() {
	case value.KindArray:
		idx, ok := last.AsIndex()
		if !ok {
			return pjserr.New(pjserr.InvalidPath, "path %s: %q is not a valid array index", path.String(), last.Literal())
		}
		if _, ok := parent.At(idx); !ok {
			return pjserr.New(pjserr.InvalidPath, "path %s: index %d out of range", path.String(), idx)
		}
		parent.Elements()[idx] = v
		return nil
	case value.KindObject:
		key := last.Literal()
		if _, ok := parent.Get(key); !ok {
			return pjserr.New(pjserr.InvalidPath, "path %s: field %q does not exist in skeleton", path.String(), key)
		}
		parent.Set(key, v)
		return nil
	default:
		return pjserr.New(pjserr.InvalidPath, "path %s: parent is neither array nor object", path.String())
	}
}

// navigateToParent walks every segment of path except the last, deciding
// field-vs-index for each intermediate segment against the actual node
// Kind() it is descending into, not the wire path's own guess — see
// applyPatch's comment for why that guess cannot be trusted.
func navigateToParent(doc *value.Data, path jsonpath.Path) (*value.Data, error) {
	if doc == nil {
		return nil, pjserr.New(pjserr.InvalidPath, "no working document established (missing skeleton)")
	}
	node := doc
	for _, seg := range path[:len(path)-1] {
		switch node.Kind() {
		case value.KindArray:
			idx, ok := seg.AsIndex()
			if !ok {
				return nil, pjserr.New(pjserr.InvalidPath, "segment %q: not a valid array index", seg.Literal())
			}
			child, ok := node.At(idx)
			if !ok {
				return nil, pjserr.New(pjserr.InvalidPath, "segment %q: index out of range", seg.Literal())
			}
			node = child
		case value.KindObject:
			key := seg.Literal()
			child, ok := node.Get(key)
			if !ok {
				return nil, pjserr.New(pjserr.InvalidPath, "segment %q: field does not exist in skeleton", key)
			}
			node = child
		default:
			return nil, pjserr.New(pjserr.InvalidPath, "segment %q: parent is neither array nor object", seg.Literal())
		}
	}
	return node, nil
}

// Document returns the reconstructed document. Valid only once a
// Complete frame has been applied; returns an error if the stream ended
// in an Error frame or has not yet terminated.
func (r *Reconstructor) Document() (*value.Data, error) {
	if !r.finished {
		return nil, pjserr.New(pjserr.InvalidStreamState, "reconstruction not yet complete")
	}
	if r.failed != nil {
		return nil, r.failed
	}
	return r.doc, nil
}

package streamer

import (
	"github.com/odin-labs/pjs/internal/jsonpath"
	"github.com/odin-labs/pjs/internal/priority"
	"github.com/odin-labs/pjs/internal/priorityassign"
	"github.com/odin-labs/pjs/internal/value"
)

// candidate is one (path, value, priority) produced by flatten, in
// document order, before filtering/sorting/budgeting.
type candidate struct {
	path     jsonpath.Path
	value    *value.Data
	priority priority.Priority
}

// flatten walks root depth-first, folding whole Object subtrees into a
// single candidate when every leaf beneath them shares the subtree's own
// assigned priority (spec.md §4.3 step 3, S3). Arrays never fold: each
// element streams as its own candidate regardless of uniformity, matching
// S1's per-element log patches — an array is a list of independently
// arriving items, not a bundle of named fields. It returns the candidates
// in document order along with whether the returned set is itself uniform
// (a single folded candidate, or a leaf) and, if so, its priority — the
// information an enclosing Object needs to decide whether it can fold
// too.
func flatten(path jsonpath.Path, node *value.Data, parent *value.Data, cfg priorityassign.Config) ([]candidate, bool, priority.Priority) {
	switch node.Kind() {
	case value.KindArray:
		elements := node.Elements()
		var children []candidate
		for i, el := range elements {
			childCands, _, _ := flatten(path.Append(jsonpath.Index(i)), el, node, cfg)
			children = append(children, childCands...)
		}
		if len(elements) == 0 {
			p := priorityassign.Assign(path, node, parent, cfg)
			return []candidate{{path: path, value: node, priority: p}}, true, p
		}
		return children, false, 0
	case value.KindObject:
		keys := node.Keys()
		ownPriority := priorityassign.Assign(path, node, parent, cfg)

		if len(keys) == 0 {
			return []candidate{{path: path, value: node, priority: ownPriority}}, true, ownPriority
		}

		var children []candidate
		allUniform := true
		var common priority.Priority
		first := true

		for _, k := range keys {
			v, _ := node.Get(k)
			childCands, childUniform, childPriority := flatten(path.Append(jsonpath.Field(k)), v, node, cfg)
			children = append(children, childCands...)
			if !childUniform {
				allUniform = false
				continue
			}
			if first {
				common = childPriority
				first = false
			} else if common != childPriority {
				allUniform = false
			}
		}

		if allUniform && common == ownPriority {
			return []candidate{{path: path, value: node, priority: ownPriority}}, true, ownPriority
		}
		return children, false, 0
	default:
		p := priorityassign.Assign(path, node, parent, cfg)
		return []candidate{{path: path, value: node, priority: p}}, true, p
	}
}

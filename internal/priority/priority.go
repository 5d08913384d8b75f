// Package priority defines the Priority value object: a 1-255 byte ranking
// frames and subtrees are ordered and filtered by, with five named tiers
// matching the vocabulary the rest of the protocol is specified in.
package priority

import "github.com/odin-labs/pjs/internal/pjserr"

// Priority ranks a node or frame; higher values are emitted first. Zero is
// never valid — it is reserved to mean "unset" in zero-value structs.
type Priority uint8

const (
	Critical   Priority = 100
	High       Priority = 80
	Medium     Priority = 50
	Low        Priority = 25
	Background Priority = 10
)

// Valid reports whether p is a usable priority (non-zero).
func (p Priority) Valid() bool { return p != 0 }

// Validate returns an error unless p is non-zero.
func Validate(p Priority) error {
	if p == 0 {
		return pjserr.New(pjserr.InvalidPriority, "priority must not be zero")
	}
	return nil
}

// TierDown returns the next lower named tier below p, or Background if p
// is already at or below it. Used to downgrade oversized nodes by exactly
// one tier rather than to a fixed floor.
func TierDown(p Priority) Priority {
	switch {
	case p > High:
		return High
	case p > Medium:
		return Medium
	case p > Low:
		return Low
	case p > Background:
		return Background
	default:
		return Background
	}
}

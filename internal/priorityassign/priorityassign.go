// Package priorityassign implements the pure priority-assignment function:
// (path, value, parent, config) -> priority.Priority. It is deliberately
// side-effect free so the streamer can call it repeatedly during the DFS
// flatten without any shared mutable state.
package priorityassign

import (
	"strings"

	"github.com/odin-labs/pjs/internal/jsonpath"
	"github.com/odin-labs/pjs/internal/priority"
	"github.com/odin-labs/pjs/internal/value"
)

// Config tunes field-name and size-based priority assignment. The zero
// value is not usable; use DefaultConfig.
type Config struct {
	CriticalFields      map[string]struct{}
	HighFields          map[string]struct{}
	LowPatterns         []string
	BackgroundPatterns  []string
	LargeArrayThreshold int
	LargeStringThreshold int
}

// DefaultConfig returns the protocol's documented default tuning.
func DefaultConfig() Config {
	return Config{
		CriticalFields:       set("id", "uuid", "status", "type", "kind"),
		HighFields:           set("name", "title", "label"),
		LowPatterns:          []string{"meta", "stats", "debug"},
		BackgroundPatterns:   []string{"logs", "trace", "analytics"},
		LargeArrayThreshold:  100,
		LargeStringThreshold: 1000,
	}
}

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Assign computes the priority of the node at path holding v, whose
// immediate container is parent (nil at the document root).
func Assign(path jsonpath.Path, v *value.Data, parent *value.Data, cfg Config) priority.Priority {
	p := baseTier(path, cfg)
	p = downgradeForSize(p, path, v, parent, cfg)
	return p
}

func baseTier(path jsonpath.Path, cfg Config) priority.Priority {
	if last, ok := path.Last(); ok && !last.IsIndex {
		if _, hit := cfg.CriticalFields[last.Field]; hit {
			return priority.Critical
		}
		if _, hit := cfg.HighFields[last.Field]; hit {
			return priority.High
		}
	}

	names := path.FieldNames()

	for _, name := range names {
		for _, pattern := range cfg.LowPatterns {
			if strings.Contains(name, pattern) {
				return priority.Low
			}
		}
	}
	for _, name := range names {
		for _, pattern := range cfg.BackgroundPatterns {
			if strings.Contains(name, pattern) {
				return priority.Background
			}
		}
	}
	return priority.Medium
}

func downgradeForSize(p priority.Priority, path jsonpath.Path, v *value.Data, parent *value.Data, cfg Config) priority.Priority {
	if v != nil && v.Kind() == value.KindString && v.Len() > cfg.LargeStringThreshold {
		p = priority.TierDown(p)
	}
	if parent != nil && parent.Kind() == value.KindArray && parent.Len() > cfg.LargeArrayThreshold {
		if last, ok := path.Last(); ok && last.IsIndex {
			p = priority.TierDown(p)
		}
	}
	return p
}

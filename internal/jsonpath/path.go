// Package jsonpath implements the JsonPath value object: an ordered
// sequence of field/index segments addressing a node inside a JsonData
// tree, plus the RFC-6901-compatible string encoding used inside Patch
// payloads on the wire.
package jsonpath

import (
	"strconv"
	"strings"

	"github.com/odin-labs/pjs/internal/pjserr"
)

// Segment is one step of a Path: either a field name or an array index.
type Segment struct {
	Field   string
	Index   int
	IsIndex bool
}

// Field builds an object-field segment.
func Field(name string) Segment { return Segment{Field: name} }

// Index builds an array-index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return escape(s.Field)
}

// Path is an ordered sequence of Segments. The empty Path addresses the
// document root. Equality is structural.
type Path []Segment

// Root is the empty path, addressing the whole document.
func Root() Path { return nil }

// Append returns a new Path with seg appended; it never mutates p.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Equal reports structural equality.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Last returns the final segment and true, or the zero Segment and false
// if the path is the root.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Literal returns the segment's raw text as it would appear as a JSON
// object field name, regardless of whether decode guessed it to be an
// Index or a Field. A wire path like "/a/5" is genuinely ambiguous until
// matched against the real document: "5" could be array-index 5, or it
// could be the literal name of an object field. Callers that know the
// actual parent Kind() must use Literal (for KindObject) or AsIndex (for
// KindArray) to resolve it, rather than trusting IsIndex.
func (s Segment) Literal() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Field
}

// AsIndex reports the segment's value interpreted as an array index, for
// use once the actual parent node is known to be an Array. It succeeds
// both when decode already guessed Index, and when it guessed Field but
// the literal text happens to parse as a non-negative integer — decode
// alone cannot tell those two cases apart.
func (s Segment) AsIndex() (int, bool) {
	if s.IsIndex {
		return s.Index, true
	}
	n, err := strconv.Atoi(s.Field)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FieldNames yields every field-name segment in root-to-leaf order,
// skipping array-index segments. Used by the priority assigner to match
// patterns against every named segment of a path, so an array element
// is matched through its named ancestors.
func (p Path) FieldNames() []string {
	names := make([]string, 0, len(p))
	for _, seg := range p {
		if !seg.IsIndex {
			names = append(names, seg.Field)
		}
	}
	return names
}

// String renders the RFC-6901-compatible pointer form: a leading "/" per
// segment, with "~" and "/" escaped inside field names as "~0" and "~1".
// The root path renders as "".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(seg.String())
	}
	return b.String()
}

// Parse parses the RFC-6901-compatible pointer form produced by String.
// An empty string parses to the root path.
func Parse(s string) (Path, error) {
	if s == "" {
		return Root(), nil
	}
	if s[0] != '/' {
		return nil, pjserr.New(pjserr.InvalidPath, "path %q must start with '/'", s)
	}
	parts := strings.Split(s[1:], "/")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		unescaped := unescape(part)
		if n, err := strconv.Atoi(unescaped); err == nil && isDecimal(unescaped) {
			out = append(out, Index(n))
			continue
		}
		out = append(out, Field(unescaped))
	}
	return out, nil
}

// isDecimal rejects forms like "+1", "01", "-1" that strconv.Atoi would
// accept but which are not valid array-index segments on the wire.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	if s == "0" {
		return true
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func escape(field string) string {
	field = strings.ReplaceAll(field, "~", "~0")
	field = strings.ReplaceAll(field, "/", "~1")
	return field
}

func unescape(field string) string {
	field = strings.ReplaceAll(field, "~1", "/")
	field = strings.ReplaceAll(field, "~0", "~")
	return field
}

package value

import (
	"encoding/json"
	"strconv"
)

// Marshal serializes a Data tree to compact JSON bytes, preserving object
// key order and mapping NaN/+-Inf floats to null on egress per the
// JsonData invariant. encoding/json.Marshal cannot be used directly for
// the whole tree: it errors on NaN/Inf and has no notion of our
// order-preserving object, but it is reused here for string leaves, where
// its escaping is already correct; numbers are written with strconv.
func Marshal(d *Data) ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf = appendValue(buf, d)
	return buf, nil
}

func appendValue(buf []byte, d *Data) []byte {
	if d == nil {
		return append(buf, "null"...)
	}
	switch d.kind {
	case KindNull:
		return append(buf, "null"...)
	case KindBool:
		if d.b {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case KindInt:
		return strconv.AppendInt(buf, d.i, 10)
	case KindFloat:
		if !d.IsFiniteNumber() {
			return append(buf, "null"...)
		}
		return strconv.AppendFloat(buf, d.f, 'g', -1, 64)
	case KindString:
		return appendJSONString(buf, d.s)
	case KindArray:
		buf = append(buf, '[')
		for i, el := range d.arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendValue(buf, el)
		}
		return append(buf, ']')
	case KindObject:
		buf = append(buf, '{')
		for i, k := range d.obj.keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendJSONString(buf, k)
			buf = append(buf, ':')
			buf = appendValue(buf, d.obj.values[k])
		}
		return append(buf, '}')
	default:
		return append(buf, "null"...)
	}
}

// appendJSONString reuses encoding/json's string escaping rules rather
// than hand-rolling them, since it already produces valid, minimal JSON
// string literals.
func appendJSONString(buf []byte, s string) []byte {
	escaped, _ := json.Marshal(s)
	return append(buf, escaped...)
}

// Skeleton returns the structurally-complete, value-empty preview of d:
// every leaf is replaced by its type-specific sentinel (empty string, 0,
// false, or null), while array length and object keys are preserved by
// recursing into containers.
func Skeleton(d *Data) *Data {
	if d == nil {
		return Null()
	}
	switch d.kind {
	case KindNull:
		return Null()
	case KindBool:
		return Bool(false)
	case KindInt:
		return Int(0)
	case KindFloat:
		return Float(0)
	case KindString:
		return String("")
	case KindArray:
		items := make([]*Data, len(d.arr))
		for i, el := range d.arr {
			items[i] = Skeleton(el)
		}
		return Array(items...)
	case KindObject:
		out := NewObject()
		for _, k := range d.obj.keys {
			out.Set(k, Skeleton(d.obj.values[k]))
		}
		return out
	default:
		return Null()
	}
}

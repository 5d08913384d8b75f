// Package value implements JsonData: a JSON value tree with a
// fixed set of variants (no reflection, no cycles by construction) plus
// the minimal order-preserving JSON decode/encode needed to move bytes in
// and out of the tree. Generic JSON parsing beyond that is explicitly out
// of scope for this repository.
package value

import "math"

// Kind discriminates the variant held by a Data node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Data is a JSON value. Zero value is Null. Data is not immutable: Set
// changes an object in place, and the slice Elements returns shares the
// array's storage.
type Data struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []*Data
	obj  *object
}

// object is an order-preserving string-keyed map: JSON object key order is
// part of document order, which the streamer's sort must respect, so a
// plain Go map (unordered iteration) cannot back it.
type object struct {
	keys   []string
	values map[string]*Data
}

func newObject() *object {
	return &object{values: make(map[string]*Data)}
}

func (o *object) set(key string, v *Data) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Null returns the JSON null value.
func Null() *Data { return &Data{kind: KindNull} }

// Bool returns a JSON boolean value.
func Bool(b bool) *Data { return &Data{kind: KindBool, b: b} }

// Int returns a JSON integer value.
func Int(i int64) *Data { return &Data{kind: KindInt, i: i} }

// Float returns a JSON float value.
func Float(f float64) *Data { return &Data{kind: KindFloat, f: f} }

// String returns a JSON string value.
func String(s string) *Data { return &Data{kind: KindString, s: s} }

// Array returns a JSON array value containing items in order.
func Array(items ...*Data) *Data {
	cp := make([]*Data, len(items))
	copy(cp, items)
	return &Data{kind: KindArray, arr: cp}
}

// NewObject returns an empty JSON object value; use Set to populate it.
func NewObject() *Data {
	return &Data{kind: KindObject, obj: newObject()}
}

// Set inserts or overwrites a field on an object value in place,
// preserving first-insertion order. Panics if called on a non-object.
func (d *Data) Set(key string, v *Data) *Data {
	if d.kind != KindObject {
		panic("value: Set called on non-object Data")
	}
	d.obj.set(key, v)
	return d
}

// Kind reports the node's variant.
func (d *Data) Kind() Kind { return d.kind }

// Bool returns the boolean payload (undefined unless Kind() == KindBool).
func (d *Data) Bool() bool { return d.b }

// Int returns the integer payload (undefined unless Kind() == KindInt).
func (d *Data) Int() int64 { return d.i }

// Float returns the float payload (undefined unless Kind() == KindFloat).
func (d *Data) Float() float64 { return d.f }

// Str returns the string payload (undefined unless Kind() == KindString).
func (d *Data) Str() string { return d.s }

// Len reports the element/field count of an array or object, or the rune
// length of a string. Zero for scalar kinds it does not apply to.
func (d *Data) Len() int {
	switch d.kind {
	case KindArray:
		return len(d.arr)
	case KindObject:
		return len(d.obj.keys)
	case KindString:
		return len([]rune(d.s))
	default:
		return 0
	}
}

// Elements returns the array's elements in order (nil if not an array).
func (d *Data) Elements() []*Data {
	if d.kind != KindArray {
		return nil
	}
	return d.arr
}

// Keys returns the object's field names in insertion order (nil if not an
// object).
func (d *Data) Keys() []string {
	if d.kind != KindObject {
		return nil
	}
	return d.obj.keys
}

// Get returns the named field of an object, or (nil, false) if absent or
// not an object.
func (d *Data) Get(key string) (*Data, bool) {
	if d.kind != KindObject {
		return nil, false
	}
	v, ok := d.obj.values[key]
	return v, ok
}

// At returns the array element at index i, or (nil, false) if out of
// range or not an array.
func (d *Data) At(i int) (*Data, bool) {
	if d.kind != KindArray || i < 0 || i >= len(d.arr) {
		return nil, false
	}
	return d.arr[i], true
}

// IsFiniteNumber reports whether a float value is finite JSON-serializable
// (i.e. not NaN or +/-Inf).
func (d *Data) IsFiniteNumber() bool {
	if d.kind != KindFloat {
		return true
	}
	return !math.IsNaN(d.f) && !math.IsInf(d.f, 0)
}

// Clone deep-copies the node.
func (d *Data) Clone() *Data {
	switch d.kind {
	case KindArray:
		items := make([]*Data, len(d.arr))
		for i, el := range d.arr {
			items[i] = el.Clone()
		}
		return Array(items...)
	case KindObject:
		out := NewObject()
		for _, k := range d.obj.keys {
			out.Set(k, d.obj.values[k].Clone())
		}
		return out
	default:
		cp := *d
		return &cp
	}
}

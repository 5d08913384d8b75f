package frame

import (
	"github.com/odin-labs/pjs/internal/jsonpath"
	"github.com/odin-labs/pjs/internal/pjserr"
	"github.com/odin-labs/pjs/internal/value"
)

// SkeletonPayload renders root's structural skeleton (spec.md §4.1 "Emit
// Skeleton" step) as the Skeleton frame's JSON payload.
func SkeletonPayload(root *value.Data) ([]byte, error) {
	return value.Marshal(value.Skeleton(root))
}

// PatchPayload renders the { "op":"replace", "path":..., "value":... }
// JSON object a Patch frame carries.
func PatchPayload(path jsonpath.Path, v *value.Data) ([]byte, error) {
	obj := value.NewObject()
	obj.Set("op", value.String("replace"))
	obj.Set("path", value.String(path.String()))
	obj.Set("value", v)
	return value.Marshal(obj)
}

// CompletePayload is always empty.
func CompletePayload() []byte { return nil }

// ErrorPayload encodes reason as the Error frame's UTF-8 payload.
func ErrorPayload(reason string) []byte { return []byte(reason) }

// PatchPath recovers the Path carried inside a Patch frame's JSON
// payload, since Path is not itself a wire field.
func PatchPath(payload []byte) (jsonpath.Path, error) {
	obj, err := value.Parse(payload)
	if err != nil {
		return nil, pjserr.Wrap(pjserr.InvalidFrame, err, "decode patch payload")
	}
	pathField, ok := obj.Get("path")
	if !ok || pathField.Kind() != value.KindString {
		return nil, pjserr.New(pjserr.InvalidFrame, "patch payload missing string \"path\" field")
	}
	return jsonpath.Parse(pathField.Str())
}

// PatchValue recovers the "value" field from a decoded Patch frame's JSON
// payload.
func PatchValue(payload []byte) (*value.Data, error) {
	obj, err := value.Parse(payload)
	if err != nil {
		return nil, pjserr.Wrap(pjserr.InvalidFrame, err, "decode patch payload")
	}
	v, ok := obj.Get("value")
	if !ok {
		return nil, pjserr.New(pjserr.InvalidFrame, "patch payload missing \"value\" field")
	}
	return v, nil
}

// SkeletonValue parses a decoded Skeleton frame's JSON payload back into a
// Data tree.
func SkeletonValue(payload []byte) (*value.Data, error) {
	v, err := value.Parse(payload)
	if err != nil {
		return nil, pjserr.Wrap(pjserr.InvalidFrame, err, "decode skeleton payload")
	}
	return v, nil
}

// ErrorReason decodes an Error frame's UTF-8 payload.
func ErrorReason(payload []byte) string { return string(payload) }

package value

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/odin-labs/pjs/internal/pjserr"
)

// Parse decodes JSON bytes into a Data tree, preserving object key order.
// It builds on encoding/json's token-level decoder rather than a
// hand-rolled scanner: that is the "what is needed" slice of JSON parsing
// this repository requires (see spec.md's non-goal on generic parsing),
// it already rejects malformed input, and nothing in the retrieval pack
// offers an order-preserving decode with less complexity for the gain.
func Parse(data []byte) (*Data, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	// Reject trailing garbage after the single top-level value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, pjserr.New(pjserr.InvalidFrame, "trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (*Data, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, pjserr.Wrap(pjserr.InvalidFrame, err, "decode JSON token")
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (*Data, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return decodeNumber(t)
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		default:
			return nil, pjserr.New(pjserr.InvalidFrame, "unexpected JSON delimiter %q", t)
		}
	default:
		return nil, pjserr.New(pjserr.InvalidFrame, "unexpected JSON token %T", tok)
	}
}

func decodeNumber(n json.Number) (*Data, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return Int(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, pjserr.Wrap(pjserr.InvalidFrame, err, "decode JSON number %q", s)
	}
	return Float(f), nil
}

func decodeArray(dec *json.Decoder) (*Data, error) {
	var items []*Data
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, pjserr.Wrap(pjserr.InvalidFrame, err, "decode array element")
		}
		v, err := decodeToken(dec, tok)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, pjserr.Wrap(pjserr.InvalidFrame, err, "decode array close")
	}
	return Array(items...), nil
}

func decodeObject(dec *json.Decoder) (*Data, error) {
	obj := NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, pjserr.Wrap(pjserr.InvalidFrame, err, "decode object key")
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, pjserr.New(pjserr.InvalidFrame, "object key must be a string, got %T", keyTok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, pjserr.Wrap(pjserr.InvalidFrame, err, "decode object close")
	}
	return obj, nil
}

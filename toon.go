package toon

import (
	"bytes"

	"github.com/goccy/go-toon/internal/errors"
	"github.com/goccy/go-toon/parser"
)

// Version of the TOON text format implemented by this package.
const Version = "1.5"

// BytesMarshaler interface may be implemented by types to customize their
// behavior when being marshaled into a TOON document. The returned bytes
// are parsed as a TOON fragment and encoded in place of the original
// value.
type BytesMarshaler interface {
	MarshalTOON() ([]byte, error)
}

// InterfaceMarshaler interface may be implemented by types to customize
// their behavior when being marshaled into a TOON document. The returned
// value is encoded in place of the original value.
type InterfaceMarshaler interface {
	MarshalTOON() (interface{}, error)
}

// Unmarshaler interface may be implemented by types to customize their
// behavior when being unmarshaled from a TOON document. The argument is
// the raw text of the fragment being decoded into the value.
type Unmarshaler interface {
	UnmarshalTOON([]byte) error
}

// MapItem is an item in a MapSlice.
type MapItem struct {
	Key   interface{}
	Value interface{}
}

// MapSlice encodes and decodes as a TOON object, keeping the keys in
// insertion order.
type MapSlice []MapItem

// Warning is a validation problem a lenient decode recovered from.
type Warning = parser.Warning

// Marshal serializes the value provided into a TOON document. The
// structure of the generated document reflects the structure of the value
// itself. Maps, structs, slices and pointers are accepted as the in
// value; map keys are sorted, MapSlice and struct fields keep their
// order.
//
// Struct fields are only marshalled if they are exported (have an upper
// case first letter), and are marshalled using the field name lowercased
// as the default key. Custom keys may be defined via the "toon" name in
// the field tag: the content preceding the first comma is used as the
// key, and the following comma-separated options are used to tweak the
// marshalling process.
//
// The field tag format accepted is:
//
//	`(...) toon:"[<key>][,<flag1>]" (...)`
//
// The following flags are currently supported:
//
//	omitempty    Only include the field if it's not set to the zero
//	             value for the type or to empty slices or maps.
//
// In addition, if the key is "-", the field is ignored.
func Marshal(v interface{}) ([]byte, error) {
	return MarshalWithOptions(v)
}

// MarshalWithOptions serializes the value provided into a TOON document
// with the given encode options.
func MarshalWithOptions(v interface{}, opts ...EncodeOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(v); err != nil {
		return nil, errors.Wrapf(err, "failed to marshal")
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes the TOON document within the in byte slice and
// assigns decoded values into the out value.
//
// Struct fields are only unmarshalled if they are exported, and are
// unmarshalled using the field name lowercased as the default key.
// Custom keys may be defined via the "toon" name in the field tag
// (see Marshal).
func Unmarshal(data []byte, v interface{}) error {
	return UnmarshalWithOptions(data, v)
}

// UnmarshalWithOptions decodes the TOON document within the in byte
// slice with the given decode options.
func UnmarshalWithOptions(data []byte, v interface{}, opts ...DecodeOption) error {
	if err := NewDecoder(bytes.NewBuffer(data), opts...).Decode(v); err != nil {
		return errors.Wrapf(err, "failed to unmarshal")
	}
	return nil
}

package toon

import (
	"github.com/goccy/go-toon/token"
	"golang.org/x/xerrors"
)

// FoldMode controls key folding during encoding.
type FoldMode int

const (
	// FoldOff leaves every key untouched
	FoldOff FoldMode = iota
	// FoldSafe collapses single-key object chains with safe identifier
	// keys into dotted paths
	FoldSafe
)

// EncodeOption configures an Encoder
type EncodeOption func(e *Encoder) error

// Indent sets the number of spaces used for one indentation level.
func Indent(spaces int) EncodeOption {
	return func(e *Encoder) error {
		if spaces < 1 {
			return xerrors.New("indent must be at least 1 space")
		}
		e.indent = spaces
		return nil
	}
}

// Delimiter sets the field delimiter for rows and inline arrays. Legal
// delimiters are ',', '\t' and '|'.
func Delimiter(delim byte) EncodeOption {
	return func(e *Encoder) error {
		if !token.IsValidDelimiter(delim) {
			return xerrors.Errorf("invalid delimiter %q", delim)
		}
		e.delimiter = delim
		return nil
	}
}

// KeyFolding sets the key folding mode.
func KeyFolding(mode FoldMode) EncodeOption {
	return func(e *Encoder) error {
		e.keyFolding = mode
		return nil
	}
}

// FlattenDepth caps the number of segments a folded key chain may
// collapse. Zero means unlimited.
func FlattenDepth(depth int) EncodeOption {
	return func(e *Encoder) error {
		e.flattenDepth = depth
		return nil
	}
}

// SortKeys sorts every object's keys before emission. Without it map
// keys are sorted for determinism while MapSlice and struct fields keep
// their declared order.
func SortKeys() EncodeOption {
	return func(e *Encoder) error {
		e.sortKeys = true
		return nil
	}
}

// EnsureASCII escapes every non-ASCII rune as \uXXXX inside quoted
// strings.
func EnsureASCII() EncodeOption {
	return func(e *Encoder) error {
		e.ensureASCII = true
		return nil
	}
}

// DecodeOption configures a Decoder
type DecodeOption func(d *Decoder) error

// IndentSize sets the number of spaces that make up one indentation
// level when decoding.
func IndentSize(spaces int) DecodeOption {
	return func(d *Decoder) error {
		if spaces < 1 {
			return xerrors.New("indent must be at least 1 space")
		}
		d.indent = spaces
		return nil
	}
}

// Lenient turns validation failures into collected warnings and lets the
// decoder recover with best effort. Syntax and indentation problems stay
// fatal. The warnings of the last Decode call are available through
// Decoder.Warnings.
func Lenient() DecodeOption {
	return func(d *Decoder) error {
		d.strict = false
		return nil
	}
}

// ExpandPaths expands unquoted dotted keys produced by key folding back
// into nested objects after decoding.
func ExpandPaths() DecodeOption {
	return func(d *Decoder) error {
		d.expandPaths = true
		return nil
	}
}

// UseOrderedMap decodes objects into MapSlice instead of
// map[string]interface{} when the destination is an interface value, so
// key order survives a decode/encode roundtrip.
func UseOrderedMap() DecodeOption {
	return func(d *Decoder) error {
		d.useOrderedMap = true
		return nil
	}
}

// Validator sets the validator applied to every decoded struct.
func Validator(v StructValidator) DecodeOption {
	return func(d *Decoder) error {
		d.validator = v
		return nil
	}
}

// NestingLimit caps the depth of nested containers while decoding.
func NestingLimit(limit int) DecodeOption {
	return func(d *Decoder) error {
		d.nestingLimit = limit
		return nil
	}
}

// ArrayLengthLimit caps declared and counted array lengths while
// decoding.
func ArrayLengthLimit(limit int) DecodeOption {
	return func(d *Decoder) error {
		d.arrayLengthLimit = limit
		return nil
	}
}

// StringLengthLimit caps the length of a single scalar, and of the key of
// a plain key-value line, while decoding. Array header keys, tabular field
// names and the first key on a list item's hyphen line are not checked.
func StringLengthLimit(limit int) DecodeOption {
	return func(d *Decoder) error {
		d.stringLengthLimit = limit
		return nil
	}
}

package toon

import (
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-toon/internal/errors"
	"github.com/goccy/go-toon/parser"
	"github.com/goccy/go-toon/token"
)

const (
	// DefaultIndentSpaces default number of space for indent
	DefaultIndentSpaces = 2
)

// Encoder writes TOON values to an output stream.
type Encoder struct {
	writer       io.Writer
	opts         []EncodeOption
	indent       int
	delimiter    byte
	keyFolding   FoldMode
	flattenDepth int
	sortKeys     bool
	ensureASCII  bool

	lines []string
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...EncodeOption) *Encoder {
	return &Encoder{
		writer:    w,
		opts:      opts,
		indent:    DefaultIndentSpaces,
		delimiter: token.DefaultDelimiter,
	}
}

// Encode writes the TOON encoding of v to the stream.
//
// See the documentation for Marshal for details about the conversion of
// Go values to TOON.
func (e *Encoder) Encode(v interface{}) error {
	for _, opt := range e.opts {
		if err := opt(e); err != nil {
			return errors.Wrapf(err, "failed to run option for encoder")
		}
	}
	e.lines = nil
	value, err := e.normalizeValue(reflect.ValueOf(v), map[visitKey]struct{}{})
	if err != nil {
		return errors.Wrapf(err, "failed to encode value")
	}
	if err := e.encodeRoot(value); err != nil {
		return errors.Wrapf(err, "failed to encode value")
	}
	if len(e.lines) == 0 {
		return nil
	}
	if _, err := e.writer.Write([]byte(strings.Join(e.lines, "\n") + "\n")); err != nil {
		return errors.Wrapf(err, "failed to write")
	}
	return nil
}

type visitKey struct {
	ptr  uintptr
	kind reflect.Kind
}

// normalizeValue reduces a Go value to the codec value model: nil, bool,
// int64, uint64, float64, string, []interface{} and MapSlice. Containers
// reachable from themselves are a cycle error.
func (e *Encoder) normalizeValue(v reflect.Value, visited map[visitKey]struct{}) (interface{}, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if v.CanInterface() {
		switch m := v.Interface().(type) {
		case InterfaceMarshaler:
			if isNilValue(v) {
				return nil, nil
			}
			replaced, err := m.MarshalTOON()
			if err != nil {
				return nil, errors.Wrapf(err, "failed to MarshalTOON")
			}
			return e.normalizeValue(reflect.ValueOf(replaced), visited)
		case BytesMarshaler:
			if isNilValue(v) {
				return nil, nil
			}
			fragment, err := m.MarshalTOON()
			if err != nil {
				return nil, errors.Wrapf(err, "failed to MarshalTOON")
			}
			node, _, err := parser.ParseBytes(fragment)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse MarshalTOON result")
			}
			return nodeToValue(node, true), nil
		}
	}
	switch v.Type().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.String:
		return v.String(), nil
	case reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return e.normalizeValue(v.Elem(), visited)
	case reflect.Ptr:
		if v.IsNil() {
			return nil, nil
		}
		key := visitKey{ptr: v.Pointer(), kind: reflect.Ptr}
		if _, exists := visited[key]; exists {
			return nil, errors.ErrCycle(v.Type().String())
		}
		visited[key] = struct{}{}
		defer delete(visited, key)
		return e.normalizeValue(v.Elem(), visited)
	case reflect.Slice:
		if v.Type() == reflect.TypeOf(MapSlice(nil)) {
			return e.normalizeMapSlice(v.Interface().(MapSlice), visited)
		}
		if v.IsNil() {
			return []interface{}{}, nil
		}
		key := visitKey{ptr: v.Pointer(), kind: reflect.Slice}
		if _, exists := visited[key]; exists {
			return nil, errors.ErrCycle(v.Type().String())
		}
		visited[key] = struct{}{}
		defer delete(visited, key)
		return e.normalizeSequence(v, visited)
	case reflect.Array:
		return e.normalizeSequence(v, visited)
	case reflect.Map:
		if v.IsNil() {
			return MapSlice{}, nil
		}
		key := visitKey{ptr: v.Pointer(), kind: reflect.Map}
		if _, exists := visited[key]; exists {
			return nil, errors.ErrCycle(v.Type().String())
		}
		visited[key] = struct{}{}
		defer delete(visited, key)
		return e.normalizeMap(v, visited)
	case reflect.Struct:
		return e.normalizeStruct(v, visited)
	}
	return nil, errors.ErrUnsupportedType(v.Type().String())
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func (e *Encoder) normalizeSequence(v reflect.Value, visited map[visitKey]struct{}) (interface{}, error) {
	values := make([]interface{}, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		value, err := e.normalizeValue(v.Index(i), visited)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func (e *Encoder) normalizeMap(v reflect.Value, visited map[visitKey]struct{}) (interface{}, error) {
	keys := make([]string, 0, v.Len())
	keyValues := map[string]reflect.Value{}
	for _, k := range v.MapKeys() {
		key, err := mapKeyString(k)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		keyValues[key] = v.MapIndex(k)
	}
	sort.Strings(keys)
	obj := make(MapSlice, 0, len(keys))
	for _, key := range keys {
		value, err := e.normalizeValue(keyValues[key], visited)
		if err != nil {
			return nil, err
		}
		obj = append(obj, MapItem{Key: key, Value: value})
	}
	return obj, nil
}

func mapKeyString(k reflect.Value) (string, error) {
	if k.Kind() == reflect.Interface {
		k = k.Elem()
	}
	if !k.IsValid() || k.Kind() != reflect.String {
		return "", errors.ErrUnsupportedType("map key must be a string")
	}
	return k.String(), nil
}

func (e *Encoder) normalizeMapSlice(ms MapSlice, visited map[visitKey]struct{}) (interface{}, error) {
	obj := make(MapSlice, 0, len(ms))
	for _, item := range ms {
		key, err := mapKeyString(reflect.ValueOf(item.Key))
		if err != nil {
			return nil, err
		}
		value, err := e.normalizeValue(reflect.ValueOf(item.Value), visited)
		if err != nil {
			return nil, err
		}
		obj = append(obj, MapItem{Key: key, Value: value})
	}
	return obj, nil
}

func (e *Encoder) normalizeStruct(v reflect.Value, visited map[visitKey]struct{}) (interface{}, error) {
	structType := v.Type()
	fieldMap, err := structFieldsByName(structType)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get struct field map")
	}
	obj := MapSlice{}
	for i := 0; i < v.NumField(); i++ {
		field := structType.Field(i)
		if isIgnoredStructField(field) {
			continue
		}
		fieldValue := v.FieldByName(field.Name)
		structField := fieldMap[field.Name]
		if structField.IsOmitEmpty && e.isZeroValue(fieldValue) {
			// omit encoding
			continue
		}
		value, err := e.normalizeValue(fieldValue, visited)
		if err != nil {
			return nil, err
		}
		obj = append(obj, MapItem{Key: structField.RenderName, Value: value})
	}
	return obj, nil
}

// IsZeroer is used to check whether an object is zero to determine
// whether it should be omitted when marshaling with the omitempty flag.
// One notable implementation is time.Time.
type IsZeroer interface {
	IsZero() bool
}

func (e *Encoder) isZeroValue(v reflect.Value) bool {
	kind := v.Kind()
	if z, ok := v.Interface().(IsZeroer); ok {
		if (kind == reflect.Ptr || kind == reflect.Interface) && v.IsNil() {
			return true
		}
		return z.IsZero()
	}
	switch kind {
	case reflect.String:
		return len(v.String()) == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	case reflect.Slice:
		return v.Len() == 0
	case reflect.Map:
		return v.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Struct:
		vt := v.Type()
		for i := v.NumField() - 1; i >= 0; i-- {
			if vt.Field(i).PkgPath != "" {
				continue // private field
			}
			if !e.isZeroValue(v.Field(i)) {
				return false
			}
		}
		return true
	}
	return false
}

func (e *Encoder) emit(line string) {
	e.lines = append(e.lines, line)
}

func (e *Encoder) indentString(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(" ", depth*e.indent)
}

func (e *Encoder) encodeRoot(value interface{}) error {
	switch v := value.(type) {
	case MapSlice:
		return e.encodeObject(v, 0)
	case []interface{}:
		return e.encodeArray("", v, 0)
	default:
		e.emit(e.formatPrimitive(v))
		return nil
	}
}

func (e *Encoder) sorted(obj MapSlice) MapSlice {
	if !e.sortKeys {
		return obj
	}
	copied := make(MapSlice, len(obj))
	copy(copied, obj)
	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].Key.(string) < copied[j].Key.(string)
	})
	return copied
}

func (e *Encoder) encodeObject(obj MapSlice, depth int) error {
	indent := e.indentString(depth)
	for _, item := range e.sorted(obj) {
		key := item.Key.(string)
		value := item.Value
		folded := false
		if e.keyFolding == FoldSafe {
			key, value, folded = foldChain(key, value, e.flattenDepth, e.delimiter)
		}
		keyLit := e.encodeKey(key, folded)
		switch v := value.(type) {
		case MapSlice:
			e.emit(indent + keyLit + ":")
			if len(v) > 0 {
				if err := e.encodeObject(v, depth+1); err != nil {
					return err
				}
			}
		case []interface{}:
			if err := e.encodeArray(keyLit, v, depth); err != nil {
				return err
			}
		default:
			e.emit(indent + keyLit + ": " + e.formatPrimitive(v))
		}
	}
	return nil
}

func (e *Encoder) encodeKey(key string, folded bool) string {
	if folded || token.IsSafeIdentifier(key) {
		return key
	}
	return token.Quote(key, e.ensureASCII)
}

func (e *Encoder) encodeArray(keyLit string, values []interface{}, depth int) error {
	indent := e.indentString(depth)
	if fields, _, ok := e.analyzeTabular(values); ok {
		e.emit(indent + e.renderHeader(keyLit, len(values), fields))
		rowIndent := e.indentString(depth + 1)
		for _, row := range values {
			line, err := e.renderRow(row.(MapSlice), fields)
			if err != nil {
				return err
			}
			e.emit(rowIndent + line)
		}
		return nil
	}
	if isPrimitiveArray(values) {
		e.emit(indent + e.renderInline(keyLit, values))
		return nil
	}
	e.emit(indent + e.renderHeader(keyLit, len(values), nil))
	for _, item := range values {
		if err := e.encodeListItem(item, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeListItem(item interface{}, depth int) error {
	indent := e.indentString(depth)
	switch v := item.(type) {
	case MapSlice:
		return e.encodeObjectListItem(v, depth)
	case []interface{}:
		return e.encodeArrayListItem("", v, depth)
	default:
		e.emit(indent + token.SequenceEntryMarker + e.formatPrimitive(v))
		return nil
	}
}

// encodeObjectListItem emits an object item with its first field on the
// hyphen line. Sibling fields follow one level deeper; when the first
// field's value is itself a non-empty object, that object's fields go one
// level deeper still so they cannot be mistaken for siblings.
func (e *Encoder) encodeObjectListItem(obj MapSlice, depth int) error {
	indent := e.indentString(depth)
	if len(obj) == 0 {
		e.emit(indent + "-")
		return nil
	}
	obj = e.sorted(obj)
	first := obj[0]
	key := first.Key.(string)
	value := first.Value
	folded := false
	if e.keyFolding == FoldSafe {
		key, value, folded = foldChain(key, value, e.flattenDepth, e.delimiter)
	}
	keyLit := e.encodeKey(key, folded)
	switch v := value.(type) {
	case MapSlice:
		e.emit(indent + token.SequenceEntryMarker + keyLit + ":")
		if len(v) > 0 {
			if err := e.encodeObject(v, depth+2); err != nil {
				return err
			}
		}
	case []interface{}:
		if err := e.encodeArrayListItem(keyLit, v, depth); err != nil {
			return err
		}
	default:
		e.emit(indent + token.SequenceEntryMarker + keyLit + ": " + e.formatPrimitive(v))
	}
	if len(obj) > 1 {
		return e.encodeObject(obj[1:], depth+1)
	}
	return nil
}

// encodeArrayListItem emits an array whose header sits on the hyphen
// line; continued rows and items use the item line as their base depth.
func (e *Encoder) encodeArrayListItem(keyLit string, values []interface{}, depth int) error {
	indent := e.indentString(depth)
	if fields, _, ok := e.analyzeTabular(values); ok {
		e.emit(indent + token.SequenceEntryMarker + e.renderHeader(keyLit, len(values), fields))
		rowIndent := e.indentString(depth + 1)
		for _, row := range values {
			line, err := e.renderRow(row.(MapSlice), fields)
			if err != nil {
				return err
			}
			e.emit(rowIndent + line)
		}
		return nil
	}
	if isPrimitiveArray(values) {
		e.emit(indent + token.SequenceEntryMarker + e.renderInline(keyLit, values))
		return nil
	}
	e.emit(indent + token.SequenceEntryMarker + e.renderHeader(keyLit, len(values), nil))
	for _, item := range values {
		if err := e.encodeListItem(item, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// analyzeTabular reports whether the sequence qualifies for the tabular
// row format: non-empty, every element an object, every element sharing
// the first element's key set, and every leaf a primitive. The field
// order is taken from the first element. The score is informational.
func (e *Encoder) analyzeTabular(values []interface{}) ([]string, float64, bool) {
	if len(values) == 0 {
		return nil, 0.0, false
	}
	first, ok := values[0].(MapSlice)
	if !ok || len(first) == 0 {
		return nil, 0.0, false
	}
	fields := make([]string, len(first))
	fieldSet := make(map[string]struct{}, len(first))
	for i, item := range first {
		if !isPrimitive(item.Value) {
			return nil, 0.0, false
		}
		key := item.Key.(string)
		fields[i] = key
		fieldSet[key] = struct{}{}
	}
	for _, value := range values[1:] {
		obj, ok := value.(MapSlice)
		if !ok || len(obj) != len(fields) {
			return nil, 0.0, false
		}
		seen := make(map[string]struct{}, len(fields))
		for _, item := range obj {
			key := item.Key.(string)
			if _, ok := fieldSet[key]; !ok || !isPrimitive(item.Value) {
				return nil, 0.0, false
			}
			seen[key] = struct{}{}
		}
		if len(seen) != len(fields) {
			return nil, 0.0, false
		}
	}
	return fields, 100.0, true
}

func isPrimitive(value interface{}) bool {
	switch value.(type) {
	case nil, bool, int64, uint64, float64, string:
		return true
	}
	return false
}

func isPrimitiveArray(values []interface{}) bool {
	for _, v := range values {
		if !isPrimitive(v) {
			return false
		}
	}
	return true
}

func (e *Encoder) renderHeader(keyLit string, length int, fields []string) string {
	var b strings.Builder
	b.WriteString(keyLit)
	b.WriteByte(byte(token.ArrayStartCharacter))
	b.WriteString(strconv.Itoa(length))
	if e.delimiter != token.DefaultDelimiter {
		b.WriteByte(e.delimiter)
	}
	b.WriteByte(byte(token.ArrayEndCharacter))
	if len(fields) > 0 {
		b.WriteByte(byte(token.FieldsStartCharacter))
		for i, field := range fields {
			if i > 0 {
				b.WriteByte(e.delimiter)
			}
			b.WriteString(e.encodeKey(field, false))
		}
		b.WriteByte(byte(token.FieldsEndCharacter))
	}
	b.WriteByte(byte(token.MappingValueCharacter))
	return b.String()
}

func (e *Encoder) renderInline(keyLit string, values []interface{}) string {
	header := e.renderHeader(keyLit, len(values), nil)
	if len(values) == 0 {
		return header
	}
	cells := make([]string, 0, len(values))
	for _, v := range values {
		cells = append(cells, e.formatPrimitive(v))
	}
	return header + " " + strings.Join(cells, string(e.delimiter))
}

func (e *Encoder) renderRow(row MapSlice, fields []string) (string, error) {
	cells := make([]string, 0, len(fields))
	for _, field := range fields {
		value, ok := objField(row, field)
		if !ok {
			return "", errors.ErrUnsupportedType("missing tabular field " + field)
		}
		cells = append(cells, e.formatPrimitive(value))
	}
	return strings.Join(cells, string(e.delimiter)), nil
}

func objField(obj MapSlice, key string) (interface{}, bool) {
	for _, item := range obj {
		if item.Key.(string) == key {
			return item.Value, true
		}
	}
	return nil, false
}

// formatPrimitive renders a primitive to its canonical text. Non-finite
// floats normalize to null, negative zero to 0, and integer-valued
// floats drop the decimal point.
func (e *Encoder) formatPrimitive(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return string(token.Null)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return string(token.Null)
		}
		if v == 0 {
			return "0"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return token.QuoteString(v, e.delimiter, e.ensureASCII)
	}
	return string(token.Null)
}

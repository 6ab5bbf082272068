package toon

import (
	"io"
	"io/ioutil"
	"reflect"

	"github.com/goccy/go-toon/ast"
	"github.com/goccy/go-toon/internal/errors"
	"github.com/goccy/go-toon/parser"
	"github.com/goccy/go-toon/token"
)

// StructValidator need to implement Struct method only
// ( see https://pkg.go.dev/github.com/go-playground/validator/v10#Validate.Struct )
type StructValidator interface {
	Struct(interface{}) error
}

// FieldError need to implement StructField method only
// ( see https://pkg.go.dev/github.com/go-playground/validator/v10#FieldError )
type FieldError interface {
	StructField() string
}

// Decoder reads and decodes TOON values from an input stream.
type Decoder struct {
	reader            io.Reader
	opts              []DecodeOption
	indent            int
	strict            bool
	expandPaths       bool
	useOrderedMap     bool
	validator         StructValidator
	nestingLimit      int
	arrayLengthLimit  int
	stringLengthLimit int
	warnings          []*Warning
}

// NewDecoder returns a new decoder that reads from r.
func NewDecoder(r io.Reader, opts ...DecodeOption) *Decoder {
	return &Decoder{
		reader:            r,
		opts:              opts,
		indent:            DefaultIndentSpaces,
		strict:            true,
		nestingLimit:      parser.DefaultNestingLimit,
		arrayLengthLimit:  parser.DefaultArrayLengthLimit,
		stringLengthLimit: parser.DefaultStringLengthLimit,
	}
}

// Warnings returns the validation problems the last lenient Decode call
// recovered from.
func (d *Decoder) Warnings() []*Warning {
	return d.warnings
}

// Decode reads the TOON document from its stream and stores the decoded
// value in the value pointed to by v.
//
// See the documentation for Unmarshal for details about the conversion
// of TOON into a Go value.
func (d *Decoder) Decode(v interface{}) error {
	for _, opt := range d.opts {
		if err := opt(d); err != nil {
			return errors.Wrapf(err, "failed to run option for decoder")
		}
	}
	rv := reflect.ValueOf(v)
	if rv.Type().Kind() != reflect.Ptr || rv.IsNil() {
		return errors.ErrDecodeRequiredPointerType
	}
	src, err := ioutil.ReadAll(d.reader)
	if err != nil {
		return errors.Wrapf(err, "failed to read")
	}
	parseOpts := []parser.Option{
		parser.Indent(d.indent),
		parser.NestingLimit(d.nestingLimit),
		parser.ArrayLengthLimit(d.arrayLengthLimit),
		parser.StringLengthLimit(d.stringLengthLimit),
	}
	if !d.strict {
		parseOpts = append(parseOpts, parser.Lenient())
	}
	node, warnings, err := parser.ParseBytes(src, parseOpts...)
	d.warnings = warnings
	if err != nil {
		return err
	}
	if d.expandPaths {
		node, err = d.expandNode(node)
		if err != nil {
			return err
		}
	}
	if err := d.decodeValue(rv.Elem(), node); err != nil {
		return err
	}
	return nil
}

var (
	mapSliceType   = reflect.TypeOf(MapSlice(nil))
	unmarshalerTyp = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
)

// nodeToValue converts a decoded node into the generic value model.
// Objects become MapSlice when ordered is set, map[string]interface{}
// otherwise.
func nodeToValue(node ast.Node, ordered bool) interface{} {
	switch n := node.(type) {
	case *ast.NullNode:
		return nil
	case *ast.BoolNode:
		return n.Value
	case *ast.IntegerNode:
		return n.Value
	case *ast.FloatNode:
		return n.Value
	case *ast.StringNode:
		return n.Value
	case *ast.SequenceNode:
		values := make([]interface{}, 0, len(n.Values))
		for _, value := range n.Values {
			values = append(values, nodeToValue(value, ordered))
		}
		return values
	case *ast.MappingNode:
		if ordered {
			obj := make(MapSlice, 0, len(n.Values))
			for _, field := range n.Values {
				obj = append(obj, MapItem{
					Key:   field.Key.Value,
					Value: nodeToValue(field.Value, ordered),
				})
			}
			return obj
		}
		obj := make(map[string]interface{}, len(n.Values))
		for _, field := range n.Values {
			obj[field.Key.Value] = nodeToValue(field.Value, ordered)
		}
		return obj
	}
	return nil
}

func (d *Decoder) decodeValue(dst reflect.Value, src ast.Node) error {
	if src == nil {
		return nil
	}
	valueType := dst.Type()
	if dst.CanAddr() && reflect.PtrTo(valueType).Implements(unmarshalerTyp) {
		u := dst.Addr().Interface().(Unmarshaler)
		if err := u.UnmarshalTOON([]byte(src.String())); err != nil {
			return errors.Wrapf(err, "failed to UnmarshalTOON")
		}
		return nil
	}
	if _, isNull := src.(*ast.NullNode); isNull {
		dst.Set(reflect.Zero(valueType))
		return nil
	}
	if valueType == mapSliceType {
		mapping, ok := src.(*ast.MappingNode)
		if !ok {
			return errTypeMismatch(valueType, src)
		}
		obj := make(MapSlice, 0, len(mapping.Values))
		for _, field := range mapping.Values {
			obj = append(obj, MapItem{
				Key:   field.Key.Value,
				Value: nodeToValue(field.Value, true),
			})
		}
		dst.Set(reflect.ValueOf(obj))
		return nil
	}
	switch valueType.Kind() {
	case reflect.Ptr:
		if dst.IsNil() {
			dst.Set(reflect.New(valueType.Elem()))
		}
		return d.decodeValue(dst.Elem(), src)
	case reflect.Interface:
		value := nodeToValue(src, d.useOrderedMap)
		if value == nil {
			dst.Set(reflect.Zero(valueType))
			return nil
		}
		dst.Set(reflect.ValueOf(value))
		return nil
	case reflect.Bool:
		n, ok := src.(*ast.BoolNode)
		if !ok {
			return errTypeMismatch(valueType, src)
		}
		dst.SetBool(n.Value)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := src.(*ast.IntegerNode)
		if !ok {
			return errTypeMismatch(valueType, src)
		}
		switch v := n.Value.(type) {
		case int64:
			if dst.OverflowInt(v) {
				return errTypeMismatch(valueType, src)
			}
			dst.SetInt(v)
		case uint64:
			if v > 1<<63-1 || dst.OverflowInt(int64(v)) {
				return errTypeMismatch(valueType, src)
			}
			dst.SetInt(int64(v))
		default:
			return errTypeMismatch(valueType, src)
		}
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, ok := src.(*ast.IntegerNode)
		if !ok {
			return errTypeMismatch(valueType, src)
		}
		switch v := n.Value.(type) {
		case int64:
			if v < 0 || dst.OverflowUint(uint64(v)) {
				return errTypeMismatch(valueType, src)
			}
			dst.SetUint(uint64(v))
		case uint64:
			if dst.OverflowUint(v) {
				return errTypeMismatch(valueType, src)
			}
			dst.SetUint(v)
		default:
			return errTypeMismatch(valueType, src)
		}
		return nil
	case reflect.Float32, reflect.Float64:
		switch n := src.(type) {
		case *ast.FloatNode:
			dst.SetFloat(n.Value)
			return nil
		case *ast.IntegerNode:
			switch v := n.Value.(type) {
			case int64:
				dst.SetFloat(float64(v))
			case uint64:
				dst.SetFloat(float64(v))
			}
			return nil
		}
		return errTypeMismatch(valueType, src)
	case reflect.String:
		n, ok := src.(ast.ScalarNode)
		if !ok {
			return errTypeMismatch(valueType, src)
		}
		dst.SetString(n.GetToken().Value)
		return nil
	case reflect.Slice:
		seq, ok := src.(*ast.SequenceNode)
		if !ok {
			return errTypeMismatch(valueType, src)
		}
		slice := reflect.MakeSlice(valueType, 0, len(seq.Values))
		for _, item := range seq.Values {
			elem := reflect.New(valueType.Elem()).Elem()
			if err := d.decodeValue(elem, item); err != nil {
				return err
			}
			slice = reflect.Append(slice, elem)
		}
		dst.Set(slice)
		return nil
	case reflect.Array:
		seq, ok := src.(*ast.SequenceNode)
		if !ok {
			return errTypeMismatch(valueType, src)
		}
		if len(seq.Values) > dst.Len() {
			return errTypeMismatch(valueType, src)
		}
		for i, item := range seq.Values {
			if err := d.decodeValue(dst.Index(i), item); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		return d.decodeMap(dst, src)
	case reflect.Struct:
		return d.decodeStruct(dst, src)
	}
	return errTypeMismatch(valueType, src)
}

func (d *Decoder) decodeMap(dst reflect.Value, src ast.Node) error {
	mapping, ok := src.(*ast.MappingNode)
	if !ok {
		return errTypeMismatch(dst.Type(), src)
	}
	mapType := dst.Type()
	if mapType.Key().Kind() != reflect.String {
		return errors.ErrUnsupportedType("map key of type " + mapType.Key().String())
	}
	mapValue := reflect.MakeMap(mapType)
	for _, field := range mapping.Values {
		value := reflect.New(mapType.Elem()).Elem()
		if err := d.decodeValue(value, field.Value); err != nil {
			return err
		}
		mapValue.SetMapIndex(reflect.ValueOf(field.Key.Value).Convert(mapType.Key()), value)
	}
	dst.Set(mapValue)
	return nil
}

func (d *Decoder) decodeStruct(dst reflect.Value, src ast.Node) error {
	mapping, ok := src.(*ast.MappingNode)
	if !ok {
		return errTypeMismatch(dst.Type(), src)
	}
	structType := dst.Type()
	fieldMap, err := structFieldsByName(structType)
	if err != nil {
		return errors.Wrapf(err, "failed to get struct field map")
	}
	fieldTokens := map[string]*token.Token{}
	for _, field := range mapping.Values {
		var structField *StructField
		for _, candidate := range fieldMap {
			if candidate.RenderName == field.Key.Value {
				structField = candidate
				break
			}
		}
		if structField == nil {
			// unknown keys are ignored so collaborator sections can pass
			// through a document unharmed
			continue
		}
		fieldValue := dst.FieldByName(structField.FieldName)
		if !fieldValue.IsValid() {
			continue
		}
		if err := d.decodeValue(fieldValue, field.Value); err != nil {
			return err
		}
		fieldTokens[structField.FieldName] = field.Key.GetToken()
	}
	if d.validator != nil {
		if err := d.validator.Struct(dst.Addr().Interface()); err != nil {
			return d.validationError(err, mapping, fieldTokens)
		}
	}
	return nil
}

// validationError positions a validator failure at the offending field's
// key token when the validator exposes one.
func (d *Decoder) validationError(err error, mapping *ast.MappingNode, fieldTokens map[string]*token.Token) error {
	tk := mapping.GetToken()
	rv := reflect.ValueOf(err)
	if rv.Kind() == reflect.Slice && rv.Len() > 0 {
		if fieldErr, ok := rv.Index(0).Interface().(FieldError); ok {
			if fieldTk, exists := fieldTokens[fieldErr.StructField()]; exists {
				tk = fieldTk
			}
		}
	}
	return errors.ErrValidationFailed(err.Error(), tk)
}

func errTypeMismatch(dstType reflect.Type, src ast.Node) error {
	return errors.ErrTypeMismatch(dstType.String(), src.Type().String(), src.GetToken())
}

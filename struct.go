package toon

import (
	"reflect"
	"strings"

	"golang.org/x/xerrors"
)

const (
	// StructTagName tag keyword for Marshal/Unmarshal
	StructTagName = "toon"
)

// StructField information for each the field in structure
type StructField struct {
	FieldName   string
	RenderName  string
	IsOmitEmpty bool
}

func structField(field reflect.StructField) *StructField {
	tag := field.Tag.Get(StructTagName)
	fieldName := strings.ToLower(field.Name)
	options := strings.Split(tag, ",")
	if len(options) > 0 {
		if options[0] != "" {
			fieldName = options[0]
		}
	}
	structField := &StructField{
		FieldName:  field.Name,
		RenderName: fieldName,
	}
	for _, opt := range options[1:] {
		switch opt {
		case "omitempty":
			structField.IsOmitEmpty = true
		default:
		}
	}
	return structField
}

func isIgnoredStructField(field reflect.StructField) bool {
	if field.PkgPath != "" && !field.Anonymous {
		// private field
		return true
	}
	tag := field.Tag.Get(StructTagName)
	return tag == "-"
}

type structFieldMap map[string]*StructField

func structFieldsByName(structType reflect.Type) (structFieldMap, error) {
	structFieldMap := structFieldMap{}
	renderNameMap := map[string]struct{}{}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if isIgnoredStructField(field) {
			continue
		}
		structField := structField(field)
		if _, exists := renderNameMap[structField.RenderName]; exists {
			return nil, xerrors.Errorf("duplicated struct field name %s", structField.RenderName)
		}
		structFieldMap[field.Name] = structField
		renderNameMap[structField.RenderName] = struct{}{}
	}
	return structFieldMap, nil
}

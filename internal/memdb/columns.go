// Handles column types and reflection-based schema generation.

package memdb

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
)

// ColumnType represents the type of a table column.
type ColumnType string

// Column types.
const (
	ColumnTypeText   ColumnType = "text"
	ColumnTypeNumber ColumnType = "number"
	ColumnTypeBool   ColumnType = "bool"
	ColumnTypeDate   ColumnType = "date"
)

// Column describes one field of a row type.
type Column struct {
	Name        string     `json:"name"`
	Type        ColumnType `json:"type"`
	Required    bool       `json:"required"`
	Description string     `json:"description,omitempty"`
}

// Columns extracts column definitions from a row type using JSON Schema
// reflection.
//
// It uses github.com/invopop/jsonschema to read field descriptions from
// `jsonschema:"description=..."` tags and required fields from the schema.
// Fields of embedded structs such as Meta are included in declaration order.
func Columns[T any]() ([]Column, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type must be a struct or pointer to struct, got %s", t.Kind())
	}

	// Inline properties (no $ref) so embedded structs are flattened.
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	schema := r.ReflectFromType(t)

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	fields := make(map[string]reflect.Type)
	collectFields(t, fields)

	var columns []Column
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		colType := ColumnTypeText
		if ft, ok := fields[pair.Key]; ok {
			colType = goTypeToColumnType(ft)
		}
		columns = append(columns, Column{
			Name:        pair.Key,
			Type:        colType,
			Required:    required[pair.Key],
			Description: pair.Value.Description,
		})
	}
	return columns, nil
}

// collectFields maps JSON names to Go types, descending into embedded structs.
func collectFields(t reflect.Type, out map[string]reflect.Type) {
	for i := range t.NumField() {
		field := t.Field(i)
		if field.Anonymous && field.Tag.Get("json") == "" {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, out)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		name := jsonFieldName(&field)
		if name == "-" {
			continue
		}
		out[name] = field.Type
	}
}

// jsonFieldName returns the JSON field name for a struct field.
func jsonFieldName(field *reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

var timeType = reflect.TypeFor[time.Time]()

func goTypeToColumnType(t reflect.Type) ColumnType {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return ColumnTypeDate
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return ColumnTypeNumber
	case reflect.Bool:
		return ColumnTypeBool
	default:
		return ColumnTypeText
	}
}

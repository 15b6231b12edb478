package memdb

import (
	"reflect"
	"testing"
)

func TestColumns(t *testing.T) {
	cols, err := Columns[*testRow]()
	if err != nil {
		t.Fatal(err)
	}
	want := []Column{
		{Name: "id", Type: ColumnTypeText, Required: true, Description: "Unique identifier assigned by the store"},
		{Name: "createdAt", Type: ColumnTypeDate, Required: true, Description: "Creation timestamp"},
		{Name: "updatedAt", Type: ColumnTypeDate, Required: true, Description: "Last modification timestamp"},
		{Name: "name", Type: ColumnTypeText, Required: true, Description: "Display name"},
		{Name: "tags", Type: ColumnTypeText, Required: false, Description: "Free-form tags"},
		{Name: "score", Type: ColumnTypeNumber, Required: true},
		{Name: "list", Type: ColumnTypeText, Required: false},
	}
	if len(cols) != len(want) {
		t.Fatalf("got %d columns %+v, want %d", len(cols), cols, len(want))
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("column %d = %+v, want %+v", i, cols[i], want[i])
		}
	}
}

func TestColumnsRejectsNonStruct(t *testing.T) {
	if _, err := Columns[int](); err == nil {
		t.Error("Columns[int]: expected error")
	}
}

func TestGoTypeToColumnType(t *testing.T) {
	tests := []struct {
		name string
		got  ColumnType
		want ColumnType
	}{
		{"string", goTypeToColumnType(reflect.TypeFor[string]()), ColumnTypeText},
		{"int", goTypeToColumnType(reflect.TypeFor[int]()), ColumnTypeNumber},
		{"float64", goTypeToColumnType(reflect.TypeFor[float64]()), ColumnTypeNumber},
		{"bool", goTypeToColumnType(reflect.TypeFor[bool]()), ColumnTypeBool},
		{"time", goTypeToColumnType(timeType), ColumnTypeDate},
		{"*string", goTypeToColumnType(reflect.TypeFor[*string]()), ColumnTypeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

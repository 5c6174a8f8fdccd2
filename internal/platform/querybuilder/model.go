package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT from a struct's db tags, in field order.
// Untagged, skipped ("-") and unexported fields are ignored.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	columns := make([]string, 0, typ.NumField())
	values := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		column := dbColumnName(field.Tag.Get("db"))
		if column == "" {
			continue
		}
		columns = append(columns, column)
		values = append(values, value.Field(i).Interface())
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("model has no db columns")
	}

	return InsertInto(table).
		Columns(columns...).
		Values(values...).
		Suffix(suffix).
		ToSQL()
}

func dbColumnName(tag string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(tag), ",")
	name = strings.TrimSpace(name)
	if name == "-" {
		return ""
	}
	return name
}

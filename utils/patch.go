package utils

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// PatchColumns collects the set fields of a partial-update DTO into a GORM
// Updates map. Only non-nil pointer fields are taken. The column comes from
// a `column:"..."` tag, falling back to the json name; either set to "-"
// keeps the field out of the patch. Strings are trimmed and money is rounded
// to cents on the way in, so callers do not need a separate normalize pass.
func PatchColumns(dto any) map[string]any {
	cols := make(map[string]any)
	s := reflect.Indirect(reflect.ValueOf(dto))
	if s.Kind() != reflect.Struct {
		return cols
	}
	t := s.Type()
	for i := 0; i < t.NumField(); i++ {
		fv := s.Field(i)
		if fv.Kind() != reflect.Ptr || fv.IsNil() {
			continue
		}
		name := columnName(t.Field(i))
		if name == "" {
			continue
		}
		cols[name] = patchValue(fv.Elem())
	}
	return cols
}

func columnName(sf reflect.StructField) string {
	if col, ok := sf.Tag.Lookup("column"); ok {
		if col == "-" {
			return ""
		}
		return col
	}
	name := strings.Split(sf.Tag.Get("json"), ",")[0]
	if name == "-" {
		return ""
	}
	return name
}

func patchValue(v reflect.Value) any {
	switch x := v.Interface().(type) {
	case decimal.Decimal:
		return Round2(x)
	case string:
		return strings.TrimSpace(x)
	default:
		return x
	}
}

// ParseIntDefault parses a non-negative integer query value.
func ParseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v >= 0 {
		return v
	}
	return def
}

package utils

import (
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// NormalizePtrDTO trims *string fields and rounds *decimal.Decimal fields on a pointer-to-struct DTO.
// Only non-nil pointer fields are touched; nils stay nil so they are not applied as updates.
func NormalizePtrDTO(dto any) {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr {
		return
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if f.Kind() != reflect.Ptr || f.IsNil() {
			continue
		}
		normalizeValue(f.Elem())
	}
}

// NormalizeDTO trims string fields and rounds decimal fields on a pointer-to-struct DTO.
// Useful for create DTOs that use non-pointer fields.
func NormalizeDTO(dto any) {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr {
		return
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		normalizeValue(s.Field(i))
	}
}

func normalizeValue(f reflect.Value) {
	if !f.CanSet() {
		return
	}
	if f.Type() == decimalType {
		d := f.Interface().(decimal.Decimal)
		f.Set(reflect.ValueOf(Round2(d)))
		return
	}
	switch f.Kind() {
	case reflect.String:
		f.SetString(strings.TrimSpace(f.String()))
	case reflect.Slice:
		if f.Type().Elem().Kind() != reflect.String {
			return
		}
		for j := 0; j < f.Len(); j++ {
			f.Index(j).SetString(strings.TrimSpace(f.Index(j).String()))
		}
	}
}

// Package validation настраивает валидатор входящих запросов.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// TagNoNUL — тег, запрещающий символ U+0000 в строках, в том числе внутри
// вложенных map и срезов. Postgres не хранит NUL ни в TEXT, ни в JSONB.
const TagNoNUL = "nonul"

// New возвращает валидатор с зарегистрированными правилами сервиса.
func New() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(TagNoNUL, func(fl validator.FieldLevel) bool {
		return !containsNUL(fl.Field())
	}); err != nil {
		panic(err)
	}
	return v
}

func containsNUL(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.ContainsRune(v.String(), 0)
	case reflect.Ptr, reflect.Interface:
		return !v.IsNil() && containsNUL(v.Elem())
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if containsNUL(iter.Key()) || containsNUL(iter.Value()) {
				return true
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if containsNUL(v.Index(i)) {
				return true
			}
		}
	}
	return false
}

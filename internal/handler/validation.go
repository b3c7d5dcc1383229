package handler

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator builds a validator that understands decimal.Decimal fields, so
// request structs can use plain numeric tags like gt=0 on money amounts.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			value, _ := d.Float64()
			return value
		}
		return nil
	}, decimal.Decimal{})
	return v
}

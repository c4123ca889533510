package handlers

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

var hundred = decimal.NewFromInt(100)

// registerCustomValidators teaches gin's validator about decimal amounts:
// decimals validate through their string form, dgte0 requires >= 0 and dlte100 requires <= 100.
func registerCustomValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("dgte0", decimalAtLeastZero)
		_ = v.RegisterValidation("dlte100", decimalAtMostHundred)
	})
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func parseDecimalField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(fl.Field().String())
	return d, err == nil
}

func decimalAtLeastZero(fl validator.FieldLevel) bool {
	d, ok := parseDecimalField(fl)
	return ok && !d.IsNegative()
}

func decimalAtMostHundred(fl validator.FieldLevel) bool {
	d, ok := parseDecimalField(fl)
	return ok && d.LessThanOrEqual(hundred)
}

package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Amounts are compared as numbers by the gte/lte tags.
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			if d, ok := v.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
	})
	return validate
}

// validateStruct runs tag validation on v and converts the first failure
// into a *ValidationError scoped under prefix.
func validateStruct(prefix string, v interface{}) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError(prefix, err.Error())
	}
	fe := fieldErrs[0]
	field := prefix + "." + strings.ToLower(fe.Field())
	return NewValidationError(field, describeTag(fe.Tag(), fe.Param()))
}

func describeTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "numeric":
		return "must contain digits only"
	case "max":
		return fmt.Sprintf("must be at most %s characters", param)
	case "min":
		return fmt.Sprintf("must be at least %s", param)
	case "gte":
		return fmt.Sprintf("must not be below %s", param)
	}
	return "failed " + tag
}

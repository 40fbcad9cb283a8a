package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	clovererrors "github.com/Ramsey-B/clover/pkg/errors"
)

var validate = newValidator()

// newValidator reports fields by their json name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the struct's validate tags. The first failing field is returned as a
// *clovererrors.ValidationError.
func Validate[T any](value T) (T, error) {
	if err := validate.Struct(value); err != nil {
		return value, toValidationError(err)
	}
	return value, nil
}

func ValidateValue(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return toValidationError(err, field)
	}
	return nil
}

func toValidationError(err error, field ...string) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	name := fe.Field()
	if len(field) > 0 {
		name = field[0]
	}
	msg := fmt.Sprintf("failed rule '%s'", fe.Tag())
	if fe.Param() != "" {
		msg = fmt.Sprintf("failed rule '%s=%s'", fe.Tag(), fe.Param())
	}
	return clovererrors.NewValidationError(name, fmt.Sprintf("%v", fe.Value()), msg)
}

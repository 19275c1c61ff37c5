package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func validateStruct(payload interface{}) *[]error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs := []error{err}
		return &errs
	}
	errs := []error{}
	for _, fieldErr := range validationErrs {
		errs = append(errs, fmt.Errorf("%s failed validation on the %s rule", toSnakeCase(fieldErr.Field()), fieldErr.Tag()))
	}
	return &errs
}

func validateField(value any, rules string) error {
	return validate.Var(value, rules)
}

func toSnakeCase(field string) string {
	var out strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out.WriteByte('_')
			}
			out.WriteRune(r + 32)
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/harentsoaR/hospital-api/internal/apperror"
)

// Validator wraps go-playground/validator and reports failures as
// apperror validation errors keyed by JSON field name.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s. When any required field is absent the summary is
// missingMsg; otherwise it is the first field's message.
func (v *Validator) Struct(s interface{}, missingMsg string) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.Internal(err)
	}

	details := make(map[string]string, len(validationErrors))
	summary := ""
	for _, fieldError := range validationErrors {
		msg := fieldMessage(fieldError)
		details[fieldError.Field()] = msg
		if fieldError.Tag() == "required" {
			summary = missingMsg
		}
		if summary == "" {
			summary = msg
		}
	}
	return apperror.ValidationFields(summary, details)
}

func fieldMessage(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Provide A Valid Email!"
	case "min":
		return fmt.Sprintf("%s must contain at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must contain at most %s characters", field, e.Param())
	case "len":
		return fmt.Sprintf("%s must contain exactly %s digits", field, e.Param())
	case "number":
		return field + " must contain only digits"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return field + " is invalid"
	}
}

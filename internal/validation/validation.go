// Package validation wraps go-playground/validator behind a single shared
// validator instance and converts validation failures into the service's
// error taxonomy.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/skillsenselab/prodman/internal/errors"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Get returns the shared validator instance. Field names in error messages
// come from json tags, not Go field names.
func Get() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return instance
}

// Struct validates a struct's `validate` tags and returns an INVALID_INPUT
// application error describing every failed field, or nil.
func Struct(s any) *apperrors.AppError {
	if err := Get().Struct(s); err != nil {
		return toAppError(err)
	}
	return nil
}

func toAppError(err error) *apperrors.AppError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation(err.Error())
	}

	appErr := apperrors.Validation("Request validation failed.")
	for _, fe := range verrs {
		appErr = appErr.WithDetail(fe.Field(), fieldMessage(fe))
	}
	return appErr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

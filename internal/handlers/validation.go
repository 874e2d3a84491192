package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors converts binding errors to a user-friendly format
func ParseValidationErrors(err error) []ValidationError {
	var result []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			result = append(result, ValidationError{
				Field:   fieldError.Field(),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return result
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must not exceed " + fe.Param() + " characters"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// bindingDetails returns field errors when available, else the raw message
func bindingDetails(err error) any {
	if details := ParseValidationErrors(err); len(details) > 0 {
		return details
	}
	return err.Error()
}

package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

func (pe *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", pe.Field, pe.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewValidationErrorWithRule creates a new validation error with rule
func NewValidationErrorWithRule(field, message, rule string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    rule,
	}
}

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	var errs ValidationErrors

	var validatorErr validator.ValidationErrors
	if stderrors.As(err, &validatorErr) {
		for _, fe := range validatorErr {
			errs = append(errs, ValidationError{
				Field:   fe.Field(),
				Message: getErrorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
	}

	return errs
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", err.Param())
	case "numeric":
		return "must be a number"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "gtefield":
		return fmt.Sprintf("must not be less than %s", err.Param())

	// Custom validators
	case "question_type":
		return "must be a valid question type (single-choice, multiple-choice, true-false, fill-in-blank, matching, ordering, reading-comprehension, image-based, audio-based, short-answer, essay, drag-drop, matrix)"
	case "difficulty_level":
		return "must be easy, medium, or hard"
	case "theme":
		return "must be light or dark"
	case "language":
		return "must be en, jp, or vn"

	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}

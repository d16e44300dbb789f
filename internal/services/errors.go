package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/exam-session-service/internal/errors"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Exam catalog errors
	ErrExamNotFound = errors.New("exam not found")
	ErrNoQuestions  = errors.New("exam has no questions")

	// Session errors
	ErrSessionNotActive      = errors.New("no exam session in progress")
	ErrResumeDecisionPending = errors.New("a saved session is waiting for a resume decision")
	ErrNoResumeDecision      = errors.New("no saved session is waiting for a resume decision")
	ErrNothingToSave         = errors.New("session has nothing to save")
	ErrSubmissionFailed      = errors.New("failed to submit exam result")

	// Result errors
	ErrResultNotFound = errors.New("result not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrResultNotFound) ||
		errors.Is(err, repositories.ErrNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrBadRequest) {
		return true
	}
	var ve apperrors.ValidationErrors
	var single *apperrors.ValidationError
	return errors.As(err, &ve) || errors.As(err, &single)
}

// IsConflict checks if error represents a state conflict in the session flow
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNoQuestions) ||
		errors.Is(err, ErrSessionNotActive) ||
		errors.Is(err, ErrResumeDecisionPending) ||
		errors.Is(err, ErrNoResumeDecision) ||
		errors.Is(err, ErrNothingToSave)
}

// mapRepositoryError translates a repository miss into the given domain error
func mapRepositoryError(err error, notFound error, action string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

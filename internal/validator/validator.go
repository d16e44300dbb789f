package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/exam-session-service/internal/errors"
	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// ValidationErrors is what Validate returns when struct tags fail.
type ValidationErrors = apperrors.ValidationErrors

// Validator combines struct tag validation with question shape checks
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and returns the failures as ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// ValidateQuestion runs tag validation followed by the per-type payload checks
func (v *Validator) ValidateQuestion(q *models.Question) error {
	if err := v.Validate(q); err != nil {
		return err
	}
	return v.questionValidator.ValidateQuestion(q)
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("theme", validateTheme)
	validate.RegisterValidation("language", validateLanguage)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsValid()
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	validLevels := []models.DifficultyLevel{
		models.DifficultyEasy,
		models.DifficultyMedium,
		models.DifficultyHard,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

func validateTheme(fl validator.FieldLevel) bool {
	switch models.Theme(fl.Field().String()) {
	case models.ThemeLight, models.ThemeDark:
		return true
	}
	return false
}

func validateLanguage(fl validator.FieldLevel) bool {
	switch models.Language(fl.Field().String()) {
	case models.LanguageEnglish, models.LanguageJapanese, models.LanguageVietnamese:
		return true
	}
	return false
}

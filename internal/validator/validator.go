package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes a single failed field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with interview-domain rules.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerDomainRules()

	return v
}

// Validate validates struct tags on any request struct. Returns nil when the
// struct is valid.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (v *Validator) registerDomainRules() {
	v.validate.RegisterValidation("experience_level", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "entry", "junior", "mid", "mid-level", "senior", "lead", "principal":
			return true
		}
		return false
	})

	v.validate.RegisterValidation("interview_type", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "technical", "behavioral", "system-design", "mixed":
			return true
		}
		return false
	})

	v.validate.RegisterValidation("difficulty_level", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "beginner", "easy", "intermediate", "medium", "advanced", "hard":
			return true
		}
		return false
	})

	v.validate.RegisterValidation("question_count", func(fl validator.FieldLevel) bool {
		count := fl.Field().Int()
		return count >= 1 && count <= 20
	})
}

// ToValidationErrors converts library errors into the domain error type.
func ToValidationErrors(err error) ValidationErrors {
	var out ValidationErrors

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "request", Message: err.Error(), Rule: "struct"}}
	}

	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "experience_level":
		return "must be a valid experience level"
	case "interview_type":
		return "must be technical, behavioral, system-design or mixed"
	case "difficulty_level":
		return "must be beginner, intermediate or advanced"
	case "question_count":
		return "must be between 1 and 20"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}

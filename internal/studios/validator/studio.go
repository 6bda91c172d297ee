package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Podhive/MVP/pkg/logger"
	"github.com/Podhive/MVP/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type StudioValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewStudioValidator(log *logger.Logger) *StudioValidator {
	v := validator.New()

	return &StudioValidator{
		validate: v,
		logger:   log,
	}
}

func (v *StudioValidator) Validate(studio *model.Studio) error {
	if err := v.validate.Struct(studio); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateBusinessRules(studio)
}

func (v *StudioValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: messageFor(err),
		})
	}

	return validationErrors
}

func messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "gtfield":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "url":
		return "must be a valid URL"
	case "mongodb":
		return "must be a valid object ID"
	default:
		return fmt.Sprintf("failed on '%s' validation", err.Tag())
	}
}

func (v *StudioValidator) validateBusinessRules(studio *model.Studio) error {
	var validationErrors ValidationErrors

	seen := make(map[string]bool, len(studio.Packages))
	for _, p := range studio.Packages {
		if seen[p.Key] {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "Packages",
				Message: fmt.Sprintf("duplicate package key %q", p.Key),
			})
		}
		seen[p.Key] = true
	}

	seenAddOns := make(map[string]bool, len(studio.AddOns))
	for _, a := range studio.AddOns {
		if seenAddOns[a.Key] {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "AddOns",
				Message: fmt.Sprintf("duplicate add-on key %q", a.Key),
			})
		}
		seenAddOns[a.Key] = true
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

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

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	var validationErrors ValidationErrors

	seen := make(map[string]bool, len(booking.AddOns))
	for _, sel := range booking.AddOns {
		if seen[sel.Key] {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "AddOns",
				Message: fmt.Sprintf("duplicate add-on key %q", sel.Key),
			})
		}
		seen[sel.Key] = true
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
	case "unique":
		return "must not contain duplicates"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "mongodb":
		return "must be a valid object ID"
	default:
		return fmt.Sprintf("failed on '%s' validation", err.Tag())
	}
}

package models

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("character", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return utf8.ValidString(s) && utf8.RuneCountInString(s) == 1
	})
	return v
}

// Validator exposes the shared instance so DTOs can use the same custom
// tags.
func Validator() *validator.Validate { return validate }

// Validate checks v's struct tags and reports the first failing field
// as a *utils.ValidationError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return utils.NewValidationError(fe.Field(), describe(fe))
	}
	return utils.NewValidationError("", err.Error())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "character":
		return "must be exactly one character"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

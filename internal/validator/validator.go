package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kedaya2025/FastNav/internal/domain"
)

// Validator wraps the go-playground validator and reports failures as
// *domain.ValidationError.
type Validator struct {
	validate *validator.Validate
}

var recordIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// New creates a validator that names fields by their JSON tags.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("recordid", validateRecordID)

	return &Validator{validate: v}
}

// Validate checks one struct.
func (v *Validator) Validate(i any) error {
	fields, err := v.fieldErrors(i, "")
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}

// ValidateAll checks every element of items and reports fields as label[i].field.
func ValidateAll[T any](v *Validator, label string, items []T) error {
	var fields []domain.FieldError
	for i := range items {
		fe, err := v.fieldErrors(&items[i], fmt.Sprintf("%s[%d].", label, i))
		if err != nil {
			return err
		}
		fields = append(fields, fe...)
	}
	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}

func (v *Validator) fieldErrors(i any, prefix string) ([]domain.FieldError, error) {
	err := v.validate.Struct(i)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, domain.NewValidationError("invalid input: %v", err)
	}

	out := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, domain.FieldError{
			Field:   prefix + fe.Field(),
			Message: prefix + msgForTag(fe),
		})
	}
	return out, nil
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color such as #1da1f2", field)
	case "recordid":
		return fmt.Sprintf("%s may only contain letters, numbers, and -_.", field)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func validateRecordID(fl validator.FieldLevel) bool {
	return recordIDPattern.MatchString(fl.Field().String())
}

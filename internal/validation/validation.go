// Package validation runs go-playground/validator struct checks and reports the first
// failure as an *apperrors.ValidationError named after the field's tag.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"atelier/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

// Validator validates structs, naming fields by the given struct tag ("form" or "json").
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator that reports fields by tagName.
func New(tagName string) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get(tagName), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s. Fields are checked in declaration order and the first failure wins.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &apperrors.ValidationError{Field: fieldErrs[0].Field(), Tag: fieldErrs[0].Tag()}
	}
	return err
}

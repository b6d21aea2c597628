// Package validation adapts go-playground/validator to echo's Validator
// interface, so controllers can lean on `validate` struct tags after Bind.
package validation

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

// Validate satisfies echo.Validator; i must be a struct or pointer to one.
func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

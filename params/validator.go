package params

import (
	validator "gopkg.in/go-playground/validator.v9"
)

// NewValidator returns a validator for checking struct tags.
func NewValidator() *validator.Validate {
	return validator.New()
}

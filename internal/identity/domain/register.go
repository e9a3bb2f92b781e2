package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword"`
}

// FieldError reports the first rejected registration field.
type FieldError struct {
	Field string
	Tag   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s failed %q", ErrInvalidRegistration, e.Field, e.Tag)
}

func (e *FieldError) Unwrap() error { return ErrInvalidRegistration }

// Validate trims the text fields and checks the form. Mismatching passwords
// yield ErrPasswordMismatch; other failures are a *FieldError.
func (r *RegisterRequest) Validate(v *validator.Validate) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)

	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := v.Struct(r); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return &FieldError{Field: strings.ToLower(verrs[0].Field()), Tag: verrs[0].Tag()}
		}
		return fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}
	return nil
}

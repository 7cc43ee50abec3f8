// Package contact handles the "Get In Touch" form: validation, the stored
// inbox and the optional email notification.
package contact

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// looseEmail accepts anything shaped like a@b.c.
var looseEmail = regexp.MustCompile(`\S+@\S+\.\S+`)

// Form is one submission.
type Form struct {
	Name    string `form:"name" json:"name" validate:"required"`
	Email   string `form:"email" json:"email" validate:"required,looseemail"`
	Subject string `form:"subject" json:"subject"`
	Message string `form:"message" json:"message" validate:"required"`
}

// Trimmed returns f with surrounding whitespace removed from every field.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Subject: strings.TrimSpace(f.Subject),
		Message: strings.TrimSpace(f.Message),
	}
}

// FieldErrors maps a form field to the message shown under it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return "invalid contact form: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	_ = v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return looseEmail.MatchString(fl.Field().String())
	})
	return v
}

var messages = map[string]string{
	"name.required":    "Name is required",
	"email.required":   "Email is required",
	"email.looseemail": "Email is invalid",
	"message.required": "Message is required",
}

// Validate checks f and returns FieldErrors, or nil when f is acceptable.
func Validate(f Form) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[fe.Field()] = msg
	}
	return out
}

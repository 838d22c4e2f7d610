// Package validate checks form input before anything is sent to the backend.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/senselib/f8client/internal/common"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// Errors is every failed rule of a form. It matches common.ErrValidation.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e Errors) Unwrap() error { return common.ErrValidation }

// Field returns the error for field, if any.
func (e Errors) Field(name string) (FieldError, bool) {
	for _, fe := range e {
		if fe.Field == name {
			return fe, true
		}
	}
	return FieldError{}, false
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return lowerFirst(f.Name)
			}
			return name
		})
	})
	return v
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	out := make(Errors, 0, len(ves))
	for _, fe := range ves {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	f, p := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", f)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", f, p)
		}
		return fmt.Sprintf("%s must be at least %s", f, p)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", f, p)
		}
		return fmt.Sprintf("%s must be at most %s", f, p)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f, p)
	case "gte":
		return fmt.Sprintf("%s must be %s or more", f, p)
	case "lte":
		return fmt.Sprintf("%s must be %s or less", f, p)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", f)
	case "e164":
		return fmt.Sprintf("%s must be a phone number like +14155550100", f)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", f, lowerFirst(p))
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", f, lowerFirst(p))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, p)
	case "alphanum":
		return fmt.Sprintf("%s may contain only letters and digits", f)
	case "file":
		return fmt.Sprintf("%s must be an existing file", f)
	}
	return fmt.Sprintf("%s is invalid (%s)", f, fe.Tag())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

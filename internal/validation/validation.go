// Package validation checks request payloads before they reach services.
package validation

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/rookgm/foodorder/internal/models"
	"reflect"
	"strings"
)

// OTPLength is number of digits in delivery OTP
const OTPLength = 6

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		return IsOTP(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Error lists invalid fields. It matches models.ErrValidation with errors.Is.
type Error struct {
	Fields []string
	msg    string
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return models.ErrValidation
}

// Errorf creates validation error with formatted message
func Errorf(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Struct validates s by its validate tags
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{msg: "invalid request"}
	}

	ve := &Error{}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		ve.Fields = append(ve.Fields, field)
		msgs = append(msgs, describe(field, fe))
	}
	ve.msg = strings.Join(msgs, "; ")

	return ve
}

// OTP checks delivery code format
func OTP(code string) error {
	if !IsOTP(code) {
		return &Error{Fields: []string{"otp"}, msg: fmt.Sprintf("otp must be %d digits", OTPLength)}
	}
	return nil
}

// IsOTP reports whether code is exactly OTPLength ascii digits
func IsOTP(code string) bool {
	if len(code) != OTPLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// fieldPath drops the root struct name from namespace
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "otp":
		return fmt.Sprintf("%s must be %d digits", field, OTPLength)
	}
	return field + " is invalid"
}

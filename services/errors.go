package services

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrUnknownStatus        = errors.New("unknown order status")
	ErrMissingBusinessPhone = errors.New("shop phone number is not configured")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrProductUnavailable   = errors.New("product is not available")
	ErrInvalidCredentials   = errors.New("invalid password")
	ErrInvalidToken         = errors.New("invalid or expired session")
	ErrTokenRevoked         = errors.New("session has been logged out")
)

// ValidationError maps input field names to user-facing messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check validates s and turns failures into a ValidationError, using
// messages keyed by field name, falling back to the failed tag.
func check(s any, messages map[string]string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = "failed " + fe.Tag() + " check"
		}
		verr.add(field, msg)
	}
	return verr
}

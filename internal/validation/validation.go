// Package validation wraps go-playground/validator with the custom rules the
// booking types rely on and turns validator failures into a field keyed
// error that handlers can hand back to clients.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/weshowyou-tours/internal/model"
)

var (
	once     sync.Once
	instance *validator.Validate
)

var bookingStatusFunc validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(model.BookingStatus)
	return ok && s.Valid()
}

var paymentStatusFunc validator.Func = func(fl validator.FieldLevel) bool {
	p, ok := fl.Field().Interface().(model.PaymentStatus)
	return ok && p.Valid()
}

// Validator returns the shared validator with the booking rules registered.
// validator.Validate caches struct metadata and is safe for concurrent use.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// report json names so messages line up with request payloads
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("booking_status", bookingStatusFunc)
		_ = v.RegisterValidation("payment_status", paymentStatusFunc)
		instance = v
	})
	return instance
}

// Error lists failing fields with a short message each.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Struct validates v and returns nil or an *Error.
func Struct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

// IsValidation reports whether err carries field errors.
func IsValidation(err error) bool {
	var target *Error
	return errors.As(err, &target)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "datetime":
		return "must match " + fe.Param()
	case "booking_status":
		return "must be one of Pending, Confirmed, Completed, Cancelled"
	case "payment_status":
		return "must be one of Not Paid, Deposit Paid, Fully Paid, Refunded"
	}
	return "is invalid"
}

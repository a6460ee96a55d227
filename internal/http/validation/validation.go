package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type FieldErrors map[string]string

// Messages overrides the generic text per field. Keys are "field.tag"
// or just "field".
type Messages map[string]string

var (
	once sync.Once
	v    *validator.Validate
)

// Validator returns the shared validator with the app's custom rules.
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			return tagName(f)
		})
		_ = v.RegisterValidation("decimal", isDecimal)
		_ = v.RegisterValidation("dgt", decimalGreaterThan)
		_ = v.RegisterValidation("dltefield", decimalLteField)
		_ = v.RegisterValidation("dategtefield", dateGteField)
	})
	return v
}

// Struct validates dst and returns nil when it is valid.
func Struct(dst any, msgs Messages) FieldErrors {
	err := Validator().Struct(dst)
	if err == nil {
		return nil
	}
	return FromBindError(err, dst, msgs)
}

// FromBindError turns a bind/validation error into a field->message map.
// dst is the bound struct pointer (used to read tags).
func FromBindError(err error, dst any, msgs Messages) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			key := fieldKey(dst, fe.StructField())
			if _, seen := out[key]; seen {
				continue
			}
			out[key] = messageFor(msgs, key, fe.Tag(), fe.Param())
		}
		return out
	}

	// other bind errors (type mismatch etc.)
	out["_"] = "The submitted form data is invalid."
	return out
}

func fieldKey(dst any, structField string) string {
	t := reflect.TypeOf(dst)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return strings.ToLower(structField)
	}

	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	if tag := tagName(f); tag != "" {
		return tag
	}
	return strings.ToLower(structField)
}

func tagName(f reflect.StructField) string {
	tag := f.Tag.Get("form")
	// form:"email,omitempty" -> email
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	if tag == "-" {
		return ""
	}
	return tag
}

func messageFor(msgs Messages, field, tag, param string) string {
	if m, ok := msgs[field+"."+tag]; ok {
		return m
	}
	if m, ok := msgs[field]; ok {
		return m
	}
	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Must be at least " + param + " characters."
	case "max":
		return "Must be at most " + param + " characters."
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "decimal", "numeric", "number":
		return "Enter a number."
	case "gt", "dgt":
		return "Must be greater than " + param + "."
	case "datetime":
		return "Enter a valid date."
	default:
		return "Invalid value."
	}
}

func isDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

// dgt=0: decimal strictly greater than the param.
func decimalGreaterThan(fl validator.FieldLevel) bool {
	val, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	limit, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	return val.GreaterThan(limit)
}

// dltefield=Price: decimal less than or equal to another field. Unparsable
// values pass; the decimal rule reports them.
func decimalLteField(fl validator.FieldLevel) bool {
	val, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return true
	}
	other, _, _, ok := fl.GetStructFieldOKAdvanced2(fl.Parent(), fl.Param())
	if !ok {
		return true
	}
	limit, err := decimal.NewFromString(strings.TrimSpace(other.String()))
	if err != nil {
		return true
	}
	return val.LessThanOrEqual(limit)
}

// dategtefield=StartDate on YYYY-MM-DD strings.
func dateGteField(fl validator.FieldLevel) bool {
	end, err := time.Parse(time.DateOnly, strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return true
	}
	other, _, _, ok := fl.GetStructFieldOKAdvanced2(fl.Parent(), fl.Param())
	if !ok {
		return true
	}
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(other.String()))
	if err != nil {
		return true
	}
	return !end.Before(start)
}

package dto

import (
	"html"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)

const (
	passwordMinLen = 6
	passwordMaxLen = 32
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("safe_id", validateSafeID)
		_ = v.RegisterValidation("strong_password", validateStrongPassword)
		_ = v.RegisterValidation("date_bound", validateDateBound)
	}
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// validateStrongPassword requires 6 to 32 Latin characters with at least one
// lower case letter, upper case letter, digit and special character, and no
// whitespace.
func validateStrongPassword(fl validator.FieldLevel) bool {
	return StrongPassword(fl.Field().String())
}

// StrongPassword reports whether p satisfies the banking password policy.
func StrongPassword(p string) bool {
	if n := len(p); n < passwordMinLen || n > passwordMaxLen {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case r > unicode.MaxASCII, unicode.IsSpace(r), unicode.IsControl(r):
			return false
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}

func validateDateBound(fl validator.FieldLevel) bool {
	return ParseDateBound(fl.Field().String()) != nil
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field (including *string) of a struct pointer. Fields tagged
// `sanitize:"-"` are left untouched.
func SanitizeStruct(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() || rt.Field(i).Tag.Get("sanitize") == "-" {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String()))
			}
		}
	}
}

func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

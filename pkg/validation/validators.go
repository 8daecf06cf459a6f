package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Optional +, then digits with optional single spaces or dashes, 7-15 digits total.
	phoneRegex = regexp.MustCompile(`^\+?[0-9](?:[ -]?[0-9]){6,14}$`)
)

// New returns a validator with the custom rules registered. Field names in
// errors are the struct field names so labels can be looked up.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("not_blank", NotBlank)
	_ = v.RegisterValidation("http_url", HTTPURL)
}

// ValidPhone accepts numbers like +98 912 123 4567 or 0912-123-4567.
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

// NotBlank rejects strings that are empty after trimming whitespace.
func NotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// HTTPURL accepts empty or http(s) URLs only.
func HTTPURL(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true
	}
	return strings.HasPrefix(val, "http://") || strings.HasPrefix(val, "https://")
}

package meetups

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// cyrillicText matches the characters city names may contain.
var cyrillicText = regexp.MustCompile(`^[А-Яа-яЁё\s-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so errors match what the API would say.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("cyrillic", func(fl validator.FieldLevel) bool {
		return cyrillicText.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks a payload against its validate tags.
func Validate(payload any) error {
	return validate.Struct(payload)
}

// IsValidation reports whether err came from payload validation.
func IsValidation(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

// NormalizeCyrillic drops every character a city name may not contain.
func NormalizeCyrillic(s string) string {
	var b strings.Builder
	for _, r := range s {
		if cyrillicText.MatchString(string(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package http

import (
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

type CustomValidator struct{ v *validator.Validate }

// NewValidator registers the custom tags. phoneRegion is the ISO country
// assumed for numbers written without a +country prefix.
func NewValidator(phoneRegion string) *CustomValidator {
	v := validator.New()

	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// ids = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return reHex32.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("intlike", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return math.Abs(f-math.Round(f)) < 1e-9
	})
	// max 2 decimal places
	_ = v.RegisterValidation("dec2", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return math.Abs(f-(math.Round(f*100)/100)) < 1e-9
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		num, err := libphonenumber.Parse(fl.Field().String(), phoneRegion)
		return err == nil && libphonenumber.IsValidNumber(num)
	})
	_ = v.RegisterValidation("tenure", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "months", "years":
			return true
		}
		return false
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// ToFieldErrors maps validator.ValidationErrors to readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "hex32":
			out = append(out, FieldError{Field: field, Message: "must be 32-char lowercase hex"})
		case "intlike":
			out = append(out, FieldError{Field: field, Message: "must be an integer value"})
		case "dec2":
			out = append(out, FieldError{Field: field, Message: "must have at most 2 decimal places"})
		case "phone":
			out = append(out, FieldError{Field: field, Message: "must be a valid phone number"})
		case "tenure":
			out = append(out, FieldError{Field: field, Message: "must be months or years"})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid email"})
		case "datetime":
			out = append(out, FieldError{Field: field, Message: "must match " + e.Param()})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}

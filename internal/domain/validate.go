package domain

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern   = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigits      = regexp.MustCompile(`\D`)
)

// ValidationError ошибки полей формы
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Registration данные формы регистрации
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,storeemail"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required,inphone"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// field names in messages follow the json tags
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "inphone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	mustRegister(v, "pincode", func(fl validator.FieldLevel) bool {
		return ValidPincode(fl.Field().String())
	})
	mustRegister(v, "storeemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// NormalizePhone убирает всё, кроме цифр
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// ValidPhone: 10-digit Indian mobile number after stripping separators.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

// ValidPincode: ровно 6 цифр
func ValidPincode(code string) bool {
	return pincodePattern.MatchString(code)
}

// ValidateAddress проверяет адрес доставки перед подтверждением заказа
func ValidateAddress(a Address) error {
	return check(a, map[string]string{
		"fullName":     "Full name is required",
		"phoneNumber":  "Phone number is required",
		"addressLine1": "Address is required",
		"city":         "City is required",
		"state":        "State is required",
		"pincode":      "Pincode is required",
	})
}

// ValidateRegistration проверяет форму регистрации
func ValidateRegistration(r Registration) error {
	return check(r, map[string]string{
		"name":     "Name is required",
		"email":    "Email is required",
		"password": "Password is required",
		"phone":    "Phone number is required",
	})
}

func check(v any, required map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = fieldMessage(fe, required)
	}
	return out
}

func fieldMessage(fe validator.FieldError, required map[string]string) string {
	switch fe.Tag() {
	case "required":
		if msg, ok := required[fe.Field()]; ok {
			return msg
		}
		return "This field is required"
	case "inphone":
		return "Enter a valid 10-digit phone number"
	case "pincode":
		return "Enter a valid 6-digit pincode"
	case "storeemail":
		return "Enter a valid email address"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	}
	return "Invalid value"
}

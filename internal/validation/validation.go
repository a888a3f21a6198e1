// Package validation holds the input rules shared by services.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var validate = newValidator()

// tagMessages holds the fixed wording reported for a failed tag.
var tagMessages = map[string]string{
	"email":        "Valid email is required",
	"phone":        "Phone must contain 10 or 11 digits",
	"password_len": "Password must be at least 8 characters long",
	"has_digit":    "Password must contain at least one number",
	"has_lower":    "Password must contain at least one lowercase letter",
	"has_upper":    "Password must contain at least one uppercase letter",
}

// passwordTags are checked one by one so every broken rule is reported.
var passwordTags = []string{"password_len", "has_digit", "has_lower", "has_upper"}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterAlias("phone", "number,min=10,max=11")
	v.RegisterAlias("password_len", "min=8")
	mustRegister(v, "has_digit", containsRange('0', '9'))
	mustRegister(v, "has_lower", containsRange('a', 'z'))
	mustRegister(v, "has_upper", containsRange('A', 'Z'))
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// containsRange passes when the string holds at least one rune in [lo, hi].
func containsRange(lo, hi rune) validator.Func {
	return func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if r >= lo && r <= hi {
				return true
			}
		}
		return false
	}
}

// Collector accumulates field errors for one validation pass.
type Collector struct {
	errs apperrors.ValidationErrors
}

// Add records a failure for field.
func (c *Collector) Add(field, message string) {
	c.errs = append(c.errs, apperrors.FieldError{Field: field, Message: message})
}

// check runs tag against value and records the tag's message on failure.
func (c *Collector) check(field string, value any, tag string) bool {
	if err := validate.Var(value, tag); err != nil {
		c.Add(field, tagMessages[tag])
		return false
	}
	return true
}

// Required records message when value is blank and reports whether it was present.
func (c *Collector) Required(field, value, message string) bool {
	if validate.Var(strings.TrimSpace(value), "required") != nil {
		c.Add(field, message)
		return false
	}
	return true
}

// Email checks a required email address.
func (c *Collector) Email(field, value string) {
	c.check(field, strings.TrimSpace(value), "email")
}

// OptionalEmail checks value only when it is set.
func (c *Collector) OptionalEmail(field string, value *string) {
	if value != nil && strings.TrimSpace(*value) != "" {
		c.Email(field, *value)
	}
}

// Password applies the strength policy.
func (c *Collector) Password(field, value string) {
	for _, msg := range PasswordViolations(value) {
		c.Add(field, msg)
	}
}

// Phone checks a 10 or 11 digit phone number.
func (c *Collector) Phone(field, value string) {
	if !c.Required(field, value, "Phone is required") {
		return
	}
	c.check(field, strings.TrimSpace(value), "phone")
}

// NonNegativeInt checks an optional integer.
func (c *Collector) NonNegativeInt(field string, value *int, message string) {
	if value != nil && validate.Var(*value, "gte=0") != nil {
		c.Add(field, message)
	}
}

// NonNegativeFloat checks an optional number.
func (c *Collector) NonNegativeFloat(field string, value *float64, message string) {
	if value != nil && validate.Var(*value, "gte=0") != nil {
		c.Add(field, message)
	}
}

// Err returns the collected failures, or nil.
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}

// PasswordViolations lists every rule value breaks. Only ASCII letters and
// digits satisfy the character class rules.
func PasswordViolations(value string) []string {
	var msgs []string
	for _, tag := range passwordTags {
		if validate.Var(value, tag) != nil {
			msgs = append(msgs, tagMessages[tag])
		}
	}
	return msgs
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

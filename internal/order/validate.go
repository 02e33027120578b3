package order

import (
	"errors"
	"regexp"
	"strings"
)

var ErrValidation = errors.New("validation")

var phoneRe = regexp.MustCompile(`^\+?\d+$`)

const minPhoneLen = 9

// CheckoutForm carries the shipping fields of the checkout submission.
// UseProfileData, when set, replaces every shipping field with the live
// profile snapshot before validation (profile wins over typed input).
type CheckoutForm struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Zipcode        string `json:"zipcode"`
	PhoneNumber    string `json:"phone_number"`
	UseProfileData bool   `json:"use_profile_data"`
}

// FieldErrors maps a form field to its message, one per offending field.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Is(target error) bool { return target == ErrValidation }

// Validate checks the required shipping fields. The phone number must be
// digits, optionally prefixed by "+", at least 9 characters.
func (f CheckoutForm) Validate() FieldErrors {
	fieldErrs := FieldErrors{}

	required := map[string]string{
		"first_name":   f.FirstName,
		"last_name":    f.LastName,
		"address":      f.Address,
		"city":         f.City,
		"zipcode":      f.Zipcode,
		"phone_number": f.PhoneNumber,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			fieldErrs[field] = "this field is required"
		}
	}

	if _, bad := fieldErrs["phone_number"]; !bad {
		if !phoneRe.MatchString(f.PhoneNumber) {
			fieldErrs["phone_number"] = "invalid phone number format"
		} else if len(f.PhoneNumber) < minPhoneLen {
			fieldErrs["phone_number"] = "phone number must have at least 9 characters"
		}
	}

	if len(fieldErrs) == 0 {
		return nil
	}
	return fieldErrs
}

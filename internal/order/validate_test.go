package order

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRequiredFields(t *testing.T) {
	fieldErrs := CheckoutForm{}.Validate()
	require.Len(t, fieldErrs, 6)
	for _, field := range []string{"first_name", "last_name", "address", "city", "zipcode", "phone_number"} {
		require.Contains(t, fieldErrs, field)
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"+420123456789", true},
		{"123456789", true},
		{"12345678", false},      // too short
		{"+12 345 6789", false},  // spaces
		{"12345678a", false},     // letters
		{"++123456789", false},   // double prefix
		{"", false},
	}

	for _, tc := range cases {
		form := validForm()
		form.PhoneNumber = tc.phone
		fieldErrs := form.Validate()
		if tc.ok {
			require.Nil(t, fieldErrs, "phone %q should pass", tc.phone)
		} else {
			require.Contains(t, fieldErrs, "phone_number", "phone %q should fail", tc.phone)
		}
	}
}

func TestValidWholeForm(t *testing.T) {
	require.Nil(t, validForm().Validate())
}

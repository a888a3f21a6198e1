package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

func TestPasswordViolations(t *testing.T) {
	tests := []struct {
		password string
		want     int
	}{
		{"Test@123", 0},
		{"weak123", 2},
		{"NOLOWER123", 1},
		{"NoDigitsHere", 1},
		{"", 4},
		{"Ábcdefg1", 1},
		{"Abcdefgh٣", 1},
		{"ABCDEFG1ß", 1},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Len(t, PasswordViolations(tt.password), tt.want)
		})
	}
}

func TestCollector(t *testing.T) {
	var c Collector
	c.Required("name", " ", "Name is required")
	c.Email("email", "not-an-email")
	c.Phone("phone", "123")
	age := -1
	c.NonNegativeInt("age", &age, "Age must be a positive number")
	c.OptionalEmail("contact", nil)

	err := c.Err()
	require.Error(t, err)

	var verrs apperrors.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 4)
	assert.Equal(t, "Name is required, Valid email is required, Phone must contain 10 or 11 digits, Age must be a positive number", err.Error())
}

func TestPasswordViolations_NonASCII(t *testing.T) {
	assert.Equal(t, []string{"Password must contain at least one uppercase letter"}, PasswordViolations("Ábcdefg1"))
	assert.Equal(t, []string{"Password must contain at least one number"}, PasswordViolations("Abcdefgh١٢٣"))
}

func TestCollector_Phone(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"", "Phone is required"},
		{"1198765432", ""},
		{"11987654321", ""},
		{"119876543210", "Phone must contain 10 or 11 digits"},
		{"-119876543", "Phone must contain 10 or 11 digits"},
		{"١١٩٨٧٦٥٤٣٢", "Phone must contain 10 or 11 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			var c Collector
			c.Phone("phone", tt.phone)
			if tt.want == "" {
				assert.NoError(t, c.Err())
				return
			}
			require.Error(t, c.Err())
			assert.Equal(t, tt.want, c.Err().Error())
		})
	}
}

func TestCollector_Valid(t *testing.T) {
	var c Collector
	c.Email("email", "vet@test.com")
	c.Phone("phone", "11987654321")
	c.Password("password", "Test@123")

	assert.NoError(t, c.Err())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "vet@test.com", NormalizeEmail("  Vet@Test.COM "))
}

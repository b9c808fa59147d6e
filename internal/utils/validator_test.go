// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pincodeFixture struct {
	Pincode string `validate:"required,pincode"`
}

func TestPincodeValidation(t *testing.T) {
	valid := []string{"560001", "110001", "999999"}
	for _, pin := range valid {
		assert.NoError(t, ValidateStruct(&pincodeFixture{Pincode: pin}), pin)
	}

	invalid := []string{"060001", "56001", "5600011", "56000a", "ABCDEF"}
	for _, pin := range invalid {
		assert.Error(t, ValidateStruct(&pincodeFixture{Pincode: pin}), pin)
	}
}

func TestGetValidationErrorsMessages(t *testing.T) {
	type form struct {
		Email   string `validate:"required,email"`
		Pincode string `validate:"required,pincode"`
	}

	err := ValidateStruct(&form{Email: "not-an-email", Pincode: "000000"})
	details := GetValidationErrors(err)

	assert.Len(t, details, 2)
	assert.Equal(t, "email", details[0].Field)
	assert.Equal(t, "Invalid email format", details[0].Message)
	assert.Equal(t, "Pincode must be a valid six-digit postal code", details[1].Message)
}

func TestGetValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, GetValidationErrors(nil))
	assert.Empty(t, GetValidationErrors(assert.AnError))
}

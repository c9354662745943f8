package domain

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBankDetails() *BankDetails {
	return &BankDetails{
		Aadhar:        "1234 5678 9012",
		PAN:           "ABCDE1234F",
		AccountNumber: "123456789",
		IFSC:          "HDFC0001234",
		UPI:           "vendor@upi.bank",
	}
}

func TestValidateBankDetails_Valid(t *testing.T) {
	assert.Empty(t, ValidateBankDetails(validBankDetails()))
}

func TestValidateBankDetails_PANOptional(t *testing.T) {
	details := validBankDetails()
	details.PAN = ""

	assert.Empty(t, ValidateBankDetails(details))
}

func TestValidateBankDetails_FieldFailures(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*BankDetails)
		badField string
	}{
		{
			name:     "aadhar missing third group",
			mutate:   func(d *BankDetails) { d.Aadhar = "1234 5678" },
			badField: "aadhar",
		},
		{
			name:     "aadhar without spaces",
			mutate:   func(d *BankDetails) { d.Aadhar = "123456789012" },
			badField: "aadhar",
		},
		{
			name:     "pan wrong shape",
			mutate:   func(d *BankDetails) { d.PAN = "AB1234567C" },
			badField: "pan",
		},
		{
			name:     "account number too short",
			mutate:   func(d *BankDetails) { d.AccountNumber = "12345678" },
			badField: "account_number",
		},
		{
			name:     "account number too long",
			mutate:   func(d *BankDetails) { d.AccountNumber = "1234567890123456789" },
			badField: "account_number",
		},
		{
			name:     "ifsc missing zero",
			mutate:   func(d *BankDetails) { d.IFSC = "HDFC1001234" },
			badField: "ifsc",
		},
		{
			name:     "upi not email or phone handle",
			mutate:   func(d *BankDetails) { d.UPI = "not a upi" },
			badField: "upi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := validBankDetails()
			tt.mutate(details)

			errs := ValidateBankDetails(details)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.badField, errs[0].Field)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestValidUPI_PhoneHandle(t *testing.T) {
	assert.True(t, ValidUPI("9876543210@paytm"))
	assert.True(t, ValidUPI("vendor@upi.bank"))
	assert.False(t, ValidUPI("98765@paytm"))
	assert.False(t, ValidUPI("9876543210@"))
}

func TestRegisterValidations(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidations(v))

	req := &EnrollRequest{
		Aadhar:        "1234 5678 9012",
		AccountNumber: "123456789",
		IFSC:          "HDFC0001234",
		UPI:           "9876543210@paytm",
	}
	assert.NoError(t, v.Struct(req))

	req.Aadhar = "1234 5678"
	assert.Error(t, v.Struct(req))
}

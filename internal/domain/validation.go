package domain

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Bank-detail field formats. Aadhar is written as three space-separated
// groups of four digits; IFSC is four bank letters, a literal zero, and a
// six character branch code; UPI handles are either email-shaped or a ten
// digit phone number followed by @provider.
var (
	aadharPattern     = regexp.MustCompile(`^\d{4}\s\d{4}\s\d{4}$`)
	panPattern        = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	accountNumPattern = regexp.MustCompile(`^\d{9,18}$`)
	ifscPattern       = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	upiEmailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upiPhonePattern   = regexp.MustCompile(`^\d{10}@[a-z]+$`)
)

// FieldError describes a single field that failed format validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func ValidAadhar(s string) bool  { return aadharPattern.MatchString(s) }
func ValidPAN(s string) bool     { return panPattern.MatchString(s) }
func ValidAccount(s string) bool { return accountNumPattern.MatchString(s) }
func ValidIFSC(s string) bool    { return ifscPattern.MatchString(s) }

func ValidUPI(s string) bool {
	return upiEmailPattern.MatchString(s) || upiPhonePattern.MatchString(s)
}

// ValidateBankDetails checks every field and returns one error per
// failing field. PAN is optional; all other fields are required.
func ValidateBankDetails(details *BankDetails) []FieldError {
	var errs []FieldError

	if !ValidAadhar(details.Aadhar) {
		errs = append(errs, FieldError{Field: "aadhar", Message: "must be 3 groups of 4 digits (XXXX XXXX XXXX)"})
	}
	if details.PAN != "" && !ValidPAN(details.PAN) {
		errs = append(errs, FieldError{Field: "pan", Message: "must be 5 letters, 4 digits, 1 letter"})
	}
	if !ValidAccount(details.AccountNumber) {
		errs = append(errs, FieldError{Field: "account_number", Message: "must be 9 to 18 digits"})
	}
	if !ValidIFSC(details.IFSC) {
		errs = append(errs, FieldError{Field: "ifsc", Message: "must be 4 letters, 0, then 6 alphanumerics"})
	}
	if !ValidUPI(details.UPI) {
		errs = append(errs, FieldError{Field: "upi", Message: "must be email-shaped or <10 digits>@provider"})
	}

	return errs
}

// RegisterValidations registers the bank-detail formats as custom tags so
// request DTOs can carry them alongside the builtin rules.
func RegisterValidations(v *validator.Validate) error {
	checks := map[string]func(string) bool{
		"aadhar":      ValidAadhar,
		"pan":         ValidPAN,
		"bankaccount": ValidAccount,
		"ifsc":        ValidIFSC,
		"upi":         ValidUPI,
	}

	for tag, check := range checks {
		check := check
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		})
		if err != nil {
			return err
		}
	}

	return nil
}

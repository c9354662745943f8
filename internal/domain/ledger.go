package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionTypePurchase  = "purchase"
	TransactionTypeRepayment = "repayment"
	TransactionTypeInterest  = "interest"
)

const (
	PaymentMethodUPI          = "upi"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCash         = "cash"
)

// VendorLedger represents one vendor's pay-later account
type VendorLedger struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	VendorID         string          `json:"vendor_id" db:"vendor_id"`
	TotalCreditLimit decimal.Decimal `json:"total_credit_limit" db:"total_credit_limit"`
	UsedCredit       decimal.Decimal `json:"used_credit" db:"used_credit"`
	DueDate          *time.Time      `json:"due_date,omitempty" db:"due_date"`
	InterestRate     decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	BankDetails      *BankDetails    `json:"bank_details,omitempty" db:"-"`
	IsEnrolled       bool            `json:"is_enrolled" db:"is_enrolled"`
	IsBlocked        bool            `json:"is_blocked" db:"is_blocked"`
	Version          int64           `json:"-" db:"version"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// BankDetails is the KYC/payment-instrument record captured at enrollment
type BankDetails struct {
	Aadhar        string `json:"aadhar" db:"aadhar"`
	PAN           string `json:"pan,omitempty" db:"pan"`
	AccountNumber string `json:"account_number" db:"account_number"`
	IFSC          string `json:"ifsc" db:"ifsc"`
	UPI           string `json:"upi" db:"upi"`
}

// LedgerTransaction is one entry in a vendor's transaction log.
// Amounts are signed: positive for purchases and interest, negative for repayments.
type LedgerTransaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Sequence    int64           `json:"sequence" db:"sequence"`
	VendorID    string          `json:"vendor_id" db:"vendor_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Type        string          `json:"type" db:"type"`
	Date        time.Time       `json:"date" db:"date"`
	Description string          `json:"description" db:"description"`
}

// RemainingCredit returns the credit still available for charges.
func (l *VendorLedger) RemainingCredit() decimal.Decimal {
	return l.TotalCreditLimit.Sub(l.UsedCredit)
}

// IsOverdue reports whether the ledger carries a balance past its due date.
func (l *VendorLedger) IsOverdue(asOf time.Time) bool {
	return l.DueDate != nil && asOf.After(*l.DueDate)
}

// DTOs for requests and responses

type EnrollRequest struct {
	Aadhar        string `json:"aadhar" validate:"required,aadhar"`
	PAN           string `json:"pan,omitempty" validate:"omitempty,pan"`
	AccountNumber string `json:"account_number" validate:"required,bankaccount"`
	IFSC          string `json:"ifsc" validate:"required,ifsc"`
	UPI           string `json:"upi" validate:"required,upi"`
}

func (r *EnrollRequest) BankDetails() *BankDetails {
	return &BankDetails{
		Aadhar:        r.Aadhar,
		PAN:           r.PAN,
		AccountNumber: r.AccountNumber,
		IFSC:          r.IFSC,
		UPI:           r.UPI,
	}
}

type ChargeRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description" validate:"required"`
}

type RepayRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Method        string          `json:"method" validate:"required,oneof=upi bank_transfer cash"`
	TransactionID string          `json:"transaction_id" validate:"required"`
}

type StandingResponse struct {
	VendorID        string          `json:"vendor_id"`
	RemainingCredit decimal.Decimal `json:"remaining_credit"`
	IsOverdue       bool            `json:"is_overdue"`
	MonthsOverdue   int             `json:"months_overdue"`
	InterestAmount  decimal.Decimal `json:"interest_amount"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
}

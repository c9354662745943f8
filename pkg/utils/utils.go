package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

const daysPerBillingMonth = 30

// DueDateFrom calculates the repayment due date for a charge made on the
// given date. Midnight truncation keeps due-date comparisons stable across
// the day the charge happened.
func DueDateFrom(chargeDate time.Time, dueDays int) time.Time {
	return chargeDate.Truncate(24*time.Hour).AddDate(0, 0, dueDays)
}

// MonthsOverdue counts started 30-day months between the due date and the
// evaluation date. Any partial month counts as a full month.
func MonthsOverdue(dueDate, asOf time.Time) int {
	if !asOf.After(dueDate) {
		return 0
	}

	elapsed := asOf.Sub(dueDate)
	days := int(elapsed.Hours() / 24)
	months := days / daysPerBillingMonth
	if elapsed > time.Duration(months*daysPerBillingMonth)*24*time.Hour {
		months++
	}

	return months
}

// IsDateOverdue checks if a due date has passed as of the given date.
func IsDateOverdue(dueDate, asOf time.Time) bool {
	return asOf.After(dueDate)
}

// DecimalFromFloat converts float64 to decimal.Decimal
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

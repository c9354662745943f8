package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bazaarbuddy/paylater-engine/pkg/utils"
)

// Standing holds the derived values for a ledger at a point in time.
// It is recomputed on every evaluation and never persisted.
type Standing struct {
	RemainingCredit decimal.Decimal
	IsOverdue       bool
	MonthsOverdue   int
	InterestAmount  decimal.Decimal
	TotalPayable    decimal.Decimal
}

// ComputeStanding derives the ledger's standing as of the given date.
// Interest accrues only past the due date, at interestRate per started
// 30-day month on the outstanding balance.
func ComputeStanding(ledger *VendorLedger, asOf time.Time) Standing {
	standing := Standing{
		RemainingCredit: ledger.RemainingCredit(),
		InterestAmount:  decimal.Zero,
		TotalPayable:    ledger.UsedCredit,
	}

	if !ledger.IsOverdue(asOf) {
		return standing
	}

	standing.IsOverdue = true
	standing.MonthsOverdue = utils.MonthsOverdue(*ledger.DueDate, asOf)
	standing.InterestAmount = ledger.UsedCredit.
		Mul(ledger.InterestRate).
		Mul(decimal.NewFromInt(int64(standing.MonthsOverdue))).
		Round(2)
	standing.TotalPayable = ledger.UsedCredit.Add(standing.InterestAmount)

	return standing
}

package statemachine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/looplab/fsm"

	"github.com/bazaarbuddy/paylater-engine/internal/domain"
)

// Account states
const (
	StateActive  = "active"
	StateOverdue = "overdue"
	StateBlocked = "blocked"
)

// AccountFSM wraps a vendor ledger with its pay-later account state machine.
//
// active: no balance, or balance within the due date.
// overdue: balance past the due date, account still usable for repayment.
// blocked: overdue past the grace period, charges rejected until cleared.
type AccountFSM struct {
	ledger *domain.VendorLedger
	fsm    *fsm.FSM
}

// NewAccountFSM creates the state machine seeded from the ledger's
// persisted flag and its standing as of the given date.
func NewAccountFSM(ledger *domain.VendorLedger, asOf time.Time) *AccountFSM {
	afsm := &AccountFSM{
		ledger: ledger,
	}

	afsm.fsm = fsm.NewFSM(
		currentState(ledger, asOf),
		fsm.Events{
			// active → overdue when the due date passes with a balance
			{Name: "mark_overdue", Src: []string{StateActive}, Dst: StateOverdue},

			// overdue → blocked once the grace period is exceeded
			{Name: "block", Src: []string{StateOverdue}, Dst: StateBlocked},

			// any state → active on full repayment
			{Name: "reactivate", Src: []string{StateActive, StateOverdue, StateBlocked}, Dst: StateActive},
		},
		fsm.Callbacks{},
	)

	return afsm
}

func currentState(ledger *domain.VendorLedger, asOf time.Time) string {
	switch {
	case ledger.IsBlocked:
		return StateBlocked
	case ledger.IsOverdue(asOf):
		return StateOverdue
	default:
		return StateActive
	}
}

// Current returns the account's current state.
func (a *AccountFSM) Current() string {
	return a.fsm.Current()
}

// Block transitions an overdue account to blocked and sets the ledger flag.
func (a *AccountFSM) Block(ctx context.Context) error {
	if err := a.fsm.Event(ctx, "block"); err != nil {
		return fmt.Errorf("cannot block account in state %s: %w", a.fsm.Current(), err)
	}

	a.ledger.IsBlocked = true
	return nil
}

// Reactivate transitions the account back to active after full repayment
// and clears the ledger flag.
func (a *AccountFSM) Reactivate(ctx context.Context) error {
	if err := a.fsm.Event(ctx, "reactivate"); err != nil {
		// Reactivating an already-active account is a no-op, not a failure.
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return fmt.Errorf("cannot reactivate account in state %s: %w", a.fsm.Current(), err)
		}
	}

	a.ledger.IsBlocked = false
	return nil
}

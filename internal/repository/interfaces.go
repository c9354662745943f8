package repository

import (
	"context"
	"time"

	"github.com/bazaarbuddy/paylater-engine/internal/domain"
)

// LedgerRepository defines the interface for vendor ledger data operations
type LedgerRepository interface {
	// Create creates a new vendor ledger
	Create(ctx context.Context, ledger *domain.VendorLedger) error

	// GetByVendorID retrieves a ledger by vendor ID
	GetByVendorID(ctx context.Context, vendorID string) (*domain.VendorLedger, error)

	// UpdateWithVersion updates a ledger only if the stored version still
	// matches ledger.Version, then bumps the version. Returns
	// errors.ErrVersionConflict on a stale stamp.
	UpdateWithVersion(ctx context.Context, ledger *domain.VendorLedger) error

	// ListOverdue returns enrolled, unblocked ledgers whose due date is
	// before the cutoff date
	ListOverdue(ctx context.Context, cutoff time.Time) ([]*domain.VendorLedger, error)
}

// TransactionRepository defines the interface for ledger transaction data operations
type TransactionRepository interface {
	// Create appends a transaction to the log, assigning its sequence number
	Create(ctx context.Context, tx *domain.LedgerTransaction) error

	// GetByVendorID retrieves all transactions for a vendor, oldest first
	GetByVendorID(ctx context.Context, vendorID string) ([]*domain.LedgerTransaction, error)
}

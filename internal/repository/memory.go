package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/bazaarbuddy/paylater-engine/internal/domain"
	customError "github.com/bazaarbuddy/paylater-engine/pkg/errors"
)

// MemoryLedgerRepository is an in-memory LedgerRepository for tests and
// local development. It follows the same version discipline as the
// Postgres implementation so concurrency behavior matches.
type MemoryLedgerRepository struct {
	mu      sync.Mutex
	ledgers map[string]domain.VendorLedger
}

func NewMemoryLedgerRepository() *MemoryLedgerRepository {
	return &MemoryLedgerRepository{
		ledgers: make(map[string]domain.VendorLedger),
	}
}

func (r *MemoryLedgerRepository) Create(_ context.Context, ledger *domain.VendorLedger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ledgers[ledger.VendorID] = cloneLedger(ledger)
	return nil
}

func (r *MemoryLedgerRepository) GetByVendorID(_ context.Context, vendorID string) (*domain.VendorLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.ledgers[vendorID]
	if !ok {
		return nil, sql.ErrNoRows
	}

	copied := cloneLedger(&stored)
	return &copied, nil
}

func (r *MemoryLedgerRepository) UpdateWithVersion(_ context.Context, ledger *domain.VendorLedger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.ledgers[ledger.VendorID]
	if !ok {
		return sql.ErrNoRows
	}
	if stored.Version != ledger.Version {
		return customError.ErrVersionConflict
	}

	updated := cloneLedger(ledger)
	updated.Version++
	updated.UpdatedAt = time.Now()
	r.ledgers[ledger.VendorID] = updated
	ledger.Version = updated.Version

	return nil
}

func (r *MemoryLedgerRepository) ListOverdue(_ context.Context, cutoff time.Time) ([]*domain.VendorLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var overdue []*domain.VendorLedger
	for _, stored := range r.ledgers {
		if !stored.IsEnrolled || stored.IsBlocked || stored.DueDate == nil {
			continue
		}
		if stored.DueDate.Before(cutoff) {
			copied := cloneLedger(&stored)
			overdue = append(overdue, &copied)
		}
	}

	sort.Slice(overdue, func(i, j int) bool {
		return overdue[i].DueDate.Before(*overdue[j].DueDate)
	})

	return overdue, nil
}

func cloneLedger(ledger *domain.VendorLedger) domain.VendorLedger {
	copied := *ledger
	if ledger.DueDate != nil {
		due := *ledger.DueDate
		copied.DueDate = &due
	}
	if ledger.BankDetails != nil {
		details := *ledger.BankDetails
		copied.BankDetails = &details
	}
	return copied
}

// MemoryTransactionRepository is an in-memory TransactionRepository
// with a monotonic sequence counter.
type MemoryTransactionRepository struct {
	mu           sync.Mutex
	nextSequence int64
	transactions []domain.LedgerTransaction
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{}
}

func (r *MemoryTransactionRepository) Create(_ context.Context, tx *domain.LedgerTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSequence++
	tx.Sequence = r.nextSequence
	r.transactions = append(r.transactions, *tx)

	return nil
}

func (r *MemoryTransactionRepository) GetByVendorID(_ context.Context, vendorID string) ([]*domain.LedgerTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*domain.LedgerTransaction
	for i := range r.transactions {
		if r.transactions[i].VendorID == vendorID {
			copied := r.transactions[i]
			result = append(result, &copied)
		}
	}

	return result, nil
}

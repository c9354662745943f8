package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bazaarbuddy/paylater-engine/internal/domain"
)

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Create(ctx context.Context, ledger *domain.VendorLedger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByVendorID(ctx context.Context, vendorID string) (*domain.VendorLedger, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorLedger), args.Error(1)
}

func (m *MockLedgerRepository) UpdateWithVersion(ctx context.Context, ledger *domain.VendorLedger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]*domain.VendorLedger, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VendorLedger), args.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.LedgerTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByVendorID(ctx context.Context, vendorID string) ([]*domain.LedgerTransaction, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LedgerTransaction), args.Error(1)
}

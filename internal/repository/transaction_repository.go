package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/bazaarbuddy/paylater-engine/internal/domain"
)

type transactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.LedgerTransaction) error {
	query := `
		INSERT INTO ledger_transactions (id, vendor_id, amount, type, date, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING sequence
	`

	return r.db.QueryRowxContext(ctx, query,
		tx.ID,
		tx.VendorID,
		tx.Amount,
		tx.Type,
		tx.Date,
		tx.Description,
	).Scan(&tx.Sequence)
}

func (r *transactionRepository) GetByVendorID(ctx context.Context, vendorID string) ([]*domain.LedgerTransaction, error) {
	query := `
		SELECT id, sequence, vendor_id, amount, type, date, description
		FROM ledger_transactions
		WHERE vendor_id = $1
		ORDER BY sequence
	`

	var transactions []*domain.LedgerTransaction
	if err := r.db.SelectContext(ctx, &transactions, query, vendorID); err != nil {
		return nil, err
	}

	return transactions, nil
}

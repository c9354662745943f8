package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bazaarbuddy/paylater-engine/internal/domain"
	customError "github.com/bazaarbuddy/paylater-engine/pkg/errors"
)

type ledgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// ledgerRow flattens the bank details into the ledger row for scanning.
type ledgerRow struct {
	domain.VendorLedger
	Aadhar        sql.NullString `db:"aadhar"`
	PAN           sql.NullString `db:"pan"`
	AccountNumber sql.NullString `db:"account_number"`
	IFSC          sql.NullString `db:"ifsc"`
	UPI           sql.NullString `db:"upi"`
}

func (r *ledgerRow) ledger() *domain.VendorLedger {
	ledger := r.VendorLedger
	if r.Aadhar.Valid {
		ledger.BankDetails = &domain.BankDetails{
			Aadhar:        r.Aadhar.String,
			PAN:           r.PAN.String,
			AccountNumber: r.AccountNumber.String,
			IFSC:          r.IFSC.String,
			UPI:           r.UPI.String,
		}
	}
	return &ledger
}

func (r *ledgerRepository) Create(ctx context.Context, ledger *domain.VendorLedger) error {
	query := `
		INSERT INTO vendor_ledgers (id, vendor_id, total_credit_limit, used_credit, due_date, interest_rate,
			aadhar, pan, account_number, ifsc, upi, is_enrolled, is_blocked, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	var aadhar, pan, account, ifsc, upi *string
	if bd := ledger.BankDetails; bd != nil {
		aadhar, account, ifsc, upi = &bd.Aadhar, &bd.AccountNumber, &bd.IFSC, &bd.UPI
		if bd.PAN != "" {
			pan = &bd.PAN
		}
	}

	_, err := r.db.ExecContext(ctx, query,
		ledger.ID,
		ledger.VendorID,
		ledger.TotalCreditLimit,
		ledger.UsedCredit,
		ledger.DueDate,
		ledger.InterestRate,
		aadhar,
		pan,
		account,
		ifsc,
		upi,
		ledger.IsEnrolled,
		ledger.IsBlocked,
		ledger.Version,
		ledger.CreatedAt,
		ledger.UpdatedAt,
	)

	return err
}

func (r *ledgerRepository) GetByVendorID(ctx context.Context, vendorID string) (*domain.VendorLedger, error) {
	query := `
		SELECT id, vendor_id, total_credit_limit, used_credit, due_date, interest_rate,
			aadhar, pan, account_number, ifsc, upi, is_enrolled, is_blocked, version, created_at, updated_at
		FROM vendor_ledgers
		WHERE vendor_id = $1
	`

	var row ledgerRow
	if err := r.db.GetContext(ctx, &row, query, vendorID); err != nil {
		return nil, err
	}

	return row.ledger(), nil
}

func (r *ledgerRepository) UpdateWithVersion(ctx context.Context, ledger *domain.VendorLedger) error {
	query := `
		UPDATE vendor_ledgers
		SET used_credit = $2, due_date = $3, is_blocked = $4, version = version + 1, updated_at = $5
		WHERE vendor_id = $1 AND version = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		ledger.VendorID,
		ledger.UsedCredit,
		ledger.DueDate,
		ledger.IsBlocked,
		time.Now(),
		ledger.Version,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the row is gone or another writer bumped the version.
		if _, getErr := r.GetByVendorID(ctx, ledger.VendorID); errors.Is(getErr, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return customError.ErrVersionConflict
	}

	ledger.Version++
	return nil
}

func (r *ledgerRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]*domain.VendorLedger, error) {
	query := `
		SELECT id, vendor_id, total_credit_limit, used_credit, due_date, interest_rate,
			aadhar, pan, account_number, ifsc, upi, is_enrolled, is_blocked, version, created_at, updated_at
		FROM vendor_ledgers
		WHERE is_enrolled = TRUE AND is_blocked = FALSE AND due_date IS NOT NULL AND due_date < $1
		ORDER BY due_date
	`

	var rows []ledgerRow
	if err := r.db.SelectContext(ctx, &rows, query, cutoff); err != nil {
		return nil, err
	}

	ledgers := make([]*domain.VendorLedger, 0, len(rows))
	for i := range rows {
		ledgers = append(ledgers, rows[i].ledger())
	}

	return ledgers, nil
}

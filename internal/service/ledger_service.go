package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/bazaarbuddy/paylater-engine/internal/config"
	"github.com/bazaarbuddy/paylater-engine/internal/domain"
	"github.com/bazaarbuddy/paylater-engine/internal/repository"
	"github.com/bazaarbuddy/paylater-engine/internal/statemachine"
	customError "github.com/bazaarbuddy/paylater-engine/pkg/errors"
	"github.com/bazaarbuddy/paylater-engine/pkg/utils"
)

// maxUpdateAttempts bounds the optimistic-concurrency retry loop for
// read-modify-write operations against the ledger.
const maxUpdateAttempts = 3

const ledgerCacheTTL = 5 * time.Minute

type LedgerService struct {
	ledgerRepo repository.LedgerRepository
	txRepo     repository.TransactionRepository
	redis      *redis.Client
	config     *config.Config
	now        func() time.Time
}

func NewLedgerService(
	ledgerRepo repository.LedgerRepository,
	txRepo repository.TransactionRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *LedgerService {
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		txRepo:     txRepo,
		redis:      redisClient,
		config:     cfg,
		now:        time.Now,
	}
}

// Enroll activates pay later for a vendor. Bank details must pass format
// validation; a vendor can enroll only once. The new ledger starts with
// zero used credit and the program's fixed credit limit.
func (s *LedgerService) Enroll(ctx context.Context, vendorID string, details *domain.BankDetails) (*domain.VendorLedger, error) {
	if fieldErrs := domain.ValidateBankDetails(details); len(fieldErrs) > 0 {
		return nil, customError.WrapValidation(formatFieldErrors(fieldErrs))
	}

	existing, err := s.ledgerRepo.GetByVendorID(ctx, vendorID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}
	if existing != nil && existing.IsEnrolled {
		return nil, customError.WrapAlreadyEnrolled(vendorID)
	}

	now := s.now()
	ledger := &domain.VendorLedger{
		ID:               uuid.New(),
		VendorID:         vendorID,
		TotalCreditLimit: s.config.GetCreditLimit(),
		UsedCredit:       decimal.Zero,
		InterestRate:     s.config.GetInterestRate(),
		BankDetails:      details,
		IsEnrolled:       true,
		IsBlocked:        false,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.ledgerRepo.Create(ctx, ledger); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateCache(ctx, vendorID)

	return ledger, nil
}

// GetLedger returns the vendor's ledger, serving cached copies when the
// cache is warm.
func (s *LedgerService) GetLedger(ctx context.Context, vendorID string) (*domain.VendorLedger, error) {
	if cached := s.cachedLedger(ctx, vendorID); cached != nil {
		return cached, nil
	}

	ledger, err := s.ledgerRepo.GetByVendorID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLedgerNotFound(vendorID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.cacheLedger(ctx, ledger)

	return ledger, nil
}

// Charge places a purchase on the vendor's credit. The charge is rejected
// when the account is blocked or the amount would push used credit past
// the limit; a successful charge resets the due date.
func (s *LedgerService) Charge(ctx context.Context, vendorID string, amount decimal.Decimal, description string) (*domain.VendorLedger, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapInvalidAmount(amount.String())
	}

	var ledger *domain.VendorLedger
	err := s.withRetry(vendorID, func() error {
		fresh, err := s.loadForUpdate(ctx, vendorID)
		if err != nil {
			return err
		}

		if !fresh.IsEnrolled {
			return customError.WrapNotEnrolled(vendorID)
		}
		if fresh.IsBlocked {
			return customError.WrapAccountBlocked(vendorID)
		}
		if fresh.UsedCredit.Add(amount).GreaterThan(fresh.TotalCreditLimit) {
			return customError.WrapCreditLimitExceeded(amount.String(), fresh.RemainingCredit().String())
		}

		fresh.UsedCredit = fresh.UsedCredit.Add(amount)
		dueDate := utils.DueDateFrom(s.now(), s.config.Business.DueDays)
		fresh.DueDate = &dueDate

		if err := s.ledgerRepo.UpdateWithVersion(ctx, fresh); err != nil {
			return err
		}

		ledger = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.appendTransaction(ctx, vendorID, amount, domain.TransactionTypePurchase, description, s.now())
	s.invalidateCache(ctx, vendorID)

	return ledger, nil
}

// Standing computes the vendor's derived credit standing as of the given
// date. It never mutates the ledger.
func (s *LedgerService) Standing(ctx context.Context, vendorID string, asOf time.Time) (*domain.StandingResponse, error) {
	ledger, err := s.GetLedger(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	if !ledger.IsEnrolled {
		return nil, customError.WrapNotEnrolled(vendorID)
	}

	standing := domain.ComputeStanding(ledger, asOf)

	return &domain.StandingResponse{
		VendorID:        vendorID,
		RemainingCredit: standing.RemainingCredit,
		IsOverdue:       standing.IsOverdue,
		MonthsOverdue:   standing.MonthsOverdue,
		InterestAmount:  standing.InterestAmount,
		TotalPayable:    standing.TotalPayable,
	}, nil
}

// Repay applies a payment against the vendor's payable balance as of the
// given date. Accrued overdue interest is capitalized into the balance
// first and logged as its own interest transaction, so a partial payment
// reduces the interest-inclusive total. A payment covering the full
// payable amount clears the balance, the due date, and any block.
func (s *LedgerService) Repay(ctx context.Context, vendorID string, req *domain.RepayRequest, asOf time.Time) (*domain.VendorLedger, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapInvalidAmount(req.Amount.String())
	}
	if err := validateRepayInput(req); err != nil {
		return nil, err
	}

	var (
		ledger   *domain.VendorLedger
		interest decimal.Decimal
	)
	err := s.withRetry(vendorID, func() error {
		fresh, err := s.loadForUpdate(ctx, vendorID)
		if err != nil {
			return err
		}

		if !fresh.IsEnrolled {
			return customError.WrapNotEnrolled(vendorID)
		}

		standing := domain.ComputeStanding(fresh, asOf)
		interest = standing.InterestAmount

		if req.Amount.GreaterThanOrEqual(standing.TotalPayable) {
			fresh.UsedCredit = decimal.Zero
			fresh.DueDate = nil

			afsm := statemachine.NewAccountFSM(fresh, asOf)
			if err := afsm.Reactivate(ctx); err != nil {
				return customError.NewBusinessError(customError.ErrCodeValidation, err.Error(), err)
			}
		} else {
			// Partial payment: the capitalized balance shrinks, the due
			// date and any block stay in place.
			fresh.UsedCredit = standing.TotalPayable.Sub(req.Amount)
		}

		if err := s.ledgerRepo.UpdateWithVersion(ctx, fresh); err != nil {
			return err
		}

		ledger = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Transactions carry the settlement date, which may differ from the
	// wall clock when a payment is recorded after the fact.
	if interest.IsPositive() {
		s.appendTransaction(ctx, vendorID, interest, domain.TransactionTypeInterest,
			fmt.Sprintf("Overdue interest capitalized at repayment (ref %s)", req.TransactionID), asOf)
	}
	s.appendTransaction(ctx, vendorID, req.Amount.Neg(), domain.TransactionTypeRepayment,
		fmt.Sprintf("Repayment via %s (ref %s)", req.Method, req.TransactionID), asOf)
	s.invalidateCache(ctx, vendorID)

	return ledger, nil
}

// GetTransactions returns the vendor's transaction history, oldest first.
func (s *LedgerService) GetTransactions(ctx context.Context, vendorID string) ([]*domain.LedgerTransaction, error) {
	if _, err := s.GetLedger(ctx, vendorID); err != nil {
		return nil, err
	}

	transactions, err := s.txRepo.GetByVendorID(ctx, vendorID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return transactions, nil
}

// SweepOverdue blocks every account whose balance has been overdue for
// longer than the configured grace period. Returns the number of
// accounts blocked. Meant to run from the daily scheduler.
func (s *LedgerService) SweepOverdue(ctx context.Context, asOf time.Time) (int, error) {
	cutoff := asOf.AddDate(0, 0, -s.config.Business.BlockGraceDays)

	overdue, err := s.ledgerRepo.ListOverdue(ctx, cutoff)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	blocked := 0
	for _, ledger := range overdue {
		afsm := statemachine.NewAccountFSM(ledger, asOf)
		if err := afsm.Block(ctx); err != nil {
			log.Printf("skipping block for vendor %s: %v", ledger.VendorID, err)
			continue
		}

		if err := s.ledgerRepo.UpdateWithVersion(ctx, ledger); err != nil {
			// A concurrent repayment beat the sweep; the next run settles it.
			log.Printf("failed to block vendor %s: %v", ledger.VendorID, err)
			continue
		}

		s.invalidateCache(ctx, ledger.VendorID)
		blocked++
	}

	return blocked, nil
}

func (s *LedgerService) loadForUpdate(ctx context.Context, vendorID string) (*domain.VendorLedger, error) {
	ledger, err := s.ledgerRepo.GetByVendorID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapNotEnrolled(vendorID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return ledger, nil
}

func (s *LedgerService) withRetry(vendorID string, op func() error) error {
	var err error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err = op()
		if !errors.Is(err, customError.ErrVersionConflict) {
			return err
		}
	}
	return customError.WrapVersionConflict(vendorID)
}

func (s *LedgerService) appendTransaction(ctx context.Context, vendorID string, amount decimal.Decimal, txType, description string, date time.Time) {
	tx := &domain.LedgerTransaction{
		ID:          uuid.New(),
		VendorID:    vendorID,
		Amount:      amount,
		Type:        txType,
		Date:        date,
		Description: description,
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		// The ledger mutation already committed; a missing log entry is
		// recoverable from the ledger state itself.
		log.Printf("failed to append %s transaction for vendor %s: %v", txType, vendorID, err)
	}
}

func validateRepayInput(req *domain.RepayRequest) error {
	switch req.Method {
	case domain.PaymentMethodUPI, domain.PaymentMethodBankTransfer, domain.PaymentMethodCash:
	default:
		return customError.WrapValidation(fmt.Sprintf("unknown payment method %q", req.Method))
	}

	if req.TransactionID == "" {
		return customError.WrapValidation("transaction reference is required")
	}

	return nil
}

func formatFieldErrors(fieldErrs []domain.FieldError) string {
	msg := "invalid bank details:"
	for _, fe := range fieldErrs {
		msg += fmt.Sprintf(" %s (%s);", fe.Field, fe.Message)
	}
	return msg
}

func (s *LedgerService) cacheKey(vendorID string) string {
	return fmt.Sprintf("paylater:ledger:%s", vendorID)
}

func (s *LedgerService) cachedLedger(ctx context.Context, vendorID string) *domain.VendorLedger {
	if s.redis == nil {
		return nil
	}

	payload, err := s.redis.Get(ctx, s.cacheKey(vendorID)).Bytes()
	if err != nil {
		return nil
	}

	var ledger domain.VendorLedger
	if err := json.Unmarshal(payload, &ledger); err != nil {
		return nil
	}

	return &ledger
}

func (s *LedgerService) cacheLedger(ctx context.Context, ledger *domain.VendorLedger) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(ledger)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, s.cacheKey(ledger.VendorID), payload, ledgerCacheTTL).Err(); err != nil {
		log.Printf("failed to cache ledger for vendor %s: %v", ledger.VendorID, err)
	}
}

func (s *LedgerService) invalidateCache(ctx context.Context, vendorID string) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, s.cacheKey(vendorID)).Err(); err != nil {
		log.Printf("failed to invalidate ledger cache for vendor %s: %v", vendorID, err)
	}
}

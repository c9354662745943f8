package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/bazaarbuddy/paylater-engine/internal/domain"
	"github.com/bazaarbuddy/paylater-engine/internal/service"
	customError "github.com/bazaarbuddy/paylater-engine/pkg/errors"
	"github.com/bazaarbuddy/paylater-engine/pkg/response"
)

type PayLaterHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
}

func NewPayLaterHandler(svc *service.LedgerService) (*PayLaterHandler, error) {
	v := validator.New()
	if err := domain.RegisterValidations(v); err != nil {
		return nil, err
	}

	return &PayLaterHandler{
		service:   svc,
		validator: v,
	}, nil
}

// Enroll handles POST /vendors/{vendorId}/pay-later/enroll
func (h *PayLaterHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]

	var req domain.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.UnprocessableEntity(w, "Invalid bank details", err)
		return
	}

	ledger, err := h.service.Enroll(r.Context(), vendorID, req.BankDetails())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, ledger)
}

// GetLedger handles GET /vendors/{vendorId}/pay-later
func (h *PayLaterHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]

	ledger, err := h.service.GetLedger(r.Context(), vendorID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, ledger)
}

// Standing handles GET /vendors/{vendorId}/pay-later/standing
func (h *PayLaterHandler) Standing(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]

	standing, err := h.service.Standing(r.Context(), vendorID, time.Now())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, standing)
}

// Charge handles POST /vendors/{vendorId}/pay-later/charge
func (h *PayLaterHandler) Charge(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]

	var req domain.ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.UnprocessableEntity(w, "Invalid charge request", err)
		return
	}

	ledger, err := h.service.Charge(r.Context(), vendorID, req.Amount, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, ledger)
}

// Repay handles POST /vendors/{vendorId}/pay-later/repay
func (h *PayLaterHandler) Repay(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]

	var req domain.RepayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.UnprocessableEntity(w, "Invalid repayment request", err)
		return
	}

	ledger, err := h.service.Repay(r.Context(), vendorID, &req, time.Now())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, ledger)
}

// Transactions handles GET /vendors/{vendorId}/pay-later/transactions
func (h *PayLaterHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]

	transactions, err := h.service.GetTransactions(r.Context(), vendorID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, transactions)
}

// writeError maps business error codes onto HTTP status codes.
func (h *PayLaterHandler) writeError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if !errors.As(err, &bizErr) {
		response.InternalServerError(w, "Unexpected error", err)
		return
	}

	status := http.StatusInternalServerError
	switch bizErr.Code {
	case customError.ErrCodeValidation:
		status = http.StatusUnprocessableEntity
	case customError.ErrCodeInvalidAmount:
		status = http.StatusBadRequest
	case customError.ErrCodeLedgerNotFound:
		status = http.StatusNotFound
	case customError.ErrCodeAlreadyEnrolled, customError.ErrCodeNotEnrolled,
		customError.ErrCodeCreditLimitExceeded, customError.ErrCodeVersionConflict:
		status = http.StatusConflict
	case customError.ErrCodeAccountBlocked:
		status = http.StatusForbidden
	}

	response.Error(w, status, bizErr.Message, bizErr.Code, bizErr.Err)
}
